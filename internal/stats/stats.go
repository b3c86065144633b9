// Package stats derives dashboard figures and chart series from a loaded
// page of items. Nothing here queries the database.
package stats

import (
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

const (
	// StockChartSize is the number of items shown in the stock level chart.
	StockChartSize = 10
	// LabelLength is the number of title characters kept in chart labels.
	LabelLength = 15
)

// Summary holds the figures shown on the dashboard cards.
type Summary struct {
	TotalItems int     `json:"totalItems"`
	Categories int     `json:"categories"`
	TotalValue float64 `json:"totalValue"`
	LowStock   int     `json:"lowStock"`
}

// CategoryPoint is one slice of the items-by-category chart.
type CategoryPoint struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// StockPoint is one bar of the stock level chart.
type StockPoint struct {
	Label string  `json:"label"`
	Stock int     `json:"stock"`
	Price float64 `json:"price"`
}

// Summarize computes the dashboard figures. The category count comes from
// the separately fetched category list, the rest from items.
func Summarize(items []model.Item, categories []string) Summary {
	s := Summary{
		TotalItems: len(items),
		Categories: len(categories),
	}
	for i := range items {
		s.TotalValue += items[i].Value()
		if items[i].Stock < model.LowStockThreshold {
			s.LowStock++
		}
	}
	return s
}

// ByCategory groups items by category in first-seen order.
func ByCategory(items []model.Item) []CategoryPoint {
	points := []CategoryPoint{}
	index := make(map[string]int)
	for i := range items {
		it := &items[i]
		n, ok := index[it.Category]
		if !ok {
			n = len(points)
			index[it.Category] = n
			points = append(points, CategoryPoint{Category: it.Category})
		}
		points[n].Count++
		points[n].TotalValue += it.Value()
	}
	return points
}

// StockLevels returns the stock of the first StockChartSize items.
func StockLevels(items []model.Item) []StockPoint {
	n := min(len(items), StockChartSize)
	points := make([]StockPoint, 0, n)
	for _, it := range items[:n] {
		points = append(points, StockPoint{
			Label: Label(it.Title),
			Stock: it.Stock,
			Price: it.Price,
		})
	}
	return points
}

// Label shortens a title to LabelLength characters followed by "...".
func Label(title string) string {
	r := []rune(title)
	if len(r) <= LabelLength {
		return title
	}
	return string(r[:LabelLength]) + "..."
}
