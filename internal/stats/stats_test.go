package stats

import (
	"fmt"
	"testing"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

func TestSummarize(t *testing.T) {
	items := []model.Item{
		{Title: "A", Category: "Tools", Price: 2.5, Stock: 4},
		{Title: "B", Category: "Tools", Price: 1, Stock: 10},
		{Title: "C", Category: "Food", Price: 3, Stock: 0},
	}

	s := Summarize(items, []string{"Food", "Tools", "Toys"})

	if s.TotalItems != 3 {
		t.Errorf("expected 3 items, got %d", s.TotalItems)
	}
	if s.Categories != 3 {
		t.Errorf("expected category count from list, got %d", s.Categories)
	}
	if s.TotalValue != 20 {
		t.Errorf("expected total value 20, got %v", s.TotalValue)
	}
	if s.LowStock != 2 {
		t.Errorf("expected 2 low stock items, got %d", s.LowStock)
	}
}

func TestByCategoryKeepsFirstSeenOrder(t *testing.T) {
	items := []model.Item{
		{Category: "Tools", Price: 1, Stock: 2},
		{Category: "Food", Price: 5, Stock: 1},
		{Category: "Tools", Price: 3, Stock: 1},
	}

	points := ByCategory(items)
	if len(points) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(points))
	}
	if points[0].Category != "Tools" || points[0].Count != 2 || points[0].TotalValue != 5 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	if points[1].Category != "Food" || points[1].Count != 1 {
		t.Errorf("unexpected second point: %+v", points[1])
	}

	if got := ByCategory(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil series, got %v", got)
	}
}

func TestStockLevels(t *testing.T) {
	var items []model.Item
	for i := 0; i < 12; i++ {
		items = append(items, model.Item{Title: fmt.Sprintf("Item %d", i), Stock: i})
	}

	points := StockLevels(items)
	if len(points) != StockChartSize {
		t.Fatalf("expected %d points, got %d", StockChartSize, len(points))
	}
	if points[9].Stock != 9 {
		t.Errorf("expected first ten items in order, got stock %d at 9", points[9].Stock)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Short", "Short"},
		{"Exactly15Chars!", "Exactly15Chars!"},
		{"A rather long product title", "A rather long p..."},
		{"Čćžšđ Čćžšđ Čćžšđ", "Čćžšđ Čćžšđ Čćž..."},
	}

	for _, tt := range tests {
		if got := Label(tt.in); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
