package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/RaviGowdaS/InventoryManagement/internal/auth"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/stats"
)

// Dashboard tabs.
const (
	tabItems  = "items"
	tabCharts = "charts"
)

// pageSizes are the rows-per-page choices offered by the table.
var pageSizes = []int{5, 10, 25, 50}

// bar is one horizontal bar of a chart, scaled against the largest value.
type bar struct {
	Label   string
	Display string
	Percent int
}

type dashboardData struct {
	PageData
	Tab         string
	Filter      model.ItemFilter
	Items       []model.Item
	Pagination  model.Pagination
	Categories  []string
	Summary     stats.Summary
	ByCategory  []bar
	StockLevels []bar
	PageSizes   []int
}

// PageURL returns the dashboard URL for page with the current filters kept.
func (d *dashboardData) PageURL(page int) string {
	return dashboardURL(d.Tab, d.Filter, page, "")
}

// PrevURL links to the previous page.
func (d *dashboardData) PrevURL() string {
	return d.PageURL(d.Filter.Page - 1)
}

// NextURL links to the next page.
func (d *dashboardData) NextURL() string {
	return d.PageURL(d.Filter.Page + 1)
}

// TabURL returns the dashboard URL for tab with the current filters kept.
func (d *dashboardData) TabURL(tab string) string {
	return dashboardURL(tab, d.Filter, d.Filter.Page, "")
}

// CanEdit reports whether the current user may modify it.
func (d *dashboardData) CanEdit(it model.Item) bool {
	return d.User != nil && d.User.Actor().CanModify(it.CreatedByID)
}

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	q := r.URL.Query()

	data := &dashboardData{
		PageData: PageData{
			Title:  "Dashboard",
			User:   claims,
			Error:  q.Get("error"),
			Notice: q.Get("notice"),
		},
		Tab:       tabItems,
		Filter:    model.ParseItemFilter(q.Get("page"), q.Get("limit"), q.Get("category"), q.Get("search")).Normalized(),
		Items:     []model.Item{},
		PageSizes: pageSizes,
	}
	if q.Get("tab") == tabCharts {
		data.Tab = tabCharts
	}

	page, err := s.Items.List(r.Context(), data.Filter)
	if err != nil {
		slog.Error("failed to list items for dashboard", "error", err)
		data.Error = "Failed to fetch items"
	} else {
		data.Items = page.Items
		data.Pagination = page.Pagination
	}

	data.Categories, err = s.Items.Categories(r.Context())
	if err != nil {
		slog.Error("failed to list categories for dashboard", "error", err)
		data.Error = "Failed to fetch categories"
	}

	data.Summary = stats.Summarize(data.Items, data.Categories)
	data.ByCategory = categoryBars(stats.ByCategory(data.Items))
	data.StockLevels = stockBars(stats.StockLevels(data.Items))

	s.Templates.Render(w, "dashboard.html", data)
}

func categoryBars(points []stats.CategoryPoint) []bar {
	largest := 0
	for _, p := range points {
		largest = max(largest, p.Count)
	}
	bars := make([]bar, 0, len(points))
	for _, p := range points {
		bars = append(bars, bar{
			Label:   p.Category,
			Display: fmt.Sprintf("%d items, $%.2f", p.Count, p.TotalValue),
			Percent: percent(p.Count, largest),
		})
	}
	return bars
}

func stockBars(points []stats.StockPoint) []bar {
	largest := 0
	for _, p := range points {
		largest = max(largest, p.Stock)
	}
	bars := make([]bar, 0, len(points))
	for _, p := range points {
		bars = append(bars, bar{
			Label:   p.Label,
			Display: strconv.Itoa(p.Stock),
			Percent: percent(p.Stock, largest),
		})
	}
	return bars
}

func percent(v, largest int) int {
	if largest <= 0 {
		return 0
	}
	return v * 100 / largest
}

// dashboardURL builds a dashboard link. Defaults are left out of the query.
func dashboardURL(tab string, f model.ItemFilter, page int, errMsg string) string {
	q := url.Values{}
	if tab != "" && tab != tabItems {
		q.Set("tab", tab)
	}
	if page > model.DefaultPage {
		q.Set("page", strconv.Itoa(page))
	}
	if f.Limit != 0 && f.Limit != model.DefaultLimit {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// returnURL is where a form submission goes back to: the dashboard with the
// filters the form was posted from.
func returnURL(r *http.Request, errMsg string) string {
	f := model.ParseItemFilter(r.FormValue("return_page"), r.FormValue("return_limit"),
		r.FormValue("return_category"), r.FormValue("return_search"))
	return dashboardURL(tabItems, f, f.Page, errMsg)
}

// actor returns the current user as an item actor.
func actor(claims *auth.Claims) model.Actor {
	if claims == nil {
		return model.Actor{}
	}
	return claims.Actor()
}
