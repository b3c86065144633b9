package store

import (
	"strings"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// buildItemConditions builds the WHERE clause and args shared by the count and
// page queries. Only active items are listed; category is an exact match and
// search is a Unicode case-insensitive literal substring of title or
// description (contains_fold, registered by package db).
func buildItemConditions(f model.ItemFilter) (string, []any) {
	conditions := []string{"i.is_active = 1"}
	var args []any

	if f.Category != "" {
		conditions = append(conditions, "i.category = ?")
		args = append(args, f.Category)
	}

	if f.Search != "" {
		conditions = append(conditions,
			`(contains_fold(i.title, ?) OR contains_fold(i.description, ?))`)
		args = append(args, f.Search, f.Search)
	}

	return strings.Join(conditions, " AND "), args
}
