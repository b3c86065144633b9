package model

import (
	"errors"
	"math"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func TestNewItemDefaults(t *testing.T) {
	item, err := NewItem(ItemInput{
		Title:    strPtr("  Widget "),
		Category: strPtr("Tools"),
		Price:    floatPtr(9.99),
	})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if item.Title != "Widget" {
		t.Errorf("expected trimmed title 'Widget', got %q", item.Title)
	}
	if item.Stock != 0 {
		t.Errorf("expected default stock 0, got %d", item.Stock)
	}
	if !item.IsActive {
		t.Error("expected item to be active by default")
	}
}

func TestNewItemValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    ItemInput
		field string
	}{
		{"missing title", ItemInput{Category: strPtr("Tools"), Price: floatPtr(1)}, "title"},
		{"blank title", ItemInput{Title: strPtr("   "), Category: strPtr("Tools"), Price: floatPtr(1)}, "title"},
		{"missing category", ItemInput{Title: strPtr("A"), Price: floatPtr(1)}, "category"},
		{"missing price", ItemInput{Title: strPtr("A"), Category: strPtr("Tools")}, "price"},
		{"negative price", ItemInput{Title: strPtr("A"), Category: strPtr("Tools"), Price: floatPtr(-1)}, "price"},
		{"nan price", ItemInput{Title: strPtr("A"), Category: strPtr("Tools"), Price: floatPtr(math.NaN())}, "price"},
		{"negative stock", ItemInput{Title: strPtr("A"), Category: strPtr("Tools"), Price: floatPtr(1), Stock: intPtr(-3)}, "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestApplyPartialUpdate(t *testing.T) {
	item := &Item{Title: "Widget", Category: "Tools", Price: 9.99, Stock: 5, IsActive: true}
	item.Apply(ItemInput{Stock: intPtr(7), IsActive: boolPtr(false)})

	if item.Title != "Widget" || item.Category != "Tools" || item.Price != 9.99 {
		t.Errorf("untouched fields changed: %+v", item)
	}
	if item.Stock != 7 {
		t.Errorf("expected stock 7, got %d", item.Stock)
	}
	if item.IsActive {
		t.Error("expected item to be inactive")
	}

	item.Apply(ItemInput{Price: floatPtr(-2)})
	if err := item.Validate(); err == nil {
		t.Error("expected validation error after negative price update")
	}
}
