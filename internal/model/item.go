package model

import (
	"math"
	"strings"
	"time"
)

// Item is an inventory record.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedByID string    `json:"-"`
	CreatedBy   Creator   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Creator is the projection of the owning user exposed alongside an item.
type Creator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ItemInput carries client-supplied item fields. Nil fields were not sent.
// The same shape serves create (required fields checked) and partial update.
type ItemInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// LowStockThreshold is the stock level below which an item counts as low stock.
const LowStockThreshold = 10

// NewItem builds a validated item from create input. Stock defaults to 0 and
// IsActive to true when omitted. Ownership is assigned by the caller.
func NewItem(in ItemInput) (*Item, error) {
	if in.Title == nil {
		return nil, &ValidationError{Field: "title", Message: "Title is required"}
	}
	if in.Category == nil {
		return nil, &ValidationError{Field: "category", Message: "Category is required"}
	}
	if in.Price == nil {
		return nil, &ValidationError{Field: "price", Message: "Price is required"}
	}

	item := &Item{IsActive: true}
	item.Apply(in)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Apply merges the supplied fields of in onto the item. Text fields are trimmed.
func (i *Item) Apply(in ItemInput) {
	if in.Title != nil {
		i.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		i.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		i.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		i.Price = *in.Price
	}
	if in.Stock != nil {
		i.Stock = *in.Stock
	}
	if in.ImageURL != nil {
		i.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.IsActive != nil {
		i.IsActive = *in.IsActive
	}
}

// Validate checks the item field rules. It runs on every write.
func (i *Item) Validate() error {
	switch {
	case i.Title == "":
		return &ValidationError{Field: "title", Message: "Title is required"}
	case i.Category == "":
		return &ValidationError{Field: "category", Message: "Category is required"}
	case math.IsNaN(i.Price) || math.IsInf(i.Price, 0):
		return &ValidationError{Field: "price", Message: "Price must be a number"}
	case i.Price < 0:
		return &ValidationError{Field: "price", Message: "Price must not be negative"}
	case i.Stock < 0:
		return &ValidationError{Field: "stock", Message: "Stock must not be negative"}
	}
	return nil
}

// Value returns price multiplied by stock.
func (i *Item) Value() float64 {
	return i.Price * float64(i.Stock)
}

// ValidationError reports a field that violates the item rules.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
