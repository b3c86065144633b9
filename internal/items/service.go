// Package items implements the item operations shared by the JSON API and
// the web UI: listing, lookup, and owner-or-admin guarded mutation.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
)

// Errors returned by the service. Validation failures are reported as
// *model.ValidationError; anything else is unexpected.
var (
	ErrNotFound  = errors.New("item not found")
	ErrForbidden = errors.New("not authorized to modify this item")
)

// Service runs item operations against the database.
type Service struct {
	DB *sql.DB
}

// New returns a service backed by db.
func New(db *sql.DB) *Service {
	return &Service{DB: db}
}

// List returns one page of active items matching f.
func (s *Service) List(ctx context.Context, f model.ItemFilter) (*model.ItemPage, error) {
	f = f.Normalized()
	items, total, err := store.ListItems(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	return &model.ItemPage{
		Items:      items,
		Pagination: model.NewPagination(f.Page, f.Limit, total),
	}, nil
}

// Get returns an item by ID, active or not.
func (s *Service) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// Create stores a new item owned by actor.
func (s *Service) Create(ctx context.Context, actor model.Actor, in model.ItemInput) (*model.Item, error) {
	if actor.UserID == "" {
		return nil, ErrForbidden
	}

	item, err := model.NewItem(in)
	if err != nil {
		return nil, err
	}
	item.CreatedByID = actor.UserID

	return store.CreateItem(ctx, s.DB, item)
}

// Update applies the supplied fields of in to the item. Ownership is checked
// before anything is applied.
func (s *Service) Update(ctx context.Context, actor model.Actor, id string, in model.ItemInput) (*model.Item, error) {
	item, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	item.Apply(in)
	if err := item.Validate(); err != nil {
		return nil, err
	}

	ok, err := store.UpdateItem(ctx, s.DB, item)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// Delete permanently removes an item.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	ok, err := store.DeleteItem(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Categories returns the distinct categories of active items.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return store.ListCategories(ctx, s.DB)
}

// SetImage stores an already processed JPEG for the item and points its
// image URL at the serving route.
func (s *Service) SetImage(ctx context.Context, actor model.Actor, id string, jpeg []byte) (*model.Item, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := store.SetItemImage(ctx, s.DB, id, jpeg, "image/jpeg", ImageURL(id)); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Image returns the stored image bytes and MIME type of an item.
func (s *Service) Image(ctx context.Context, id string) ([]byte, string, error) {
	data, mime, err := store.GetItemImage(ctx, s.DB, id)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", ErrNotFound
	}
	return data, mime, nil
}

// ImageURL is the path under which an item's uploaded image is served.
func ImageURL(id string) string {
	return fmt.Sprintf("/items/%s/image", id)
}

func (s *Service) authorize(ctx context.Context, actor model.Actor, id string) (*model.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(item.CreatedByID) {
		return nil, ErrForbidden
	}
	return item, nil
}
