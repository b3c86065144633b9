// Package itemstate mirrors the server's item list for an interactive client.
//
// Filters are the single source of truth for what is shown: every filter
// change triggers a server fetch and nothing is filtered locally. Mutations
// apply their result to the loaded page right away and then reconcile with a
// fresh fetch using the current filters.
package itemstate

import (
	"context"
	"slices"
	"sync"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// API is the subset of the REST client the store needs.
type API interface {
	ListItems(ctx context.Context, f model.ItemFilter) (*model.ItemPage, error)
	Categories(ctx context.Context) ([]string, error)
	CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, in model.ItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// State is a snapshot of the store. Pagination is nil until the first fetch.
type State struct {
	Items      []model.Item
	Categories []string
	Pagination *model.Pagination
	Loading    bool
	Error      string
	Filters    model.ItemFilter
}

// FilterChange is a partial filter update. Nil fields keep their value.
type FilterChange struct {
	Page     *int
	Limit    *int
	Category *string
	Search   *string
}

// Listener is called with a snapshot after every state change.
type Listener func(State)

// Store holds item state and keeps it in step with the server.
type Store struct {
	api API

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New creates a store with default filters and nothing loaded.
func New(api API) *Store {
	return &Store{
		api: api,
		state: State{
			Items:      []model.Item{},
			Categories: []string{},
			Filters:    model.DefaultItemFilter(),
		},
		listeners: make(map[int]Listener),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshot() State {
	st := s.state
	st.Items = slices.Clone(s.state.Items)
	st.Categories = slices.Clone(s.state.Categories)
	if s.state.Pagination != nil {
		p := *s.state.Pagination
		st.Pagination = &p
	}
	return st
}

// update applies fn under the lock and then notifies listeners outside it.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// FetchItems loads the page selected by the current filters.
func (s *Store) FetchItems(ctx context.Context) error {
	var f model.ItemFilter
	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
		f = st.Filters
	})

	page, err := s.api.ListItems(ctx, f)
	if err != nil {
		s.update(func(st *State) {
			st.Loading = false
			st.Error = message(err, "Failed to fetch items")
		})
		return err
	}

	s.update(func(st *State) {
		st.Loading = false
		st.Items = slices.Clone(page.Items)
		if st.Items == nil {
			st.Items = []model.Item{}
		}
		p := page.Pagination
		st.Pagination = &p
	})
	return nil
}

// FetchCategories replaces the category list.
func (s *Store) FetchCategories(ctx context.Context) error {
	categories, err := s.api.Categories(ctx)
	if err != nil {
		s.update(func(st *State) { st.Error = message(err, "Failed to fetch categories") })
		return err
	}
	s.update(func(st *State) {
		st.Categories = slices.Clone(categories)
		if st.Categories == nil {
			st.Categories = []string{}
		}
	})
	return nil
}

// Create creates an item, shows it at the top of the loaded page and then
// re-fetches. A failed re-fetch is recorded in the state but does not undo
// the create.
func (s *Store) Create(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	item, err := s.api.CreateItem(ctx, in)
	if err != nil {
		s.update(func(st *State) { st.Error = message(err, "Failed to create item") })
		return nil, err
	}

	s.update(func(st *State) { st.Items = insertFront(st.Items, *item) })
	s.reconcile(ctx)
	return item, nil
}

// Update updates an item, replaces it in the loaded page if present and
// then re-fetches.
func (s *Store) Update(ctx context.Context, id string, in model.ItemInput) (*model.Item, error) {
	item, err := s.api.UpdateItem(ctx, id, in)
	if err != nil {
		s.update(func(st *State) { st.Error = message(err, "Failed to update item") })
		return nil, err
	}

	s.update(func(st *State) { st.Items = replace(st.Items, *item) })
	s.reconcile(ctx)
	return item, nil
}

// Delete deletes an item, drops it from the loaded page and then re-fetches.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteItem(ctx, id); err != nil {
		s.update(func(st *State) { st.Error = message(err, "Failed to delete item") })
		return err
	}

	s.update(func(st *State) { st.Items = remove(st.Items, id) })
	s.reconcile(ctx)
	return nil
}

// reconcile re-fetches the list and categories after a mutation. Errors are
// already recorded in the state by the fetches.
func (s *Store) reconcile(ctx context.Context) {
	if err := s.FetchItems(ctx); err != nil {
		return
	}
	_ = s.FetchCategories(ctx)
}

// SetFilters merges change into the filters and fetches the new page.
// Changing category, search or limit returns to page 1 unless the change
// names a page itself.
func (s *Store) SetFilters(ctx context.Context, change FilterChange) error {
	s.update(func(st *State) {
		f := st.Filters
		reset := false
		if change.Limit != nil && *change.Limit != f.Limit {
			f.Limit = *change.Limit
			reset = true
		}
		if change.Category != nil && *change.Category != f.Category {
			f.Category = *change.Category
			reset = true
		}
		if change.Search != nil && *change.Search != f.Search {
			f.Search = *change.Search
			reset = true
		}
		switch {
		case change.Page != nil:
			f.Page = *change.Page
		case reset:
			f.Page = model.DefaultPage
		}
		st.Filters = f.Normalized()
	})
	return s.FetchItems(ctx)
}

// ResetFilters restores the default filters and fetches the first page.
func (s *Store) ResetFilters(ctx context.Context) error {
	s.update(func(st *State) { st.Filters = model.DefaultItemFilter() })
	return s.FetchItems(ctx)
}

// ClearError clears the error banner.
func (s *Store) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

func message(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func insertFront(items []model.Item, item model.Item) []model.Item {
	return append([]model.Item{item}, remove(items, item.ID)...)
}

func replace(items []model.Item, item model.Item) []model.Item {
	out := slices.Clone(items)
	if i := slices.IndexFunc(out, func(it model.Item) bool { return it.ID == item.ID }); i >= 0 {
		out[i] = item
	}
	return out
}

func remove(items []model.Item, id string) []model.Item {
	return slices.DeleteFunc(slices.Clone(items), func(it model.Item) bool { return it.ID == id })
}
