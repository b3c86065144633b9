package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// itemSelect joins the creator so every returned item carries the {name, email}
// projection of its owner.
const itemSelect = `SELECT i.id, i.title, i.description, i.category, i.price, i.stock,
        i.image_url, i.is_active, i.created_by, i.created_at, i.updated_at,
        COALESCE(u.name, ''), COALESCE(u.email, '')
 FROM items i
 LEFT JOIN users u ON u.id = i.created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description, imageURL sql.NullString
	err := row.Scan(&item.ID, &item.Title, &description, &item.Category, &item.Price, &item.Stock,
		&imageURL, &item.IsActive, &item.CreatedByID, &item.CreatedAt, &item.UpdatedAt,
		&item.CreatedBy.Name, &item.CreatedBy.Email)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageURL = imageURL.String
	return item, nil
}

// CreateItem inserts a new item owned by item.CreatedByID and returns it with
// the creator expanded. ID and timestamps are assigned here.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, price, stock, image_url, is_active,
		                    created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Title, nullString(item.Description), item.Category, item.Price, item.Stock,
		nullString(item.ImageURL), item.IsActive, item.CreatedByID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID regardless of its active flag, or nil if it
// does not exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns one page of active items matching the filter, newest
// first, together with the total number of matching items.
func ListItems(ctx context.Context, db *sql.DB, f model.ItemFilter) ([]model.Item, int, error) {
	f = f.Normalized()
	where, args := buildItemConditions(f)

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items i WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	if f.PastEnd(total) {
		return []model.Item{}, total, nil
	}

	pageArgs := append(slices.Clone(args), f.Limit, f.Offset())
	rows, err := db.QueryContext(ctx,
		itemSelect+` WHERE `+where+` ORDER BY i.created_at DESC, i.id DESC LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	return items, total, nil
}

// UpdateItem writes every mutable field of item. Ownership and creation time
// are never touched. It reports whether the item existed.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items
		 SET title = ?, description = ?, category = ?, price = ?, stock = ?,
		     image_url = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		item.Title, nullString(item.Description), item.Category, item.Price, item.Stock,
		nullString(item.ImageURL), item.IsActive, time.Now().UTC(), item.ID,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return n > 0, nil
}

// DeleteItem permanently removes an item. It reports whether a row was removed.
func DeleteItem(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}

// ListCategories returns the distinct categories of active items.
func ListCategories(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT category FROM items WHERE is_active = 1 ORDER BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SetItemImage stores an item's image data and points its image URL at it.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime, imageURL string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, image_url = ?, updated_at = ? WHERE id = ?`,
		image, mime, imageURL, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type. Data is nil when
// the item or its image does not exist.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
