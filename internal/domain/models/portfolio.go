package models

import "time"

// Category groups portfolio items.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PortfolioItem is a single gallery image with an optional category.
// Category is the joined row, nil when the item is uncategorized.
type PortfolioItem struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  *string   `json:"description" db:"description"`
	CategoryID   *int64    `json:"category_id" db:"category_id"`
	Category     *Category `json:"category" db:"-"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	ImageBlobURL string    `json:"image_blob_url" db:"image_blob_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
