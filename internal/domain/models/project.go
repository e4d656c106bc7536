package models

import "time"

// Project is a portfolio project shown on the public site.
type Project struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	Location     *string   `json:"location" db:"location"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Images is only populated by the *WithImages reads.
	Images []ProjectImage `json:"images,omitempty" db:"-"`
}

// ProjectImage belongs to exactly one project and is ordered within it.
type ProjectImage struct {
	ID           int64     `json:"id" db:"id"`
	ProjectID    int64     `json:"project_id" db:"project_id"`
	Title        string    `json:"title" db:"title"`
	Description  *string   `json:"description" db:"description"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	ImageBlobURL string    `json:"image_blob_url" db:"image_blob_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
