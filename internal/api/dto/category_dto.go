package dto

import "time"

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
}

// SetCategoryActiveRequest payload.
type SetCategoryActiveRequest struct {
	Active bool `json:"active"`
}

// CategoryResponse is the wire form of a category.
type CategoryResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Subcategories []string  `json:"subcategories,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
