package domain

import "time"

// Category classifies tickets (hardware, network, account, ...).
// Subcategories are free-form labels scoped to the category.
type Category struct {
	ID            int64
	Name          string
	Description   string
	Subcategories []string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasSubcategory reports whether name is one of the category's subcategories.
func (c *Category) HasSubcategory(name string) bool {
	for _, sub := range c.Subcategories {
		if sub == name {
			return true
		}
	}
	return false
}
