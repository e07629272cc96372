package categories

import "time"

// Category is a hierarchical grouping for products.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ParentID    *int64    `json:"parent_id"`
	Description string    `json:"description"`
	FullPath    string    `json:"full_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
