package domain

import "time"

// Category is a taxonomy entry used to filter professionals by area.
type Category struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	Name         string    `json:"name"`
	Icon         string    `json:"icon,omitempty"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
