package domain

import "time"

// Favorite links a client to a professional they saved.
type Favorite struct {
	ID             string    `json:"id" gorm:"column:id;primaryKey"`
	UserID         string    `json:"user_id" gorm:"index"`
	ProfessionalID string    `json:"professional_id"`
	CreatedAt      time.Time `json:"created_at"`
}
