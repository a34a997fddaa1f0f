package domain

import "time"

// Plan is an admin-managed catalog entry. Professionals reference a plan by
// name (PlanType) or id (RequestedPlanID); they never own it.
type Plan struct {
	ID                      string   `json:"id" gorm:"column:id;primaryKey"`
	Name                    string   `json:"name"`
	DurationMonths          int      `json:"duration_months"`
	DurationDays            int      `json:"duration_days,omitempty"`
	Price                   float64  `json:"price"`
	PromoPrice              *float64 `json:"promo_price,omitempty"`
	MaxPhotos               int      `json:"max_photos"`
	MaxReservationsPerMonth int      `json:"max_reservations_per_month"` // 0 = unlimited
	DisplayOrder            int      `json:"display_order"`
	Features                []string `json:"features,omitempty" gorm:"serializer:json"`
	IsActive                bool     `json:"is_active"`
	IsFeatured              bool     `json:"is_featured"`
	IncludesAnalytics       bool     `json:"includes_analytics"`
	PrioritySupport         bool     `json:"priority_support"`

	CreatedAt time.Time `json:"created_at"`
}

// IsFree reports whether the plan is the self-service tier.
func (p Plan) IsFree() bool { return p.Price == 0 }
