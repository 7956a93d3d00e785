package model

import "time"

type Tool struct {
	ID             string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID        string            `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	CategoryID     string            `json:"category_id" bson:"category_id" validate:"required,mongodb"`
	Name           string            `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description    string            `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	PricePerDay    float64           `json:"price_per_day" bson:"price_per_day" validate:"required,gt=0"`
	Images         string            `json:"images" bson:"images" validate:"required"`
	Specifications map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	RentalTerms    string            `json:"rental_terms,omitempty" bson:"rental_terms,omitempty" validate:"omitempty,max=2000"`

	// BookedDates is the tool's committed interval set. Writes go
	// through the reservation path only; invariant: no two overlap.
	BookedDates IntervalSet `json:"booked_dates" bson:"booked_dates"`

	// Rating is derived from feedback and rewritten on every new
	// feedback entry. 0 while the tool has no feedback.
	Rating        float64 `json:"rating" bson:"rating" validate:"omitempty,min=0,max=5"`
	FeedbackCount int64   `json:"feedback_count" bson:"feedback_count" validate:"omitempty,min=0"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ToolUpdate struct {
	Name           string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description    string             `json:"description,omitempty" validate:"omitempty,min=2,max=2000"`
	PricePerDay    *float64           `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	Images         string             `json:"images,omitempty"`
	Specifications *map[string]string `json:"specifications,omitempty"`
	RentalTerms    *string            `json:"rental_terms,omitempty" validate:"omitempty,max=2000"`
}
