package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ToolID     string `json:"tool_id" bson:"tool_id" validate:"required,mongodb"`
	CustomerID string `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`

	FirstName string `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Phone     string `json:"phone" bson:"phone" validate:"required,min=10,max=20"`

	StartDate time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" bson:"end_date" validate:"required"`

	// TotalPrice is computed once at creation and never changes.
	TotalPrice float64 `json:"total_price" bson:"total_price" validate:"omitempty,min=0"`

	DeliveryCity   string `json:"delivery_city" bson:"delivery_city" validate:"required,min=2,max=100"`
	DeliveryBranch string `json:"delivery_branch" bson:"delivery_branch" validate:"required,min=1,max=200"`

	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Range returns the booked interval as a DateRange.
func (b *Booking) Range() DateRange {
	return DateRange{From: b.StartDate, To: b.EndDate}
}

// BookingUpdate carries the mutable booking fields. Dates and price
// are immutable after creation; only status and delivery data move.
type BookingUpdate struct {
	Status         string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	DeliveryCity   string `json:"delivery_city,omitempty" validate:"omitempty,min=2,max=100"`
	DeliveryBranch string `json:"delivery_branch,omitempty" validate:"omitempty,min=1,max=200"`
}
