package events

import "time"

// Topics shared by the rental services. Each topic has a companion DLQ
// for messages that exhaust their retries.
const (
	TopicRentalEvents    = "rental-events"
	TopicRentalEventsDLQ = "rental-events-dlq"
)

// Event types carried in the event-type header.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventFeedbackRecorded = "feedback.recorded"
)

// BookingCreated is published after a booking commits. The reserved
// range is already part of the tool's booked dates when this goes out.
type BookingCreated struct {
	BookingID  string    `json:"booking_id"`
	ToolID     string    `json:"tool_id"`
	CustomerID string    `json:"customer_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingCancelled struct {
	BookingID   string    `json:"booking_id"`
	ToolID      string    `json:"tool_id"`
	CustomerID  string    `json:"customer_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// FeedbackRecorded carries the tool's rating after the recompute, so
// consumers never have to re-derive it.
type FeedbackRecorded struct {
	FeedbackID    string    `json:"feedback_id"`
	ToolID        string    `json:"tool_id"`
	AuthorID      string    `json:"author_id"`
	Rate          int       `json:"rate"`
	ToolRating    float64   `json:"tool_rating"`
	FeedbackCount int64     `json:"feedback_count"`
	CreatedAt     time.Time `json:"created_at"`
}
