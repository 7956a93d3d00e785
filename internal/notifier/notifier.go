package notifier

import (
	"context"
	"fmt"

	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/pkg/kafka"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
)

// Notifier consumes rental events and surfaces them as notifications.
// Delivery is a structured log line for now; the handler is the seam
// where mail or messenger transports plug in.
type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// HandleMessage dispatches one consumed event. Unknown event types are
// logged and acknowledged, not retried: replaying them cannot help.
func (n *Notifier) HandleMessage(ctx context.Context, msg kafka.Message) error {
	switch msg.GetEventType() {
	case events.EventBookingCreated:
		return n.handleBookingCreated(msg)
	case events.EventBookingCancelled:
		return n.handleBookingCancelled(msg)
	case events.EventFeedbackRecorded:
		return n.handleFeedbackRecorded(msg)
	default:
		n.log.Warn("Skipping event of unknown type",
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
			"topic", msg.Topic,
		)
		return nil
	}
}

func (n *Notifier) handleBookingCreated(msg kafka.Message) error {
	var event events.BookingCreated
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode booking.created event: %w", err)
	}

	n.log.Info("Booking created",
		"event_id", msg.GetEventID(),
		"booking_id", event.BookingID,
		"tool_id", event.ToolID,
		"customer_id", event.CustomerID,
		"start_date", event.StartDate,
		"end_date", event.EndDate,
		"total_price", event.TotalPrice,
	)
	return nil
}

func (n *Notifier) handleBookingCancelled(msg kafka.Message) error {
	var event events.BookingCancelled
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode booking.cancelled event: %w", err)
	}

	n.log.Info("Booking cancelled",
		"event_id", msg.GetEventID(),
		"booking_id", event.BookingID,
		"tool_id", event.ToolID,
		"customer_id", event.CustomerID,
	)
	return nil
}

func (n *Notifier) handleFeedbackRecorded(msg kafka.Message) error {
	var event events.FeedbackRecorded
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode feedback.recorded event: %w", err)
	}

	n.log.Info("Feedback recorded",
		"event_id", msg.GetEventID(),
		"feedback_id", event.FeedbackID,
		"tool_id", event.ToolID,
		"rate", event.Rate,
		"tool_rating", event.ToolRating,
		"feedback_count", event.FeedbackCount,
	)
	return nil
}
