package notifier

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/pkg/kafka"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
)

func newTestNotifier() *Notifier {
	return New(logger.New(logger.Config{Output: io.Discard}))
}

func messageFor(eventType string, payload any) kafka.Message {
	value, _ := json.Marshal(payload)
	return kafka.Message{
		Key:   "tool-1",
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
			kafka.HeaderEventID:   "event-1",
		},
		Topic: events.TopicRentalEvents,
	}
}

func TestHandleMessage_BookingCreated(t *testing.T) {
	msg := messageFor(events.EventBookingCreated, events.BookingCreated{
		BookingID:  "booking-1",
		ToolID:     "tool-1",
		CustomerID: "customer-1",
		StartDate:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		TotalPrice: 400,
	})

	if err := newTestNotifier().HandleMessage(context.Background(), msg); err != nil {
		t.Errorf("HandleMessage returned error: %v", err)
	}
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	msg := kafka.Message{
		Key:   "tool-1",
		Value: []byte("{broken"),
		Headers: map[string]string{
			kafka.HeaderEventType: events.EventFeedbackRecorded,
		},
	}

	if err := newTestNotifier().HandleMessage(context.Background(), msg); err == nil {
		t.Error("HandleMessage accepted malformed payload")
	}
}

func TestHandleMessage_UnknownTypeAcknowledged(t *testing.T) {
	msg := messageFor("tool.repainted", map[string]string{"tool_id": "tool-1"})

	if err := newTestNotifier().HandleMessage(context.Background(), msg); err != nil {
		t.Errorf("HandleMessage returned error for unknown type: %v", err)
	}
}
