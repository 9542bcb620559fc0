package notify

import (
	"context"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSlotBooked          EventType = "slot_booked"
	EventSlotReleased        EventType = "slot_released"
	EventInterviewLinkIssued EventType = "interview_link_issued"
	EventInterviewReminder   EventType = "interview_reminder"
)

// Event is the fire-and-forget message handed to the notification
// collaborator. Payload carries event-specific detail and is delivered
// verbatim.
type Event struct {
	Type         EventType      `json:"type"`
	InterviewID  uuid.UUID      `json:"interview_id"`
	RecipientRef string         `json:"recipient_ref"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// Notifier delivers events to the notification collaborator. Delivery
// failures are the caller's to log; they must never fail a booking.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
