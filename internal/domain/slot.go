package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SlotType string

const (
	SlotTypeFixed             SlotType = "fixed"
	SlotTypeRecurringInstance SlotType = "recurring_instance"
)

type AIInterviewType string

const (
	AIInterviewTypeScreening  AIInterviewType = "screening"
	AIInterviewTypeTechnical  AIInterviewType = "technical"
	AIInterviewTypeBehavioral AIInterviewType = "behavioral"
	AIInterviewTypeCombined   AIInterviewType = "combined"
)

// SlotStatus is derived from the slot's counters on every read. It is never
// stored, so it cannot drift from the booking counter under concurrent
// updates.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusFull      SlotStatus = "full"
	SlotStatusCancelled SlotStatus = "cancelled"
)

type Slot struct {
	bun.BaseModel `bun:"table:slots"`

	ID              uuid.UUID       `bun:"id,pk,type:uuid"`
	CompanyRef      string          `bun:"company_ref,notnull"`
	JobRef          *string         `bun:"job_ref"`
	StartTime       time.Time       `bun:"start_time,notnull"`
	EndTime         time.Time       `bun:"end_time,notnull"`
	DurationMinutes int             `bun:"duration_minutes,notnull"`
	SlotType        SlotType        `bun:"slot_type,notnull"`
	AIInterviewType AIInterviewType `bun:"ai_interview_type,notnull"`
	AIConfiguration json.RawMessage `bun:"ai_configuration,type:jsonb"`
	MaxCandidates   int             `bun:"max_candidates,notnull"`
	CurrentBookings int             `bun:"current_bookings,notnull"`
	Notes           string          `bun:"notes"`
	CancelledAt     *time.Time      `bun:"cancelled_at"`
	CreatedAt       time.Time       `bun:"created_at,notnull"`
	UpdatedAt       time.Time       `bun:"updated_at,notnull"`
}

func (s *Slot) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

func (s Slot) Status() SlotStatus {
	switch {
	case s.CancelledAt != nil:
		return SlotStatusCancelled
	case s.CurrentBookings >= s.MaxCandidates:
		return SlotStatusFull
	default:
		return SlotStatusAvailable
	}
}

func (s Slot) IsCancelled() bool {
	return s.CancelledAt != nil
}
