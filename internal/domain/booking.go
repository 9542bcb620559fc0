package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusActive   BookingStatus = "active"
	BookingStatusReleased BookingStatus = "released"
)

// Booking ties one interview to one slot and consumes one unit of the slot's
// capacity while active.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID           uuid.UUID     `bun:"id,pk,type:uuid"`
	InterviewRef uuid.UUID     `bun:"interview_ref,notnull,type:uuid"`
	SlotRef      uuid.UUID     `bun:"slot_ref,notnull,type:uuid"`
	BookedAt     time.Time     `bun:"booked_at,notnull"`
	Notes        string        `bun:"notes"`
	Status       BookingStatus `bun:"status,notnull"`
	ReleasedAt   *time.Time    `bun:"released_at"`
	CreatedAt    time.Time     `bun:"created_at,notnull"`
	UpdatedAt    time.Time     `bun:"updated_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.BookedAt.IsZero() {
			b.BookedAt = now
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}
