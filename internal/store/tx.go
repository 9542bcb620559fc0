package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
)

// SchedulerTx is the set of row operations available inside an advisory-lock
// transaction. Keeping it an interface lets the service-level booking and
// cancellation logic run against fakes in tests.
type SchedulerTx interface {
	CreateSlot(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	CreateSlots(ctx context.Context, slots []domain.Slot) ([]domain.Slot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (domain.Slot, error)
	ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error)
	UpdateSlotBookings(ctx context.Context, slotID uuid.UUID, delta int) (domain.Slot, error)
	MarkSlotCancelled(ctx context.Context, slotID uuid.UUID, at time.Time) (domain.Slot, error)

	CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	GetActiveBookingByInterview(ctx context.Context, interviewID uuid.UUID) (domain.Booking, error)
	ListActiveBookingsBySlot(ctx context.Context, slotID uuid.UUID) ([]domain.Booking, error)
	ReleaseBooking(ctx context.Context, bookingID uuid.UUID, at time.Time) (domain.Booking, error)

	GetInterview(ctx context.Context, id uuid.UUID) (domain.Interview, error)
	UpdateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error)
}
