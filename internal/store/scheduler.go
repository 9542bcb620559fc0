package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
)

// SlotSearch filters the availability query surface. Zero values mean
// "no constraint" except the window, which is always required.
type SlotSearch struct {
	CompanyRef      string
	WindowStart     time.Time
	WindowEnd       time.Time
	AIInterviewType domain.AIInterviewType
	DurationMinutes int
}

// UpcomingInterview is a reminder-scan row: an active booking joined with
// its slot and interview.
type UpcomingInterview struct {
	InterviewID  uuid.UUID
	CandidateRef string
	SlotID       uuid.UUID
	SlotStart    time.Time
	SlotEnd      time.Time
}

// SchedulerStore is the persistence surface of the scheduling core. All
// composite mutations go through the transaction helpers so that capacity
// invariants hold under concurrent requests.
type SchedulerStore interface {
	// InCompanyTransaction serializes calendar mutations for one company,
	// used by single-slot creation and recurring batch generation.
	InCompanyTransaction(ctx context.Context, companyRef string, fn func(ctx context.Context, tx SchedulerTx) error) error

	// InSlotTransaction serializes capacity mutations for one slot, used
	// by booking, release and slot cancellation. Unrelated slots are not
	// blocked.
	InSlotTransaction(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context, tx SchedulerTx) error) error

	GetSlot(ctx context.Context, id uuid.UUID) (domain.Slot, error)
	ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error)
	SearchSlots(ctx context.Context, q SlotSearch) ([]domain.Slot, error)

	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	GetInterview(ctx context.Context, id uuid.UUID) (domain.Interview, error)
	UpdateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error)
}
