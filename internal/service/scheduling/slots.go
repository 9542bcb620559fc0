package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

type CreateSlotInput struct {
	CompanyRef      string
	JobRef          *string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	AIInterviewType domain.AIInterviewType
	AIConfiguration json.RawMessage
	MaxCandidates   int
	Notes           string
}

// CreateSlot validates and persists a single fixed slot. The slot must not
// overlap any non-cancelled slot of the same company.
func (s *Service) CreateSlot(ctx context.Context, actor Actor, in CreateSlotInput) (domain.Slot, error) {
	companyRef := strings.TrimSpace(in.CompanyRef)
	if companyRef == "" {
		return domain.Slot{}, validationError("company_ref is required")
	}
	if !actor.CanManageSlots(companyRef) {
		return domain.Slot{}, ErrForbidden
	}

	start := in.StartTime.UTC()
	end := in.EndTime.UTC()
	if end.Equal(start) || end.Before(start) {
		return domain.Slot{}, validationError("end_time must be after start_time")
	}

	intervalMinutes := int(end.Sub(start) / time.Minute)
	duration := in.DurationMinutes
	if duration == 0 {
		duration = intervalMinutes
	}
	if duration != intervalMinutes {
		return domain.Slot{}, validationError(fmt.Sprintf(
			"duration_minutes %d does not match the %d minute interval", duration, intervalMinutes))
	}
	if in.MaxCandidates < 1 {
		return domain.Slot{}, validationError("max_candidates must be at least 1")
	}
	if in.AIInterviewType == "" {
		return domain.Slot{}, validationError("ai_interview_type is required")
	}

	slot := domain.Slot{
		CompanyRef:      companyRef,
		JobRef:          in.JobRef,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: duration,
		SlotType:        domain.SlotTypeFixed,
		AIInterviewType: in.AIInterviewType,
		AIConfiguration: in.AIConfiguration,
		MaxCandidates:   in.MaxCandidates,
		Notes:           in.Notes,
	}

	var out domain.Slot
	err := s.repo.InCompanyTransaction(ctx, companyRef, func(ctx context.Context, tx store.SchedulerTx) error {
		existing, err := tx.ListSlots(ctx, companyRef, start, end)
		if err != nil {
			return err
		}
		if hit := domain.FindConflict(domain.Interval{Start: start, End: end}, domain.SlotIntervals(existing)); hit != nil {
			return store.ErrConflict
		}
		created, err := tx.CreateSlot(ctx, slot)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Slot{}, err
	}
	return out, nil
}

// CancelSlot cancels a slot and force-releases its active bookings in the
// same transaction. Cancelling an already cancelled slot is a no-op. Owners
// of released bookings are notified after commit.
func (s *Service) CancelSlot(ctx context.Context, actor Actor, slotID uuid.UUID) (domain.Slot, error) {
	if slotID == uuid.Nil {
		return domain.Slot{}, validationError("slot_id is required")
	}

	current, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return domain.Slot{}, err
	}
	if !actor.CanManageSlots(current.CompanyRef) {
		return domain.Slot{}, ErrForbidden
	}
	if current.IsCancelled() {
		return current, nil
	}

	var (
		out    domain.Slot
		events []notify.Event
	)
	err = s.repo.InSlotTransaction(ctx, slotID, func(ctx context.Context, tx store.SchedulerTx) error {
		slot, err := tx.GetSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if slot.IsCancelled() {
			out = slot
			return nil
		}

		active, err := tx.ListActiveBookingsBySlot(ctx, slotID)
		if err != nil {
			return err
		}
		now := s.now()
		for _, b := range active {
			if _, err := tx.ReleaseBooking(ctx, b.ID, now); err != nil {
				return err
			}
			iv, err := tx.GetInterview(ctx, b.InterviewRef)
			if err != nil {
				return err
			}
			events = append(events, notify.Event{
				Type:         notify.EventSlotReleased,
				InterviewID:  iv.ID,
				RecipientRef: iv.CandidateRef,
				Payload: map[string]any{
					"slot_id": slotID.String(),
					"reason":  "slot_cancelled",
				},
			})
		}
		if len(active) > 0 {
			if _, err := tx.UpdateSlotBookings(ctx, slotID, -len(active)); err != nil {
				return err
			}
		}

		cancelled, err := tx.MarkSlotCancelled(ctx, slotID, now)
		if err != nil {
			return err
		}
		out = cancelled
		return nil
	})
	if err != nil {
		return domain.Slot{}, err
	}

	for _, ev := range events {
		s.notify(ctx, ev)
	}
	s.log.InfoContext(ctx, "slot cancelled",
		slog.String("slot_id", slotID.String()),
		slog.Int("released_bookings", len(events)),
	)
	return out, nil
}

func (s *Service) GetSlot(ctx context.Context, slotID uuid.UUID) (domain.Slot, error) {
	if slotID == uuid.Nil {
		return domain.Slot{}, validationError("slot_id is required")
	}
	return s.repo.GetSlot(ctx, slotID)
}

func (s *Service) ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error) {
	if strings.TrimSpace(companyRef) == "" {
		return nil, validationError("company_ref is required")
	}
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if end.Equal(start) || end.Before(start) {
		return nil, validationError("window_end must be after window_start")
	}
	return s.repo.ListSlots(ctx, companyRef, start, end)
}
