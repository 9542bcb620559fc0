package scheduling

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

// Book reserves one unit of a slot's capacity for an interview. The whole
// check-and-increment runs inside a transaction holding the slot's advisory
// lock, so concurrent bookings against the same slot serialize while other
// slots stay unaffected.
func (s *Service) Book(ctx context.Context, interviewID, slotID uuid.UUID, notes string) (domain.Booking, error) {
	if interviewID == uuid.Nil {
		return domain.Booking{}, validationError("interview_id is required")
	}
	if slotID == uuid.Nil {
		return domain.Booking{}, validationError("slot_id is required")
	}

	var (
		out    domain.Booking
		events []notify.Event
	)
	err := s.repo.InSlotTransaction(ctx, slotID, func(ctx context.Context, tx store.SchedulerTx) error {
		slot, err := tx.GetSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if slot.IsCancelled() {
			return store.ErrNotFound
		}

		if _, err := tx.GetActiveBookingByInterview(ctx, interviewID); err == nil {
			return store.ErrAlreadyBooked
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if slot.CurrentBookings >= slot.MaxCandidates {
			return store.ErrSlotFull
		}

		iv, err := tx.GetInterview(ctx, interviewID)
		if err != nil {
			return err
		}

		booking, err := tx.CreateBooking(ctx, domain.Booking{
			InterviewRef: interviewID,
			SlotRef:      slotID,
			BookedAt:     s.now(),
			Notes:        notes,
			Status:       domain.BookingStatusActive,
		})
		if err != nil {
			return err
		}
		if _, err := tx.UpdateSlotBookings(ctx, slotID, +1); err != nil {
			return err
		}

		token, err := s.tokens.Issue(interviewID, slot.StartTime, slot.EndTime)
		if err != nil {
			return err
		}
		iv.LinkToken = token
		iv.Status = domain.InterviewStatusScheduled
		if _, err := tx.UpdateInterview(ctx, iv); err != nil {
			return err
		}

		out = booking
		events = []notify.Event{
			{
				Type:         notify.EventSlotBooked,
				InterviewID:  interviewID,
				RecipientRef: iv.CandidateRef,
				Payload: map[string]any{
					"slot_id":    slotID.String(),
					"start_time": slot.StartTime,
					"end_time":   slot.EndTime,
				},
			},
			{
				Type:         notify.EventInterviewLinkIssued,
				InterviewID:  interviewID,
				RecipientRef: iv.CandidateRef,
				Payload: map[string]any{
					"link_token": token,
				},
			},
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	for _, ev := range events {
		s.notify(ctx, ev)
	}
	s.log.InfoContext(ctx, "slot booked",
		slog.String("slot_id", slotID.String()),
		slog.String("interview_id", interviewID.String()),
	)
	return out, nil
}

// Release frees the booking's capacity unit. Releasing an already released
// booking is a no-op success; the counter is never decremented twice.
func (s *Service) Release(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	if bookingID == uuid.Nil {
		return domain.Booking{}, validationError("booking_id is required")
	}

	current, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if current.Status == domain.BookingStatusReleased {
		return current, nil
	}

	var (
		out   domain.Booking
		event *notify.Event
	)
	err = s.repo.InSlotTransaction(ctx, current.SlotRef, func(ctx context.Context, tx store.SchedulerTx) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status == domain.BookingStatusReleased {
			out = booking
			return nil
		}

		released, err := tx.ReleaseBooking(ctx, bookingID, s.now())
		if err != nil {
			return err
		}
		if _, err := tx.UpdateSlotBookings(ctx, booking.SlotRef, -1); err != nil {
			return err
		}

		iv, err := tx.GetInterview(ctx, booking.InterviewRef)
		if err != nil {
			return err
		}
		out = released
		event = &notify.Event{
			Type:         notify.EventSlotReleased,
			InterviewID:  iv.ID,
			RecipientRef: iv.CandidateRef,
			Payload: map[string]any{
				"slot_id": booking.SlotRef.String(),
			},
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if event != nil {
		s.notify(ctx, *event)
	}
	return out, nil
}

// BookBySearch resolves the earliest slot matching the criteria and books it.
// A lost race against another booking is surfaced as-is, never retried.
func (s *Service) BookBySearch(ctx context.Context, interviewID uuid.UUID, criteria SearchCriteria, notes string) (domain.Booking, error) {
	if interviewID == uuid.Nil {
		return domain.Booking{}, validationError("interview_id is required")
	}

	slots, err := s.Search(ctx, criteria)
	if err != nil {
		return domain.Booking{}, err
	}
	if len(slots) == 0 {
		return domain.Booking{}, store.ErrNotFound
	}

	return s.Book(ctx, interviewID, slots[0].ID, notes)
}
