package scheduling

import (
	"context"
	"time"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

type SearchCriteria struct {
	CompanyRef      string
	From            time.Time
	To              time.Time
	AIInterviewType domain.AIInterviewType
	DurationMinutes int
}

// Search returns available slots (not cancelled, not full) matching the
// criteria, earliest first. It never mutates state.
func (s *Service) Search(ctx context.Context, criteria SearchCriteria) ([]domain.Slot, error) {
	from := criteria.From.UTC()
	to := criteria.To.UTC()
	if to.Equal(from) || to.Before(from) {
		return nil, validationError("to must be after from")
	}
	if criteria.DurationMinutes < 0 {
		return nil, validationError("duration_minutes must not be negative")
	}

	return s.repo.SearchSlots(ctx, store.SlotSearch{
		CompanyRef:      criteria.CompanyRef,
		WindowStart:     from,
		WindowEnd:       to,
		AIInterviewType: criteria.AIInterviewType,
		DurationMinutes: criteria.DurationMinutes,
	})
}
