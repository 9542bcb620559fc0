package scheduling

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

type GenerateResult struct {
	Created []domain.Slot
	Skipped []domain.SkippedSlot
}

// GenerateRecurringSlots expands a recurrence pattern and persists the
// non-conflicting candidates in one all-or-nothing transaction. Conflicting
// candidates are recorded in the skipped list with a reason; a conflict
// never aborts the batch.
func (s *Service) GenerateRecurringSlots(ctx context.Context, actor Actor, p domain.RecurrencePattern) (GenerateResult, error) {
	companyRef := strings.TrimSpace(p.CompanyRef)
	if companyRef == "" {
		return GenerateResult{}, validationError("company_ref is required")
	}
	if !actor.CanManageSlots(companyRef) {
		return GenerateResult{}, ErrForbidden
	}
	if p.MaxCandidatesPerSlot < 1 {
		return GenerateResult{}, validationError("max_candidates_per_slot must be at least 1")
	}
	if p.AIInterviewType == "" {
		return GenerateResult{}, validationError("ai_interview_type is required")
	}
	p.CompanyRef = companyRef

	candidates, err := domain.ExpandPattern(p)
	if err != nil {
		return GenerateResult{}, validationError(err.Error())
	}
	if len(candidates) == 0 {
		return GenerateResult{}, nil
	}

	spanStart := candidates[0].StartTime
	spanEnd := candidates[len(candidates)-1].EndTime

	var result GenerateResult
	err = s.repo.InCompanyTransaction(ctx, companyRef, func(ctx context.Context, tx store.SchedulerTx) error {
		existing, err := tx.ListSlots(ctx, companyRef, spanStart, spanEnd)
		if err != nil {
			return err
		}
		occupied := domain.SlotIntervals(existing)

		accepted := make([]domain.Slot, 0, len(candidates))
		skipped := make([]domain.SkippedSlot, 0)
		for _, c := range candidates {
			interval := domain.Interval{Start: c.StartTime, End: c.EndTime}
			if hit := domain.FindConflict(interval, occupied); hit != nil {
				skipped = append(skipped, domain.SkippedSlot{
					StartTime: c.StartTime,
					EndTime:   c.EndTime,
					Reason:    "overlaps an existing slot",
				})
				continue
			}
			occupied = append(occupied, interval)
			accepted = append(accepted, domain.Slot{
				CompanyRef:      companyRef,
				JobRef:          p.JobRef,
				StartTime:       c.StartTime,
				EndTime:         c.EndTime,
				DurationMinutes: p.SlotDurationMinutes,
				SlotType:        domain.SlotTypeRecurringInstance,
				AIInterviewType: p.AIInterviewType,
				AIConfiguration: p.AIConfiguration,
				MaxCandidates:   p.MaxCandidatesPerSlot,
				Notes:           p.Notes,
			})
		}

		created, err := tx.CreateSlots(ctx, accepted)
		if err != nil {
			return err
		}
		result = GenerateResult{Created: created, Skipped: skipped}
		return nil
	})
	if err != nil {
		return GenerateResult{}, err
	}

	s.log.InfoContext(ctx, "recurring slots generated",
		slog.String("company_ref", companyRef),
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
