package linktoken

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

const DefaultGrace = 15 * time.Minute

// InterviewStore is the slice of persistence the token service needs.
type InterviewStore interface {
	GetInterview(ctx context.Context, id uuid.UUID) (domain.Interview, error)
	UpdateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error)
}

// Service issues and validates signed, time-windowed join links. There is no
// revocation list: tokens are invalidated by the interview status check on
// every validate call, so cancellation takes effect immediately.
type Service struct {
	secret      []byte
	graceBefore time.Duration
	graceAfter  time.Duration
	interviews  InterviewStore
	log         *slog.Logger
	now         func() time.Time
}

func NewService(secret []byte, graceBefore, graceAfter time.Duration, interviews InterviewStore, log *slog.Logger) *Service {
	if graceBefore <= 0 {
		graceBefore = DefaultGrace
	}
	if graceAfter <= 0 {
		graceAfter = DefaultGrace
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		secret:      secret,
		graceBefore: graceBefore,
		graceAfter:  graceAfter,
		interviews:  interviews,
		log:         log.With(slog.String("component", "linktoken")),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates a token bound to the interview and the slot's time window.
func (s *Service) Issue(interviewID uuid.UUID, slotStart, slotEnd time.Time) (string, error) {
	return encodeToken(s.secret, Payload{
		InterviewID: interviewID,
		IssuedAt:    s.now(),
		SlotStart:   slotStart.UTC(),
		SlotEnd:     slotEnd.UTC(),
	})
}

// Validate runs the full check chain: signature, payload shape, access
// window, then the live interview row. The access window is
// [slot_start - graceBefore, slot_end + graceAfter], boundaries included.
func (s *Service) Validate(ctx context.Context, token string) (Payload, domain.Interview, error) {
	p, err := decodeToken(s.secret, token)
	if err != nil {
		return Payload{}, domain.Interview{}, err
	}

	now := s.now()
	windowStart := p.SlotStart.Add(-s.graceBefore)
	windowEnd := p.SlotEnd.Add(s.graceAfter)
	if now.Before(windowStart) || now.After(windowEnd) {
		return Payload{}, domain.Interview{}, ErrExpiredLink
	}

	iv, err := s.interviews.GetInterview(ctx, p.InterviewID)
	if err != nil {
		return Payload{}, domain.Interview{}, err
	}
	if iv.Status == domain.InterviewStatusCancelled {
		return Payload{}, domain.Interview{}, store.ErrNotFound
	}
	return p, iv, nil
}

// PreviewResult is the read-only metadata shown to a candidate before they
// join.
type PreviewResult struct {
	InterviewID  uuid.UUID
	CandidateRef string
	JobRef       *string
	Status       domain.InterviewStatus
	SlotStart    time.Time
	SlotEnd      time.Time
	StartedAt    *time.Time
}

// Preview validates the token and returns interview metadata without any
// mutation.
func (s *Service) Preview(ctx context.Context, token string) (PreviewResult, error) {
	p, iv, err := s.Validate(ctx, token)
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{
		InterviewID:  iv.ID,
		CandidateRef: iv.CandidateRef,
		JobRef:       iv.JobRef,
		Status:       iv.Status,
		SlotStart:    p.SlotStart,
		SlotEnd:      p.SlotEnd,
		StartedAt:    iv.StartedAt,
	}, nil
}

// Join transitions the interview from scheduled to in_progress and stamps
// started_at. Re-joining an interview that is already in progress returns
// the current state unchanged.
func (s *Service) Join(ctx context.Context, token string) (domain.Interview, error) {
	_, iv, err := s.Validate(ctx, token)
	if err != nil {
		return domain.Interview{}, err
	}

	switch iv.Status {
	case domain.InterviewStatusInProgress:
		return iv, nil
	case domain.InterviewStatusCompleted:
		return domain.Interview{}, ErrAlreadyCompleted
	}

	now := s.now()
	iv.Status = domain.InterviewStatusInProgress
	iv.StartedAt = &now

	updated, err := s.interviews.UpdateInterview(ctx, iv)
	if err != nil {
		return domain.Interview{}, err
	}
	s.log.InfoContext(ctx, "candidate joined interview",
		slog.String("interview_id", iv.ID.String()),
	)
	return updated, nil
}
