package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

// ErrForbidden is returned when the calling actor's capability claim does
// not cover the target company's calendar.
var ErrForbidden = errors.New("actor may not manage slots for this company")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError reports a rejected input. Transports map it to a
// client error.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Actor is a capability claim, not a role: callers state which company
// calendars they may mutate and the service checks nothing else.
type Actor interface {
	CanManageSlots(companyRef string) bool
}

// CompanyActor grants slot management for exactly one company. The transport
// layer builds one from the authenticated request.
type CompanyActor struct {
	CompanyRef string
}

func (a CompanyActor) CanManageSlots(companyRef string) bool {
	return a.CompanyRef != "" && a.CompanyRef == companyRef
}

// TokenIssuer issues a join link token bound to an interview and a slot's
// time window. Implemented by the linktoken service.
type TokenIssuer interface {
	Issue(interviewID uuid.UUID, slotStart, slotEnd time.Time) (string, error)
}

type Service struct {
	repo     store.SchedulerStore
	tokens   TokenIssuer
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo store.SchedulerStore, tokens TokenIssuer, notifier notify.Notifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}
	return &Service{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With(slog.String("component", "scheduling")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// notify dispatches one event and logs failures. Notification delivery never
// fails a booking or release.
func (s *Service) notify(ctx context.Context, event notify.Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.log.WarnContext(ctx, "notification dispatch failed",
			slog.String("event_type", string(event.Type)),
			slog.String("interview_id", event.InterviewID.String()),
			slog.Any("err", err),
		)
	}
}
