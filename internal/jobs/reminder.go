package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

// UpcomingLister is the one store capability the reminder job needs.
type UpcomingLister interface {
	ListUpcomingInterviews(ctx context.Context, windowStart, windowEnd time.Time) ([]store.UpcomingInterview, error)
}

// ReminderJob scans for interviews whose slot starts soon and publishes a
// reminder event for each. Every run covers the half-open window
// [now+lead, now+lead+step), so with a cron period of step each booking is
// picked up by exactly one run and no dedup state is needed.
type ReminderJob struct {
	store    UpcomingLister
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time

	lead time.Duration
	step time.Duration
}

func NewReminderJob(st UpcomingLister, notifier notify.Notifier, lead, step time.Duration, log *slog.Logger) *ReminderJob {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}
	return &ReminderJob{
		store:    st,
		notifier: notifier,
		log:      log.With(slog.String("component", "reminder_job")),
		now:      time.Now,
		lead:     lead,
		step:     step,
	}
}

// Run executes one scan. It is safe to call from a cron schedule; failures
// are logged, never fatal.
func (j *ReminderJob) Run(ctx context.Context) {
	now := j.now()
	windowStart := now.Add(j.lead)
	windowEnd := windowStart.Add(j.step)

	upcoming, err := j.store.ListUpcomingInterviews(ctx, windowStart, windowEnd)
	if err != nil {
		j.log.ErrorContext(ctx, "upcoming interview scan failed", slog.Any("err", err))
		return
	}
	if len(upcoming) == 0 {
		return
	}

	for _, u := range upcoming {
		err := j.notifier.Notify(ctx, notify.Event{
			Type:         notify.EventInterviewReminder,
			InterviewID:  u.InterviewID,
			RecipientRef: u.CandidateRef,
			Payload: map[string]any{
				"slot_id":    u.SlotID.String(),
				"slot_start": u.SlotStart,
				"slot_end":   u.SlotEnd,
			},
		})
		if err != nil {
			j.log.ErrorContext(ctx, "reminder publish failed",
				slog.String("interview_id", u.InterviewID.String()),
				slog.Any("err", err),
			)
		}
	}
	j.log.InfoContext(ctx, "reminders dispatched", slog.Int("count", len(upcoming)))
}
