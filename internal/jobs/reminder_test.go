package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

type fakeLister struct {
	list func(ctx context.Context, windowStart, windowEnd time.Time) ([]store.UpcomingInterview, error)
}

func (f *fakeLister) ListUpcomingInterviews(ctx context.Context, windowStart, windowEnd time.Time) ([]store.UpcomingInterview, error) {
	if f.list == nil {
		panic("unexpected ListUpcomingInterviews call")
	}
	return f.list(ctx, windowStart, windowEnd)
}

type captureNotifier struct {
	events []notify.Event
	err    error
}

func (n *captureNotifier) Notify(_ context.Context, event notify.Event) error {
	n.events = append(n.events, event)
	return n.err
}

func TestReminderJob_ScansLeadWindowAndPublishes(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	ivID := uuid.New()
	slotID := uuid.New()
	slotStart := now.Add(62 * time.Minute)

	var gotStart, gotEnd time.Time
	lister := &fakeLister{
		list: func(_ context.Context, windowStart, windowEnd time.Time) ([]store.UpcomingInterview, error) {
			gotStart, gotEnd = windowStart, windowEnd
			return []store.UpcomingInterview{{
				InterviewID:  ivID,
				CandidateRef: "cand-7",
				SlotID:       slotID,
				SlotStart:    slotStart,
				SlotEnd:      slotStart.Add(time.Hour),
			}}, nil
		},
	}
	notifier := &captureNotifier{}

	job := NewReminderJob(lister, notifier, time.Hour, 5*time.Minute, slog.New(slog.DiscardHandler))
	job.now = func() time.Time { return now }
	job.Run(context.Background())

	if !gotStart.Equal(now.Add(time.Hour)) {
		t.Errorf("window start = %v, want %v", gotStart, now.Add(time.Hour))
	}
	if !gotEnd.Equal(now.Add(time.Hour + 5*time.Minute)) {
		t.Errorf("window end = %v, want %v", gotEnd, now.Add(time.Hour+5*time.Minute))
	}
	if len(notifier.events) != 1 {
		t.Fatalf("published %d events, want 1", len(notifier.events))
	}
	ev := notifier.events[0]
	if ev.Type != notify.EventInterviewReminder {
		t.Errorf("event type = %q", ev.Type)
	}
	if ev.InterviewID != ivID || ev.RecipientRef != "cand-7" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Payload["slot_id"] != slotID.String() {
		t.Errorf("payload slot_id = %v", ev.Payload["slot_id"])
	}
}

func TestReminderJob_EmptyWindowPublishesNothing(t *testing.T) {
	lister := &fakeLister{
		list: func(context.Context, time.Time, time.Time) ([]store.UpcomingInterview, error) {
			return nil, nil
		},
	}
	notifier := &captureNotifier{}
	job := NewReminderJob(lister, notifier, time.Hour, 5*time.Minute, slog.New(slog.DiscardHandler))
	job.Run(context.Background())
	if len(notifier.events) != 0 {
		t.Fatalf("published %d events, want 0", len(notifier.events))
	}
}

func TestReminderJob_StoreErrorIsSwallowed(t *testing.T) {
	lister := &fakeLister{
		list: func(context.Context, time.Time, time.Time) ([]store.UpcomingInterview, error) {
			return nil, errors.New("connection reset")
		},
	}
	notifier := &captureNotifier{}
	job := NewReminderJob(lister, notifier, time.Hour, 5*time.Minute, slog.New(slog.DiscardHandler))
	job.Run(context.Background())
	if len(notifier.events) != 0 {
		t.Fatalf("published %d events, want 0", len(notifier.events))
	}
}

func TestReminderJob_PublishFailureDoesNotStopBatch(t *testing.T) {
	upcoming := []store.UpcomingInterview{
		{InterviewID: uuid.New(), CandidateRef: "a", SlotID: uuid.New()},
		{InterviewID: uuid.New(), CandidateRef: "b", SlotID: uuid.New()},
	}
	lister := &fakeLister{
		list: func(context.Context, time.Time, time.Time) ([]store.UpcomingInterview, error) {
			return upcoming, nil
		},
	}
	notifier := &captureNotifier{err: errors.New("nats down")}
	job := NewReminderJob(lister, notifier, time.Hour, 5*time.Minute, slog.New(slog.DiscardHandler))
	job.Run(context.Background())
	if len(notifier.events) != 2 {
		t.Fatalf("attempted %d publishes, want 2", len(notifier.events))
	}
}
