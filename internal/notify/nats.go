package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "scheduler.notifications."

// NatsConn is the subset of *nats.Conn the publisher needs, kept narrow so
// tests can fake it.
type NatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// NatsNotifier publishes events to NATS, one subject per event type
// (scheduler.notifications.slot_booked etc). Publishing is fire-and-forget:
// the caller logs errors and moves on.
type NatsNotifier struct {
	conn NatsConn
	log  *slog.Logger
}

func NewNatsNotifier(conn NatsConn, log *slog.Logger) *NatsNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &NatsNotifier{
		conn: conn,
		log:  log.With(slog.String("component", "notify.nats")),
	}
}

// Connect dials NATS with reconnect enabled and returns a live connection.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	)
}

func (n *NatsNotifier) Notify(ctx context.Context, event Event) error {
	if !n.conn.IsConnected() {
		return errors.New("nats connection is down")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := subjectPrefix + string(event.Type)
	if err := n.conn.Publish(subject, data); err != nil {
		return err
	}

	n.log.DebugContext(ctx, "published notification",
		slog.String("subject", subject),
		slog.String("interview_id", event.InterviewID.String()),
	)
	return nil
}

// LogNotifier is the fallback used when no NATS URL is configured: events
// are only written to the log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log.With(slog.String("component", "notify.log"))}
}

func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	n.log.InfoContext(ctx, "notification event",
		slog.String("type", string(event.Type)),
		slog.String("interview_id", event.InterviewID.String()),
		slog.String("recipient_ref", event.RecipientRef),
	)
	return nil
}
