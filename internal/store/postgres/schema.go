package postgres

import (
	"context"

	"github.com/uptrace/bun"
)

// Bootstrap creates the scheduling tables and indexes when they do not exist
// yet. The interviews table is owned by the candidate-management service;
// this DDL only guarantees local development and test environments have it.
func Bootstrap(ctx context.Context, db bun.IDB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			id uuid PRIMARY KEY,
			company_ref text NOT NULL,
			job_ref text,
			start_time timestamptz NOT NULL,
			end_time timestamptz NOT NULL,
			duration_minutes integer NOT NULL,
			slot_type text NOT NULL,
			ai_interview_type text NOT NULL,
			ai_configuration jsonb,
			max_candidates integer NOT NULL CHECK (max_candidates >= 1),
			current_bookings integer NOT NULL DEFAULT 0 CHECK (current_bookings >= 0),
			notes text NOT NULL DEFAULT '',
			cancelled_at timestamptz,
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL,
			CHECK (end_time > start_time),
			CHECK (current_bookings <= max_candidates)
		)`,
		`CREATE INDEX IF NOT EXISTS slots_company_window ON slots (company_ref, start_time, end_time)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id uuid PRIMARY KEY,
			interview_ref uuid NOT NULL,
			slot_ref uuid NOT NULL REFERENCES slots (id),
			booked_at timestamptz NOT NULL,
			notes text NOT NULL DEFAULT '',
			status text NOT NULL,
			released_at timestamptz,
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS bookings_one_active_per_interview
			ON bookings (interview_ref) WHERE status = 'active'`,
		`CREATE INDEX IF NOT EXISTS bookings_slot_ref ON bookings (slot_ref)`,
		`CREATE TABLE IF NOT EXISTS interviews (
			id uuid PRIMARY KEY,
			candidate_ref text NOT NULL,
			job_ref text,
			status text NOT NULL,
			link_token text NOT NULL DEFAULT '',
			started_at timestamptz,
			ended_at timestamptz,
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
