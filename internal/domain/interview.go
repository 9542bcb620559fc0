package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type InterviewStatus string

const (
	InterviewStatusScheduled  InterviewStatus = "scheduled"
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusCancelled  InterviewStatus = "cancelled"
)

// Interview rows are owned by the candidate-management collaborator. The
// scheduling core reads them and mutates only the status, link and timestamp
// fields below.
type Interview struct {
	bun.BaseModel `bun:"table:interviews"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	CandidateRef string          `bun:"candidate_ref,notnull"`
	JobRef       *string         `bun:"job_ref"`
	Status       InterviewStatus `bun:"status,notnull"`
	LinkToken    string          `bun:"link_token"`
	StartedAt    *time.Time      `bun:"started_at"`
	EndedAt      *time.Time      `bun:"ended_at"`
	CreatedAt    time.Time       `bun:"created_at,notnull"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull"`
}

func (i *Interview) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if i.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			i.ID = id
		}
		if i.CreatedAt.IsZero() {
			i.CreatedAt = now
		}
		if i.UpdatedAt.IsZero() {
			i.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		i.UpdatedAt = now
	}
	return nil
}
