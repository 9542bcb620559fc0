package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

// SchedulerRepo implements store.SchedulerStore on top of bun/postgres.
// Contended mutations run inside pg_advisory_xact_lock transactions keyed by
// company (calendar writes) or slot (capacity writes).
type SchedulerRepo struct {
	db *bun.DB
}

func NewSchedulerRepo(db *bun.DB) *SchedulerRepo {
	return &SchedulerRepo{db: db}
}

type schedulerTx struct {
	tx bun.Tx
}

func (r *SchedulerRepo) InCompanyTransaction(ctx context.Context, companyRef string, fn func(ctx context.Context, tx store.SchedulerTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockKey(ctx, tx, "company:"+companyRef); err != nil {
			return err
		}
		return fn(ctx, schedulerTx{tx: tx})
	})
}

func (r *SchedulerRepo) InSlotTransaction(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context, tx store.SchedulerTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockKey(ctx, tx, "slot:"+slotID.String()); err != nil {
			return err
		}
		return fn(ctx, schedulerTx{tx: tx})
	})
}

func lockKey(ctx context.Context, tx bun.Tx, key string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

func (r *SchedulerRepo) GetSlot(ctx context.Context, id uuid.UUID) (domain.Slot, error) {
	return getSlot(ctx, r.db, id)
}

func (r *SchedulerRepo) ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error) {
	return listSlots(ctx, r.db, companyRef, windowStart, windowEnd)
}

func (r *SchedulerRepo) SearchSlots(ctx context.Context, q store.SlotSearch) ([]domain.Slot, error) {
	var rows []domain.Slot
	sel := r.db.NewSelect().
		Model(&rows).
		Where("cancelled_at IS NULL").
		Where("current_bookings < max_candidates").
		Where("start_time < ?", q.WindowEnd).
		Where("end_time > ?", q.WindowStart)
	if q.CompanyRef != "" {
		sel = sel.Where("company_ref = ?", q.CompanyRef)
	}
	if q.AIInterviewType != "" {
		sel = sel.Where("ai_interview_type = ?", q.AIInterviewType)
	}
	if q.DurationMinutes > 0 {
		sel = sel.Where("duration_minutes = ?", q.DurationMinutes)
	}
	if err := sel.OrderExpr("start_time ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListUpcomingInterviews returns active bookings whose non-cancelled slot
// starts within [windowStart, windowEnd), joined with interview and slot
// data. It backs the reminder scan.
func (r *SchedulerRepo) ListUpcomingInterviews(ctx context.Context, windowStart, windowEnd time.Time) ([]store.UpcomingInterview, error) {
	var rows []store.UpcomingInterview
	err := r.db.NewRaw(`
		SELECT i.id AS interview_id,
		       i.candidate_ref AS candidate_ref,
		       s.id AS slot_id,
		       s.start_time AS slot_start,
		       s.end_time AS slot_end
		FROM bookings b
		JOIN slots s ON s.id = b.slot_ref
		JOIN interviews i ON i.id = b.interview_ref
		WHERE b.status = 'active'
		  AND s.cancelled_at IS NULL
		  AND s.start_time >= ?
		  AND s.start_time < ?
		ORDER BY s.start_time ASC`, windowStart, windowEnd).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SchedulerRepo) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := r.db.NewSelect().Model(&b).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *SchedulerRepo) GetInterview(ctx context.Context, id uuid.UUID) (domain.Interview, error) {
	return getInterview(ctx, r.db, id)
}

func (r *SchedulerRepo) UpdateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error) {
	return updateInterview(ctx, r.db, iv)
}

func (t schedulerTx) CreateSlot(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	m := slot
	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Slot{}, store.ErrConflict
		}
		return domain.Slot{}, err
	}
	return m, nil
}

func (t schedulerTx) CreateSlots(ctx context.Context, slots []domain.Slot) ([]domain.Slot, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	ms := make([]domain.Slot, len(slots))
	copy(ms, slots)
	if _, err := t.tx.NewInsert().Model(&ms).Exec(ctx); err != nil {
		return nil, err
	}
	return ms, nil
}

func (t schedulerTx) GetSlot(ctx context.Context, id uuid.UUID) (domain.Slot, error) {
	return getSlot(ctx, t.tx, id)
}

func (t schedulerTx) ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error) {
	return listSlots(ctx, t.tx, companyRef, windowStart, windowEnd)
}

func (t schedulerTx) UpdateSlotBookings(ctx context.Context, slotID uuid.UUID, delta int) (domain.Slot, error) {
	var m domain.Slot
	err := t.tx.NewUpdate().
		Model(&m).
		Set("current_bookings = GREATEST(current_bookings + ?, 0)", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", slotID).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Slot{}, store.ErrNotFound
		}
		return domain.Slot{}, err
	}
	return m, nil
}

func (t schedulerTx) MarkSlotCancelled(ctx context.Context, slotID uuid.UUID, at time.Time) (domain.Slot, error) {
	var m domain.Slot
	err := t.tx.NewUpdate().
		Model(&m).
		Set("cancelled_at = ?", at.UTC()).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", slotID).
		Where("cancelled_at IS NULL").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Slot{}, store.ErrNotFound
		}
		return domain.Slot{}, err
	}
	return m, nil
}

func (t schedulerTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	m := b
	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "bookings_one_active_per_interview" {
			return domain.Booking{}, store.ErrAlreadyBooked
		}
		return domain.Booking{}, err
	}
	return m, nil
}

func (t schedulerTx) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := t.tx.NewSelect().Model(&b).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (t schedulerTx) GetActiveBookingByInterview(ctx context.Context, interviewID uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := t.tx.NewSelect().
		Model(&b).
		Where("interview_ref = ?", interviewID).
		Where("status = ?", domain.BookingStatusActive).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (t schedulerTx) ListActiveBookingsBySlot(ctx context.Context, slotID uuid.UUID) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := t.tx.NewSelect().
		Model(&rows).
		Where("slot_ref = ?", slotID).
		Where("status = ?", domain.BookingStatusActive).
		OrderExpr("booked_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t schedulerTx) ReleaseBooking(ctx context.Context, bookingID uuid.UUID, at time.Time) (domain.Booking, error) {
	var m domain.Booking
	err := t.tx.NewUpdate().
		Model(&m).
		Set("status = ?", domain.BookingStatusReleased).
		Set("released_at = ?", at.UTC()).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", bookingID).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return m, nil
}

func (t schedulerTx) GetInterview(ctx context.Context, id uuid.UUID) (domain.Interview, error) {
	return getInterview(ctx, t.tx, id)
}

func (t schedulerTx) UpdateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error) {
	return updateInterview(ctx, t.tx, iv)
}

func getSlot(ctx context.Context, db bun.IDB, id uuid.UUID) (domain.Slot, error) {
	var s domain.Slot
	err := db.NewSelect().Model(&s).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Slot{}, store.ErrNotFound
		}
		return domain.Slot{}, err
	}
	return s, nil
}

func listSlots(ctx context.Context, db bun.IDB, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error) {
	var rows []domain.Slot
	err := db.NewSelect().
		Model(&rows).
		Where("company_ref = ?", companyRef).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func getInterview(ctx context.Context, db bun.IDB, id uuid.UUID) (domain.Interview, error) {
	var iv domain.Interview
	err := db.NewSelect().Model(&iv).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Interview{}, store.ErrNotFound
		}
		return domain.Interview{}, err
	}
	return iv, nil
}

func updateInterview(ctx context.Context, db bun.IDB, iv domain.Interview) (domain.Interview, error) {
	m := iv
	res, err := db.NewUpdate().
		Model(&m).
		Column("status", "link_token", "started_at", "ended_at", "updated_at").
		Where("id = ?", iv.ID).
		Exec(ctx)
	if err != nil {
		return domain.Interview{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Interview{}, err
	}
	if affected == 0 {
		return domain.Interview{}, store.ErrNotFound
	}
	return m, nil
}
