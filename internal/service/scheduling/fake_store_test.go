package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

// fakeStore is an in-memory SchedulerStore. Transactions are not rolled back
// on error; tests assert on returned errors, not partial state after
// failures that a real database would undo.
type fakeStore struct {
	mu         sync.Mutex
	slots      map[uuid.UUID]domain.Slot
	bookings   map[uuid.UUID]domain.Booking
	interviews map[uuid.UUID]domain.Interview
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:      make(map[uuid.UUID]domain.Slot),
		bookings:   make(map[uuid.UUID]domain.Booking),
		interviews: make(map[uuid.UUID]domain.Interview),
	}
}

func (f *fakeStore) InCompanyTransaction(ctx context.Context, companyRef string, fn func(ctx context.Context, tx store.SchedulerTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, f)
}

func (f *fakeStore) InSlotTransaction(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context, tx store.SchedulerTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, f)
}

func (f *fakeStore) CreateSlot(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	f.slots[slot.ID] = slot
	return slot, nil
}

func (f *fakeStore) CreateSlots(ctx context.Context, slots []domain.Slot) ([]domain.Slot, error) {
	out := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		created, _ := f.CreateSlot(ctx, s)
		out = append(out, created)
	}
	return out, nil
}

func (f *fakeStore) GetSlot(ctx context.Context, id uuid.UUID) (domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return domain.Slot{}, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		if s.CompanyRef == companyRef && s.StartTime.Before(windowEnd) && s.EndTime.After(windowStart) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchSlots(ctx context.Context, q store.SlotSearch) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		if s.IsCancelled() || s.CurrentBookings >= s.MaxCandidates {
			continue
		}
		if !s.StartTime.Before(q.WindowEnd) || !s.EndTime.After(q.WindowStart) {
			continue
		}
		if q.CompanyRef != "" && s.CompanyRef != q.CompanyRef {
			continue
		}
		if q.AIInterviewType != "" && s.AIInterviewType != q.AIInterviewType {
			continue
		}
		if q.DurationMinutes > 0 && s.DurationMinutes != q.DurationMinutes {
			continue
		}
		out = append(out, s)
	}
	// earliest first
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].StartTime.Before(out[j-1].StartTime); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateSlotBookings(ctx context.Context, slotID uuid.UUID, delta int) (domain.Slot, error) {
	s, ok := f.slots[slotID]
	if !ok {
		return domain.Slot{}, store.ErrNotFound
	}
	s.CurrentBookings += delta
	if s.CurrentBookings < 0 {
		s.CurrentBookings = 0
	}
	f.slots[slotID] = s
	return s, nil
}

func (f *fakeStore) MarkSlotCancelled(ctx context.Context, slotID uuid.UUID, at time.Time) (domain.Slot, error) {
	s, ok := f.slots[slotID]
	if !ok || s.CancelledAt != nil {
		return domain.Slot{}, store.ErrNotFound
	}
	t := at.UTC()
	s.CancelledAt = &t
	f.slots[slotID] = s
	return s, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	for _, existing := range f.bookings {
		if existing.InterviewRef == b.InterviewRef && existing.Status == domain.BookingStatusActive {
			return domain.Booking{}, store.ErrAlreadyBooked
		}
	}
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, store.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) GetActiveBookingByInterview(ctx context.Context, interviewID uuid.UUID) (domain.Booking, error) {
	for _, b := range f.bookings {
		if b.InterviewRef == interviewID && b.Status == domain.BookingStatusActive {
			return b, nil
		}
	}
	return domain.Booking{}, store.ErrNotFound
}

func (f *fakeStore) ListActiveBookingsBySlot(ctx context.Context, slotID uuid.UUID) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.SlotRef == slotID && b.Status == domain.BookingStatusActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ReleaseBooking(ctx context.Context, bookingID uuid.UUID, at time.Time) (domain.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return domain.Booking{}, store.ErrNotFound
	}
	t := at.UTC()
	b.Status = domain.BookingStatusReleased
	b.ReleasedAt = &t
	f.bookings[bookingID] = b
	return b, nil
}

func (f *fakeStore) GetInterview(ctx context.Context, id uuid.UUID) (domain.Interview, error) {
	iv, ok := f.interviews[id]
	if !ok {
		return domain.Interview{}, store.ErrNotFound
	}
	return iv, nil
}

func (f *fakeStore) UpdateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error) {
	if _, ok := f.interviews[iv.ID]; !ok {
		return domain.Interview{}, store.ErrNotFound
	}
	f.interviews[iv.ID] = iv
	return iv, nil
}

type capturedEvent = notify.Event

type fakeNotifier struct {
	mu     sync.Mutex
	events []capturedEvent
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, event notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeTokenIssuer struct {
	issueFn func(interviewID uuid.UUID, slotStart, slotEnd time.Time) (string, error)
}

func (f *fakeTokenIssuer) Issue(interviewID uuid.UUID, slotStart, slotEnd time.Time) (string, error) {
	if f.issueFn != nil {
		return f.issueFn(interviewID, slotStart, slotEnd)
	}
	return "token-" + interviewID.String(), nil
}

type allowAllActor struct{}

func (allowAllActor) CanManageSlots(string) bool { return true }
