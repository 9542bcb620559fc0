package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/linktoken"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/scheduling"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeScheduling struct {
	createSlot     func(ctx context.Context, actor scheduling.Actor, in scheduling.CreateSlotInput) (domain.Slot, error)
	cancelSlot     func(ctx context.Context, actor scheduling.Actor, slotID uuid.UUID) (domain.Slot, error)
	getSlot        func(ctx context.Context, slotID uuid.UUID) (domain.Slot, error)
	listSlots      func(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error)
	generate       func(ctx context.Context, actor scheduling.Actor, p domain.RecurrencePattern) (scheduling.GenerateResult, error)
	book           func(ctx context.Context, interviewID, slotID uuid.UUID, notes string) (domain.Booking, error)
	release        func(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)
	bookBySearch   func(ctx context.Context, interviewID uuid.UUID, criteria scheduling.SearchCriteria, notes string) (domain.Booking, error)
	search         func(ctx context.Context, criteria scheduling.SearchCriteria) ([]domain.Slot, error)
}

func (f *fakeScheduling) CreateSlot(ctx context.Context, actor scheduling.Actor, in scheduling.CreateSlotInput) (domain.Slot, error) {
	if f.createSlot == nil {
		panic("unexpected CreateSlot call")
	}
	return f.createSlot(ctx, actor, in)
}

func (f *fakeScheduling) CancelSlot(ctx context.Context, actor scheduling.Actor, slotID uuid.UUID) (domain.Slot, error) {
	if f.cancelSlot == nil {
		panic("unexpected CancelSlot call")
	}
	return f.cancelSlot(ctx, actor, slotID)
}

func (f *fakeScheduling) GetSlot(ctx context.Context, slotID uuid.UUID) (domain.Slot, error) {
	if f.getSlot == nil {
		panic("unexpected GetSlot call")
	}
	return f.getSlot(ctx, slotID)
}

func (f *fakeScheduling) ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error) {
	if f.listSlots == nil {
		panic("unexpected ListSlots call")
	}
	return f.listSlots(ctx, companyRef, windowStart, windowEnd)
}

func (f *fakeScheduling) GenerateRecurringSlots(ctx context.Context, actor scheduling.Actor, p domain.RecurrencePattern) (scheduling.GenerateResult, error) {
	if f.generate == nil {
		panic("unexpected GenerateRecurringSlots call")
	}
	return f.generate(ctx, actor, p)
}

func (f *fakeScheduling) Book(ctx context.Context, interviewID, slotID uuid.UUID, notes string) (domain.Booking, error) {
	if f.book == nil {
		panic("unexpected Book call")
	}
	return f.book(ctx, interviewID, slotID, notes)
}

func (f *fakeScheduling) Release(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	if f.release == nil {
		panic("unexpected Release call")
	}
	return f.release(ctx, bookingID)
}

func (f *fakeScheduling) BookBySearch(ctx context.Context, interviewID uuid.UUID, criteria scheduling.SearchCriteria, notes string) (domain.Booking, error) {
	if f.bookBySearch == nil {
		panic("unexpected BookBySearch call")
	}
	return f.bookBySearch(ctx, interviewID, criteria, notes)
}

func (f *fakeScheduling) Search(ctx context.Context, criteria scheduling.SearchCriteria) ([]domain.Slot, error) {
	if f.search == nil {
		panic("unexpected Search call")
	}
	return f.search(ctx, criteria)
}

type fakeLinks struct {
	preview func(ctx context.Context, token string) (linktoken.PreviewResult, error)
	join    func(ctx context.Context, token string) (domain.Interview, error)
}

func (f *fakeLinks) Preview(ctx context.Context, token string) (linktoken.PreviewResult, error) {
	if f.preview == nil {
		panic("unexpected Preview call")
	}
	return f.preview(ctx, token)
}

func (f *fakeLinks) Join(ctx context.Context, token string) (domain.Interview, error) {
	if f.join == nil {
		panic("unexpected Join call")
	}
	return f.join(ctx, token)
}

func newTestRouter(sched *fakeScheduling, links *fakeLinks) *gin.Engine {
	srv := NewServer(sched, links, slog.New(slog.DiscardHandler))
	return srv.Router()
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSlot_PassesActorAndReturnsDerivedStatus(t *testing.T) {
	slotID := uuid.New()
	var gotActor scheduling.Actor
	sched := &fakeScheduling{
		createSlot: func(_ context.Context, actor scheduling.Actor, in scheduling.CreateSlotInput) (domain.Slot, error) {
			gotActor = actor
			return domain.Slot{
				ID:              slotID,
				CompanyRef:      in.CompanyRef,
				StartTime:       in.StartTime,
				EndTime:         in.EndTime,
				DurationMinutes: in.DurationMinutes,
				SlotType:        domain.SlotTypeFixed,
				AIInterviewType: in.AIInterviewType,
				MaxCandidates:   in.MaxCandidates,
			}, nil
		},
	}
	r := newTestRouter(sched, &fakeLinks{})

	body := `{"company_ref":"acme","start_time":"2026-03-02T09:00:00Z","end_time":"2026-03-02T10:00:00Z","duration_minutes":60,"ai_interview_type":"technical","max_candidates":2}`
	w := doRequest(t, r, http.MethodPost, "/api/v1/slots", body, map[string]string{"X-Company-Ref": "acme"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	ca, ok := gotActor.(scheduling.CompanyActor)
	if !ok || ca.CompanyRef != "acme" {
		t.Fatalf("actor = %#v, want CompanyActor for acme", gotActor)
	}
	var resp slotResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID != slotID.String() {
		t.Errorf("id = %s, want %s", resp.ID, slotID)
	}
	if resp.Status != "available" {
		t.Errorf("status = %q, want available", resp.Status)
	}
}

func TestCreateSlot_BadJSONIsBadRequest(t *testing.T) {
	r := newTestRouter(&fakeScheduling{}, &fakeLinks{})
	w := doRequest(t, r, http.MethodPost, "/api/v1/slots", `{"company_ref":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAdminErrorMapping(t *testing.T) {
	slotID := uuid.New()
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", scheduling.NewValidationError("company_ref is required"), http.StatusBadRequest},
		{"forbidden", scheduling.ErrForbidden, http.StatusForbidden},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"overlap conflict", store.ErrConflict, http.StatusConflict},
		{"slot full", store.ErrSlotFull, http.StatusConflict},
		{"already booked", store.ErrAlreadyBooked, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduling{
				book: func(context.Context, uuid.UUID, uuid.UUID, string) (domain.Booking, error) {
					return domain.Booking{}, tt.err
				},
			}
			r := newTestRouter(sched, &fakeLinks{})
			body := `{"interview_id":"` + uuid.NewString() + `"}`
			w := doRequest(t, r, http.MethodPost, "/api/v1/slots/"+slotID.String()+"/book", body, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestBook_InvalidIDsAreBadRequest(t *testing.T) {
	r := newTestRouter(&fakeScheduling{}, &fakeLinks{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/slots/not-a-uuid/book", `{"interview_id":"`+uuid.NewString()+`"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad slot id: status = %d, want 400", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/api/v1/slots/"+uuid.NewString()+"/book", `{"interview_id":"nope"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad interview id: status = %d, want 400", w.Code)
	}
}

func TestListSlots_RequiresWindow(t *testing.T) {
	r := newTestRouter(&fakeScheduling{}, &fakeLinks{})
	w := doRequest(t, r, http.MethodGet, "/api/v1/slots?company_ref=acme", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSearchSlots_ParsesCriteria(t *testing.T) {
	var got scheduling.SearchCriteria
	sched := &fakeScheduling{
		search: func(_ context.Context, criteria scheduling.SearchCriteria) ([]domain.Slot, error) {
			got = criteria
			return nil, nil
		},
	}
	r := newTestRouter(sched, &fakeLinks{})

	w := doRequest(t, r, http.MethodGet,
		"/api/v1/slots/search?company_ref=acme&from=2026-03-02T00:00:00Z&to=2026-03-09T00:00:00Z&ai_interview_type=technical&duration_minutes=60",
		"", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if got.CompanyRef != "acme" {
		t.Errorf("company_ref = %q, want acme", got.CompanyRef)
	}
	if got.AIInterviewType != domain.AIInterviewTypeTechnical {
		t.Errorf("ai_interview_type = %q, want technical", got.AIInterviewType)
	}
	if got.DurationMinutes != 60 {
		t.Errorf("duration_minutes = %d, want 60", got.DurationMinutes)
	}
	if !got.From.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", got.From)
	}
}

func TestGenerateRecurring_ReturnsCreatedAndSkipped(t *testing.T) {
	start := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	sched := &fakeScheduling{
		generate: func(_ context.Context, _ scheduling.Actor, p domain.RecurrencePattern) (scheduling.GenerateResult, error) {
			return scheduling.GenerateResult{
				Created: []domain.Slot{{
					ID:              uuid.New(),
					CompanyRef:      p.CompanyRef,
					StartTime:       start,
					EndTime:         start.Add(time.Hour),
					SlotType:        domain.SlotTypeRecurringInstance,
					AIInterviewType: p.AIInterviewType,
					MaxCandidates:   p.MaxCandidatesPerSlot,
				}},
				Skipped: []domain.SkippedSlot{{
					StartTime: start.Add(24 * time.Hour),
					EndTime:   start.Add(25 * time.Hour),
					Reason:    "overlaps an existing slot",
				}},
			}, nil
		},
	}
	r := newTestRouter(sched, &fakeLinks{})

	body := `{"company_ref":"acme","start_date":"2026-03-02T00:00:00Z","end_date":"2026-03-06T00:00:00Z","days_of_week":[3],"daily_start_time":"09:00","daily_end_time":"10:00","slot_duration_minutes":60,"max_candidates_per_slot":1,"ai_interview_type":"screening"}`
	w := doRequest(t, r, http.MethodPost, "/api/v1/slots/recurring", body, map[string]string{"X-Company-Ref": "acme"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.CreatedSlots) != 1 || len(resp.SkippedSlots) != 1 {
		t.Fatalf("created = %d, skipped = %d, want 1 and 1", len(resp.CreatedSlots), len(resp.SkippedSlots))
	}
	if resp.SkippedSlots[0].Reason != "overlaps an existing slot" {
		t.Errorf("skip reason = %q", resp.SkippedSlots[0].Reason)
	}
}

func TestRelease_ReturnsBooking(t *testing.T) {
	bookingID := uuid.New()
	released := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sched := &fakeScheduling{
		release: func(_ context.Context, id uuid.UUID) (domain.Booking, error) {
			return domain.Booking{
				ID:           id,
				InterviewRef: uuid.New(),
				SlotRef:      uuid.New(),
				Status:       domain.BookingStatusReleased,
				ReleasedAt:   &released,
			}, nil
		},
	}
	r := newTestRouter(sched, &fakeLinks{})
	w := doRequest(t, r, http.MethodPost, "/api/v1/bookings/"+bookingID.String()+"/release", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp bookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "released" || resp.ReleasedAt == nil {
		t.Errorf("status = %q, released_at = %v", resp.Status, resp.ReleasedAt)
	}
}

func TestLinkErrors_AllCollapseToGenericMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad signature", linktoken.ErrInvalidSignature, http.StatusNotFound},
		{"malformed", linktoken.ErrMalformedToken, http.StatusNotFound},
		{"expired", linktoken.ErrExpiredLink, http.StatusNotFound},
		{"interview gone", store.ErrNotFound, http.StatusNotFound},
		{"already completed", linktoken.ErrAlreadyCompleted, http.StatusGone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := &fakeLinks{
				preview: func(context.Context, string) (linktoken.PreviewResult, error) {
					return linktoken.PreviewResult{}, tt.err
				},
			}
			r := newTestRouter(&fakeScheduling{}, links)
			w := doRequest(t, r, http.MethodGet, "/interview/public/some-token", "", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp["error"] != genericLinkError {
				t.Errorf("error = %q, want %q", resp["error"], genericLinkError)
			}
		})
	}
}

func TestJoin_ReturnsInterviewState(t *testing.T) {
	ivID := uuid.New()
	started := time.Date(2026, 3, 2, 9, 50, 0, 0, time.UTC)
	links := &fakeLinks{
		join: func(_ context.Context, token string) (domain.Interview, error) {
			if token != "good-token" {
				t.Fatalf("token = %q, want good-token", token)
			}
			return domain.Interview{
				ID:        ivID,
				Status:    domain.InterviewStatusInProgress,
				StartedAt: &started,
			}, nil
		},
	}
	r := newTestRouter(&fakeScheduling{}, links)
	w := doRequest(t, r, http.MethodPost, "/interview/public/good-token", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp joinResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.InterviewID != ivID.String() || resp.Status != "in_progress" {
		t.Errorf("got %+v", resp)
	}
}
