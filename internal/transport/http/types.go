package http

import (
	"encoding/json"
	"time"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/linktoken"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/scheduling"
)

type createSlotRequest struct {
	CompanyRef      string          `json:"company_ref"`
	JobRef          *string         `json:"job_ref,omitempty"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	DurationMinutes int             `json:"duration_minutes"`
	AIInterviewType string          `json:"ai_interview_type"`
	AIConfiguration json.RawMessage `json:"ai_configuration,omitempty"`
	MaxCandidates   int             `json:"max_candidates"`
	Notes           string          `json:"notes"`
}

type recurringSlotsRequest struct {
	CompanyRef           string          `json:"company_ref"`
	JobRef               *string         `json:"job_ref,omitempty"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	DaysOfWeek           []int           `json:"days_of_week"`
	DailyStartTime       string          `json:"daily_start_time"`
	DailyEndTime         string          `json:"daily_end_time"`
	SlotDurationMinutes  int             `json:"slot_duration_minutes"`
	BreakMinutes         int             `json:"break_minutes"`
	MaxCandidatesPerSlot int             `json:"max_candidates_per_slot"`
	AIInterviewType      string          `json:"ai_interview_type"`
	AIConfiguration      json.RawMessage `json:"ai_configuration,omitempty"`
	Notes                string          `json:"notes"`
}

type bookRequest struct {
	InterviewID string `json:"interview_id"`
	Notes       string `json:"notes"`
}

type slotResponse struct {
	ID              string          `json:"id"`
	CompanyRef      string          `json:"company_ref"`
	JobRef          *string         `json:"job_ref,omitempty"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	DurationMinutes int             `json:"duration_minutes"`
	SlotType        string          `json:"slot_type"`
	AIInterviewType string          `json:"ai_interview_type"`
	AIConfiguration json.RawMessage `json:"ai_configuration,omitempty"`
	MaxCandidates   int             `json:"max_candidates"`
	CurrentBookings int             `json:"current_bookings"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
}

func toSlotResponse(s domain.Slot) slotResponse {
	return slotResponse{
		ID:              s.ID.String(),
		CompanyRef:      s.CompanyRef,
		JobRef:          s.JobRef,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
		SlotType:        string(s.SlotType),
		AIInterviewType: string(s.AIInterviewType),
		AIConfiguration: s.AIConfiguration,
		MaxCandidates:   s.MaxCandidates,
		CurrentBookings: s.CurrentBookings,
		Status:          string(s.Status()),
		Notes:           s.Notes,
	}
}

func toSlotResponses(slots []domain.Slot) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return out
}

type skippedSlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
}

type generateResponse struct {
	CreatedSlots []slotResponse        `json:"created_slots"`
	SkippedSlots []skippedSlotResponse `json:"skipped_slots"`
}

func toGenerateResponse(r scheduling.GenerateResult) generateResponse {
	skipped := make([]skippedSlotResponse, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped = append(skipped, skippedSlotResponse{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Reason:    s.Reason,
		})
	}
	return generateResponse{
		CreatedSlots: toSlotResponses(r.Created),
		SkippedSlots: skipped,
	}
}

type bookingResponse struct {
	ID          string     `json:"id"`
	InterviewID string     `json:"interview_id"`
	SlotID      string     `json:"slot_id"`
	BookedAt    time.Time  `json:"booked_at"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID.String(),
		InterviewID: b.InterviewRef.String(),
		SlotID:      b.SlotRef.String(),
		BookedAt:    b.BookedAt,
		Status:      string(b.Status),
		Notes:       b.Notes,
		ReleasedAt:  b.ReleasedAt,
	}
}

type previewResponse struct {
	InterviewID  string     `json:"interview_id"`
	CandidateRef string     `json:"candidate_ref"`
	JobRef       *string    `json:"job_ref,omitempty"`
	Status       string     `json:"status"`
	SlotStart    time.Time  `json:"slot_start"`
	SlotEnd      time.Time  `json:"slot_end"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
}

func toPreviewResponse(p linktoken.PreviewResult) previewResponse {
	return previewResponse{
		InterviewID:  p.InterviewID.String(),
		CandidateRef: p.CandidateRef,
		JobRef:       p.JobRef,
		Status:       string(p.Status),
		SlotStart:    p.SlotStart,
		SlotEnd:      p.SlotEnd,
		StartedAt:    p.StartedAt,
	}
}

type joinResponse struct {
	InterviewID string     `json:"interview_id"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

func toJoinResponse(iv domain.Interview) joinResponse {
	return joinResponse{
		InterviewID: iv.ID.String(),
		Status:      string(iv.Status),
		StartedAt:   iv.StartedAt,
	}
}
