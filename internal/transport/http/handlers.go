package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/scheduling"
)

func (s *Server) handleCreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	slot, err := s.scheduling.CreateSlot(c.Request.Context(), actorFrom(c), scheduling.CreateSlotInput{
		CompanyRef:      req.CompanyRef,
		JobRef:          req.JobRef,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		AIInterviewType: domain.AIInterviewType(req.AIInterviewType),
		AIConfiguration: req.AIConfiguration,
		MaxCandidates:   req.MaxCandidates,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSlotResponse(slot))
}

func (s *Server) handleGenerateRecurringSlots(c *gin.Context) {
	var req recurringSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.scheduling.GenerateRecurringSlots(c.Request.Context(), actorFrom(c), domain.RecurrencePattern{
		CompanyRef:           req.CompanyRef,
		JobRef:               req.JobRef,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		DaysOfWeek:           req.DaysOfWeek,
		DailyStartTime:       req.DailyStartTime,
		DailyEndTime:         req.DailyEndTime,
		SlotDurationMinutes:  req.SlotDurationMinutes,
		BreakMinutes:         req.BreakMinutes,
		MaxCandidatesPerSlot: req.MaxCandidatesPerSlot,
		AIInterviewType:      domain.AIInterviewType(req.AIInterviewType),
		AIConfiguration:      req.AIConfiguration,
		Notes:                req.Notes,
	})
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGenerateResponse(result))
}

func (s *Server) handleListSlots(c *gin.Context) {
	companyRef := c.Query("company_ref")
	windowStart, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	windowEnd, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}

	slots, err := s.scheduling.ListSlots(c.Request.Context(), companyRef, windowStart, windowEnd)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": toSlotResponses(slots)})
}

func (s *Server) handleGetSlot(c *gin.Context) {
	slotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	slot, err := s.scheduling.GetSlot(c.Request.Context(), slotID)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (s *Server) handleSearchSlots(c *gin.Context) {
	criteria, ok := searchCriteriaFrom(c)
	if !ok {
		return
	}
	slots, err := s.scheduling.Search(c.Request.Context(), criteria)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": toSlotResponses(slots)})
}

func (s *Server) handleBook(c *gin.Context) {
	slotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interview_id"})
		return
	}

	booking, err := s.scheduling.Book(c.Request.Context(), interviewID, slotID, req.Notes)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (s *Server) handleBookBySearch(c *gin.Context) {
	var req struct {
		InterviewID string `json:"interview_id"`
		Notes       string `json:"notes"`
		bookSearchParams
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interview_id"})
		return
	}

	booking, err := s.scheduling.BookBySearch(c.Request.Context(), interviewID, scheduling.SearchCriteria{
		CompanyRef:      req.CompanyRef,
		From:            req.From,
		To:              req.To,
		AIInterviewType: domain.AIInterviewType(req.AIInterviewType),
		DurationMinutes: req.DurationMinutes,
	}, req.Notes)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

type bookSearchParams struct {
	CompanyRef      string    `json:"company_ref"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	AIInterviewType string    `json:"ai_interview_type"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (s *Server) handleCancelSlot(c *gin.Context) {
	slotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	slot, err := s.scheduling.CancelSlot(c.Request.Context(), actorFrom(c), slotID)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (s *Server) handleRelease(c *gin.Context) {
	bookingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := s.scheduling.Release(c.Request.Context(), bookingID)
	if err != nil {
		s.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (s *Server) handlePreview(c *gin.Context) {
	preview, err := s.links.Preview(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.writeLinkError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreviewResponse(preview))
}

func (s *Server) handleJoin(c *gin.Context) {
	iv, err := s.links.Join(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.writeLinkError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJoinResponse(iv))
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ", want RFC3339"})
		return time.Time{}, false
	}
	return t, true
}

func searchCriteriaFrom(c *gin.Context) (scheduling.SearchCriteria, bool) {
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return scheduling.SearchCriteria{}, false
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return scheduling.SearchCriteria{}, false
	}

	criteria := scheduling.SearchCriteria{
		CompanyRef:      c.Query("company_ref"),
		From:            from,
		To:              to,
		AIInterviewType: domain.AIInterviewType(c.Query("ai_interview_type")),
	}
	if raw := c.Query("duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration_minutes"})
			return scheduling.SearchCriteria{}, false
		}
		criteria.DurationMinutes = minutes
	}
	return criteria, true
}
