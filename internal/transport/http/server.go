package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/domain"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/linktoken"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/scheduling"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store"
)

// genericLinkError is the only body public link endpoints return on failure.
// Collapsing every validation failure into one message keeps the endpoint
// from acting as a token-guessing oracle.
const genericLinkError = "link invalid or expired"

type schedulingService interface {
	CreateSlot(ctx context.Context, actor scheduling.Actor, in scheduling.CreateSlotInput) (domain.Slot, error)
	CancelSlot(ctx context.Context, actor scheduling.Actor, slotID uuid.UUID) (domain.Slot, error)
	GetSlot(ctx context.Context, slotID uuid.UUID) (domain.Slot, error)
	ListSlots(ctx context.Context, companyRef string, windowStart, windowEnd time.Time) ([]domain.Slot, error)
	GenerateRecurringSlots(ctx context.Context, actor scheduling.Actor, p domain.RecurrencePattern) (scheduling.GenerateResult, error)
	Book(ctx context.Context, interviewID, slotID uuid.UUID, notes string) (domain.Booking, error)
	Release(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)
	BookBySearch(ctx context.Context, interviewID uuid.UUID, criteria scheduling.SearchCriteria, notes string) (domain.Booking, error)
	Search(ctx context.Context, criteria scheduling.SearchCriteria) ([]domain.Slot, error)
}

type linkService interface {
	Preview(ctx context.Context, token string) (linktoken.PreviewResult, error)
	Join(ctx context.Context, token string) (domain.Interview, error)
}

type Server struct {
	scheduling schedulingService
	links      linkService
	log        *slog.Logger
}

func NewServer(scheduling schedulingService, links linkService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		scheduling: scheduling,
		links:      links,
		log:        log.With(slog.String("component", "http")),
	}
}

// Router wires all admin and public routes onto a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1")
	{
		api.POST("/slots", s.handleCreateSlot)
		api.POST("/slots/recurring", s.handleGenerateRecurringSlots)
		api.GET("/slots", s.handleListSlots)
		api.GET("/slots/search", s.handleSearchSlots)
		api.GET("/slots/:id", s.handleGetSlot)
		api.POST("/slots/:id/book", s.handleBook)
		api.POST("/slots/:id/cancel", s.handleCancelSlot)
		api.POST("/slots/book-by-search", s.handleBookBySearch)
		api.POST("/bookings/:id/release", s.handleRelease)
	}

	r.GET("/interview/public/:token", s.handlePreview)
	r.POST("/interview/public/:token", s.handleJoin)

	return r
}

// actorFrom builds the capability claim for admin mutations. The platform's
// auth middleware (an external collaborator) is expected to set the header.
func actorFrom(c *gin.Context) scheduling.Actor {
	return scheduling.CompanyActor{CompanyRef: c.GetHeader("X-Company-Ref")}
}

// writeAdminError maps service errors onto specific, actionable responses.
func (s *Server) writeAdminError(c *gin.Context, err error) {
	var vErr *scheduling.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, scheduling.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slot overlaps an existing slot"})
	case errors.Is(err, store.ErrSlotFull):
		c.JSON(http.StatusConflict, gin.H{"error": "slot is fully booked"})
	case errors.Is(err, store.ErrAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": "interview already has an active booking"})
	default:
		s.log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.Any("err", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// writeLinkError deliberately hides which check failed.
func (s *Server) writeLinkError(c *gin.Context, err error) {
	if errors.Is(err, linktoken.ErrAlreadyCompleted) {
		c.JSON(http.StatusGone, gin.H{"error": genericLinkError})
		return
	}
	switch {
	case errors.Is(err, linktoken.ErrInvalidSignature),
		errors.Is(err, linktoken.ErrMalformedToken),
		errors.Is(err, linktoken.ErrExpiredLink),
		errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": genericLinkError})
	default:
		s.log.ErrorContext(c.Request.Context(), "link request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
