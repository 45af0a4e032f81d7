package tickets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticket-intake/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the extraction service. It owns the one
// operator session holding the result slot.
type Handler struct {
	Svc     *Service
	Session *Session
}

// NewHandler constructs a Handler with a fresh session.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Session: NewSession()}
}

// RegisterRoutes attaches ticket routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tickets/extract", h.extractTicket)
	rg.GET("/tickets/latest", h.latestTicket)
}

type extractRequest struct {
	NoteText string `json:"noteText"`
}

func (h *Handler) extractTicket(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Session.SetInput(req.NoteText); err != nil {
		respond.Error(c, http.StatusConflict, "extraction_in_flight", "an extraction is already running", nil)
		return
	}
	if err := h.Session.Submit(); err != nil {
		switch {
		case errors.Is(err, ErrEmptyInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "noteText is required", nil)
		case errors.Is(err, ErrExtractionInFlight):
			respond.Error(c, http.StatusConflict, "extraction_in_flight", "an extraction is already running", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start extraction", nil)
		}
		return
	}

	outcome, err := h.Svc.Extract(c.Request.Context(), req.NoteText)
	if err != nil {
		_ = h.Session.Abort()
		switch {
		case errors.Is(err, ErrEmptyInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "noteText is required", nil)
		case errors.Is(err, ErrExtractionInFlight):
			respond.Error(c, http.StatusConflict, "extraction_in_flight", "an extraction is already running", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start extraction", nil)
		}
		return
	}
	_ = h.Session.Finish(outcome)
	c.Set("attemptId", outcome.AttemptID)

	if !outcome.Succeeded() {
		respond.Error(c, http.StatusUnprocessableEntity, "generation_failed", outcome.Message, nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"attemptId": outcome.AttemptID,
		"ticket":    outcome.Ticket,
	})
}

// latestTicket returns the result slot. The last successful ticket stays
// visible even when the most recent attempt failed.
func (h *Handler) latestTicket(c *gin.Context) {
	outcome, hasOutcome := h.Session.Latest()
	ticket, hasTicket := h.Session.LastTicket()
	if !hasOutcome && !hasTicket {
		respond.Error(c, http.StatusNotFound, "not_found", "no extraction yet", nil)
		return
	}

	resp := gin.H{"state": h.Session.State()}
	if hasOutcome {
		resp["status"] = outcome.Status
		resp["attemptId"] = outcome.AttemptID
		if !outcome.Succeeded() {
			resp["message"] = outcome.Message
		}
	}
	if hasTicket {
		resp["ticket"] = ticket
	}
	respond.JSON(c, http.StatusOK, resp)
}
