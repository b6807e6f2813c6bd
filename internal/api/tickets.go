package api

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/marvale/deskpilot/internal/ticket"
	"github.com/marvale/deskpilot/internal/triage"
)

// Pagination defaults for ticket listing.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TicketStore is the slice of ticket.Store the handlers consume.
type TicketStore interface {
	UpdateHumanLabel(ctx context.Context, id int64, label string) (*ticket.Ticket, error)
	List(ctx context.Context, skip, limit int32) ([]ticket.Ticket, error)
}

// ticketHandler serves ticket processing, feedback, and listing.
type ticketHandler struct {
	triage  TriageService
	tickets TicketStore
	logger  *slog.Logger
}

type agentRequest struct {
	Ticket              string        `json:"ticket"`
	ConversationHistory []triage.Turn `json:"conversation_history,omitempty"`
}

type feedbackRequest struct {
	TicketID   int64  `json:"ticket_id"`
	HumanLabel string `json:"human_label"`
}

// agent handles POST /api/v1/tickets/agent: one full triage run, one
// persisted ticket.
func (h *ticketHandler) agent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	outcome, err := h.triage.Process(r.Context(), req.Ticket, req.ConversationHistory)
	if err != nil {
		if errors.Is(err, triage.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "invalid_ticket", "ticket text cannot be empty or whitespace")
			return
		}
		h.logger.Error("ticket processing failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "processing_failed", "failed to process ticket")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// feedback handles POST /api/v1/tickets/feedback. The human label is the only
// field it may change; the full updated record comes back.
func (h *ticketHandler) feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if req.HumanLabel == "" {
		writeError(w, http.StatusBadRequest, "invalid_label", "human_label cannot be empty")
		return
	}

	updated, err := h.tickets.UpdateHumanLabel(r.Context(), req.TicketID, req.HumanLabel)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			writeError(w, http.StatusNotFound, "ticket_not_found", "ticket not found")
			return
		}
		h.logger.Error("ticket feedback failed", "error", err, "ticket_id", req.TicketID)
		writeError(w, http.StatusInternalServerError, "feedback_failed", "failed to record feedback")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// list handles GET /api/v1/tickets with skip/limit pagination.
func (h *ticketHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil || skip < 0 || skip > math.MaxInt32 {
		writeError(w, http.StatusBadRequest, "invalid_skip", "skip must be a non-negative integer")
		return
	}

	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 || limit > maxListLimit {
		writeError(w, http.StatusBadRequest, "invalid_limit",
			"limit must be between 1 and "+strconv.Itoa(maxListLimit))
		return
	}

	tickets, err := h.tickets.List(r.Context(), int32(skip), int32(limit))
	if err != nil {
		h.logger.Error("ticket listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed", "failed to list tickets")
		return
	}

	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
