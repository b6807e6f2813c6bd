package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/marvale/deskpilot/internal/triage"
)

// TriageService is the slice of triage.Service the handlers consume.
type TriageService interface {
	Process(ctx context.Context, text string, history []triage.Turn) (*triage.Outcome, error)
	Query(ctx context.Context, query string, history []triage.Turn) (*triage.Answer, error)
}

// queryHandler serves knowledge-base queries that persist nothing.
type queryHandler struct {
	triage TriageService
	logger *slog.Logger
}

type queryRequest struct {
	Query               string        `json:"query"`
	ConversationHistory []triage.Turn `json:"conversation_history,omitempty"`
}

type querySource struct {
	DocName string `json:"doc_name"`
	Snippet string `json:"snippet"`
}

type queryResponse struct {
	Answer  string        `json:"answer"`
	Sources []querySource `json:"sources"`
}

// query handles POST /api/v1/query.
func (h *queryHandler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	answer, err := h.triage.Query(r.Context(), req.Query, req.ConversationHistory)
	if err != nil {
		if errors.Is(err, triage.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "invalid_query", "query cannot be empty or whitespace")
			return
		}
		h.logger.Error("query failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "query_failed", "failed to answer query")
		return
	}

	sources := make([]querySource, 0, len(answer.Sources))
	for _, p := range answer.Sources {
		name := p.Source
		if name == "" {
			name = p.ID
		}
		sources = append(sources, querySource{DocName: name, Snippet: p.Content})
	}

	writeJSON(w, http.StatusOK, queryResponse{Answer: answer.Answer, Sources: sources})
}
