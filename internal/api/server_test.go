package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/marvale/deskpilot/internal/log"
	"github.com/marvale/deskpilot/internal/ticket"
	"github.com/marvale/deskpilot/internal/triage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeTriage implements TriageService with canned results.
type fakeTriage struct {
	outcome     *triage.Outcome
	answer      *triage.Answer
	err         error
	lastText    string
	lastHistory []triage.Turn
}

func (f *fakeTriage) Process(_ context.Context, text string, history []triage.Turn) (*triage.Outcome, error) {
	f.lastText = text
	f.lastHistory = history
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeTriage) Query(_ context.Context, query string, history []triage.Turn) (*triage.Answer, error) {
	f.lastText = query
	f.lastHistory = history
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

// fakeTickets implements TicketStore with canned results.
type fakeTickets struct {
	updated   *ticket.Ticket
	list      []ticket.Ticket
	err       error
	lastID    int64
	lastLabel string
	lastSkip  int32
	lastLimit int32
}

func (f *fakeTickets) UpdateHumanLabel(_ context.Context, id int64, label string) (*ticket.Ticket, error) {
	f.lastID = id
	f.lastLabel = label
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeTickets) List(_ context.Context, skip, limit int32) ([]ticket.Ticket, error) {
	f.lastSkip = skip
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func newTestServer(t *testing.T, tr TriageService, ts TicketStore) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Logger:  log.NewNop(),
		Triage:  tr,
		Tickets: ts,
	})
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServerRequiresCollaborators(t *testing.T) {
	_, err := NewServer(ServerConfig{Tickets: &fakeTickets{}})
	assert.Error(t, err)

	_, err = NewServer(ServerConfig{Triage: &fakeTriage{}})
	assert.Error(t, err)
}

func TestQueryEndpoint(t *testing.T) {
	tr := &fakeTriage{answer: &triage.Answer{
		Answer: "Invoices arrive by email.",
		Sources: []triage.Passage{
			{ID: "kb-1", Score: 0.8, Content: "Invoices are emailed monthly.", Source: "billing.md"},
			{ID: "kb-2", Score: 0.5, Content: "Orphan passage."},
		},
	}}
	srv := newTestServer(t, tr, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query",
		`{"query":"Where is my invoice?","conversation_history":[{"role":"user","content":"hi"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Answer  string `json:"answer"`
		Sources []struct {
			DocName string `json:"doc_name"`
			Snippet string `json:"snippet"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invoices arrive by email.", resp.Answer)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "billing.md", resp.Sources[0].DocName)
	assert.Equal(t, "Invoices are emailed monthly.", resp.Sources[0].Snippet)
	// A passage without a source falls back to its ID.
	assert.Equal(t, "kb-2", resp.Sources[1].DocName)

	assert.Equal(t, "Where is my invoice?", tr.lastText)
	require.Len(t, tr.lastHistory, 1)
	assert.Equal(t, triage.RoleUser, tr.lastHistory[0].Role)
}

func TestQueryEndpointEmptyQuery(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{err: triage.ErrEmptyQuery}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query", `{"query":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_query")
}

func TestQueryEndpointMalformedBody(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_body")
}

func TestQueryEndpointPipelineFailure(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{err: errors.New("model 503")}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query", `{"query":"q"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "query_failed")
	// Internal error detail must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "model 503")
}

func TestAgentEndpoint(t *testing.T) {
	reply := "Go to Settings > Security."
	tr := &fakeTriage{outcome: &triage.Outcome{
		ID:     7,
		Action: triage.ActionReply,
		Reply:  &reply,
		Tags:   []string{"password-reset"},
		Reason: "generated reply using knowledge base context",
	}}
	srv := newTestServer(t, tr, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/tickets/agent", `{"ticket":"How do I reset my password?"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp triage.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, triage.ActionReply, resp.Action)
	require.NotNil(t, resp.Reply)
	assert.Equal(t, reply, *resp.Reply)
	assert.Equal(t, []string{"password-reset"}, resp.Tags)
}

func TestAgentEndpointEmptyTicket(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{err: triage.ErrEmptyQuery}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/tickets/agent", `{"ticket":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_ticket")
}

func TestFeedbackEndpoint(t *testing.T) {
	label := "correct"
	ts := &fakeTickets{updated: &ticket.Ticket{ID: 7, Text: "q", Action: "reply", HumanLabel: &label}}
	srv := newTestServer(t, &fakeTriage{}, ts)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/tickets/feedback", `{"ticket_id":7,"human_label":"correct"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), ts.lastID)
	assert.Equal(t, "correct", ts.lastLabel)

	var resp ticket.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.HumanLabel)
	assert.Equal(t, "correct", *resp.HumanLabel)
}

func TestFeedbackEndpointUnknownTicket(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{}, &fakeTickets{err: ticket.ErrNotFound})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/tickets/feedback", `{"ticket_id":999,"human_label":"correct"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticket_not_found")
}

func TestFeedbackEndpointEmptyLabel(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/tickets/feedback", `{"ticket_id":7,"human_label":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_label")
}

func TestListEndpointDefaults(t *testing.T) {
	ts := &fakeTickets{list: []ticket.Ticket{{ID: 1}, {ID: 2}}}
	srv := newTestServer(t, &fakeTriage{}, ts)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/tickets", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(0), ts.lastSkip)
	assert.Equal(t, int32(50), ts.lastLimit)

	var resp []ticket.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestListEndpointPagination(t *testing.T) {
	ts := &fakeTickets{}
	srv := newTestServer(t, &fakeTriage{}, ts)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/tickets?skip=10&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(10), ts.lastSkip)
	assert.Equal(t, int32(5), ts.lastLimit)

	// Empty result serializes as [], not null.
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListEndpointInvalidPagination(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{}, &fakeTickets{})

	for _, path := range []string{
		"/api/v1/tickets?skip=-1",
		"/api/v1/tickets?skip=abc",
		"/api/v1/tickets?limit=0",
		"/api/v1/tickets?limit=9999",
	} {
		rec := doJSON(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")

	// Without a pool, readiness degrades to liveness.
	rec = doJSON(t, srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := newTestServer(t, &fakeTriage{}, &fakeTickets{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
