package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marvale/deskpilot/internal/ticket"
)

// DefaultTopK is the number of passages retrieved per query when the caller
// does not configure one.
const DefaultTopK = 5

// ErrEmptyQuery is returned when the ticket text is empty or whitespace-only.
// The check runs before retrieval, so no collaborator is contacted.
var ErrEmptyQuery = errors.New("query text is empty")

// Retriever returns the topK most similar knowledge passages for a query.
// An empty result is valid; an error means the knowledge backend failed.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Generator produces raw text for a prompt. No structural guarantees — the
// output goes through ParseGenerationResult before anything depends on it.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// TicketStore persists triage outcomes. Create must assign a unique ID.
type TicketStore interface {
	Create(ctx context.Context, params ticket.CreateParams) (*ticket.Ticket, error)
}

// Outcome is the result of processing one ticket end-to-end.
type Outcome struct {
	ID     int64    `json:"id"`
	Action Action   `json:"action"`
	Reply  *string  `json:"reply"`
	Tags   []string `json:"tags"`
	Reason string   `json:"reason"`
}

// Answer is the result of a non-persisting knowledge-base query.
type Answer struct {
	Answer     string     `json:"answer"`
	Tags       []string   `json:"tags"`
	Confidence Confidence `json:"confidence"`
	Sources    []Passage  `json:"sources"`
}

// Service orchestrates the triage pipeline. Collaborators are injected; the
// service itself holds no mutable state and is safe for concurrent use.
type Service struct {
	retriever Retriever
	generator Generator
	tickets   TicketStore
	topK      int
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTopK overrides the number of passages retrieved per query.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewService creates the triage service with its three collaborators.
func NewService(retriever Retriever, generator Generator, tickets TicketStore, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		retriever: retriever,
		generator: generator,
		tickets:   tickets,
		topK:      DefaultTopK,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process runs one ticket through the full pipeline and persists the outcome.
//
// The sequence is strict: retrieve, build prompt, generate, parse, decide,
// persist. No step is retried here. If the retriever or generator fails, the
// error propagates and no ticket is created — a ticket record always reflects
// a completed pipeline, never a partial one. Exactly one create hits the
// store per successful call.
func (s *Service) Process(ctx context.Context, text string, history []Turn) (*Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	result, _, err := s.run(ctx, text, history)
	if err != nil {
		return nil, err
	}

	action, reason := Decide(result)

	var reply *string
	if action == ActionReply {
		reply = &result.Answer
	}

	created, err := s.tickets.Create(ctx, ticket.CreateParams{
		Text:   text,
		Action: string(action),
		Reply:  reply,
		Tags:   result.Tags,
		Reason: &reason,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting ticket: %w", err)
	}

	s.logger.Info("processed ticket",
		"id", created.ID,
		"action", action,
		"confidence", result.Confidence,
		"tags", len(result.Tags),
	)

	return &Outcome{
		ID:     created.ID,
		Action: action,
		Reply:  created.Reply,
		Tags:   result.Tags,
		Reason: reason,
	}, nil
}

// Query answers a knowledge-base question without persisting anything.
// Same retrieval and generation pipeline as Process, minus decision and
// storage; the retrieved passages come back as sources.
func (s *Service) Query(ctx context.Context, query string, history []Turn) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	result, passages, err := s.run(ctx, query, history)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Answer:     result.Answer,
		Tags:       result.Tags,
		Confidence: result.Confidence,
		Sources:    passages,
	}, nil
}

// run executes the shared retrieve→prompt→generate→parse steps.
func (s *Service) run(ctx context.Context, query string, history []Turn) (GenerationResult, []Passage, error) {
	passages, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		return GenerationResult{}, nil, fmt.Errorf("retrieving context: %w", err)
	}

	prompt := BuildPrompt(query, passages, history)

	raw, err := s.generator.Generate(ctx, SystemPrompt(), prompt)
	if err != nil {
		return GenerationResult{}, nil, fmt.Errorf("generating response: %w", err)
	}

	result, conformed := parseGenerationResult(raw)
	if !conformed {
		s.logger.Debug("generator output did not conform to response contract, using fallback",
			"raw_len", len(raw),
		)
	}

	return result, passages, nil
}
