// Package rag bridges the knowledge store to the triage pipeline's retrieval
// interface, converting search hits into prompt-ready passages.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marvale/deskpilot/internal/knowledge"
	"github.com/marvale/deskpilot/internal/triage"
)

// Searcher is the slice of knowledge.Store the retriever needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Retriever adapts vector search results to triage passages.
type Retriever struct {
	store  Searcher
	logger *slog.Logger
}

// New creates a retriever over the given knowledge searcher.
func New(store Searcher, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{store: store, logger: logger}
}

// Retrieve returns the topK most similar knowledge passages for the query,
// ordered by descending similarity.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]triage.Passage, error) {
	results, err := r.store.Search(ctx, query, knowledge.WithTopK(topK))
	if err != nil {
		return nil, fmt.Errorf("searching knowledge base: %w", err)
	}

	passages := make([]triage.Passage, 0, len(results))
	for _, res := range results {
		passages = append(passages, triage.Passage{
			ID:      res.Document.ID,
			Score:   res.Similarity,
			Content: res.Document.Content,
			Source:  res.Document.Source,
		})
	}

	r.logger.Debug("retrieved passages", "query_length", len(query), "count", len(passages))
	return passages, nil
}
