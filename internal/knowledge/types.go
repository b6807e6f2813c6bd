package knowledge

import (
	"time"
)

// Document represents a knowledge base document.
type Document struct {
	ID        string    // Unique identifier (chunk ID for ingested files)
	Content   string    // Document text content
	Source    string    // Origin of the content (file name, URL, ...)
	CreatedAt time.Time // Creation timestamp (zero = assigned by the database)
}

// Result represents a single search result with its similarity score.
type Result struct {
	Document   Document
	Similarity float64 // Cosine similarity (0-1, higher is closer)
}

// SearchOption configures search behavior using the functional options
// pattern, as in context.WithTimeout or grpc.Dial.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK    int
	timeout time.Duration
}

// WithTopK sets the maximum number of results to return. Default is 5.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithTimeout bounds the embedding call and the vector search. Default is 10s.
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    5,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
