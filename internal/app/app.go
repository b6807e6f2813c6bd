// Package app provides application initialization and dependency injection.
//
// App is the core container that wires configuration, Genkit, the database
// pool, and the triage pipeline together. Setup builds it; Close releases it.
package app

import (
	"context"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marvale/deskpilot/internal/config"
	"github.com/marvale/deskpilot/internal/ingest"
	"github.com/marvale/deskpilot/internal/knowledge"
	"github.com/marvale/deskpilot/internal/ticket"
	"github.com/marvale/deskpilot/internal/triage"
)

// App is the core application container.
type App struct {
	// Configuration
	Config *config.Config

	// Core services
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	// Domain components
	Knowledge *knowledge.Store
	Tickets   *ticket.Store
	Triage    *triage.Service
	Ingestor  *ingest.Ingestor

	// Lifecycle management
	cancel      context.CancelFunc
	otelCleanup func()
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	slog.Info("shutting down application")

	if a.cancel != nil {
		a.cancel()
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		slog.Info("database pool closed")
	}

	// Flush pending spans last so teardown itself is traced.
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
