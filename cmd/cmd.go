// Package cmd provides CLI commands for DeskPilot.
//
// Commands:
//   - serve: HTTP API server for triage and ticket review
//   - ask: one-shot question against the knowledge base
//   - ingest: load documentation files into the knowledge base
//
// Signal handling and graceful shutdown are implemented
// for all commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/marvale/deskpilot/internal/log"
)

// Execute is the main entry point for the DeskPilot CLI application.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level, JSON: os.Getenv("LOG_FORMAT") == "json"}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "ask":
		return runAsk()
	case "ingest":
		return runIngest()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("DeskPilot - support ticket triage assistant")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  deskpilot serve [addr]     Start HTTP API server (default: 127.0.0.1:3400)")
	fmt.Println("  deskpilot ask <question>   Ask a one-shot question against the knowledge base")
	fmt.Println("  deskpilot ingest [dir]     Ingest documentation files (default: docs_dir from config)")
	fmt.Println("  deskpilot --version        Show version information")
	fmt.Println("  deskpilot --help           Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY             Required for the gemini provider")
	fmt.Println("  OPENAI_API_KEY             Required for the openai provider")
	fmt.Println("  DATABASE_URL               Optional: overrides the postgres_* config keys")
	fmt.Println("  DEBUG                      Optional: enable debug logging")
	fmt.Println("  LOG_FORMAT=json            Optional: JSON log output")
}
