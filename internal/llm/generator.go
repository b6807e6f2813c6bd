// Package llm wraps Genkit text generation behind the small interface the
// triage pipeline consumes.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Generator produces completions from the configured model.
//
// The model is addressed by its Genkit name (e.g. "googleai/gemini-2.5-flash"
// or "ollama/llama3.3"), so switching providers is a configuration change.
type Generator struct {
	genkit    *genkit.Genkit
	modelName string
	logger    *slog.Logger
}

// NewGenerator creates a generator bound to the given Genkit instance and
// model name.
func NewGenerator(g *genkit.Genkit, modelName string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{genkit: g, modelName: modelName, logger: logger}
}

// Generate runs one completion with the given system and user prompts and
// returns the raw model text. The caller owns parsing and validation; any
// malformed output is handled downstream, never retried here.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	response, err := genkit.Generate(ctx, g.genkit,
		ai.WithModelName(g.modelName),
		ai.WithSystem(system),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	text := response.Text()
	g.logger.Debug("generated completion",
		"model", g.modelName,
		"prompt_length", len(prompt),
		"response_length", len(text))

	return text, nil
}
