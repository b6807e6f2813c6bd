package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marvale/deskpilot/internal/config"
)

func TestQualifiedModelName(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{"gemini default", config.ProviderGemini, "gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"empty provider defaults to gemini", "", "gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"ollama", config.ProviderOllama, "llama3.3", "ollama/llama3.3"},
		{"openai", config.ProviderOpenAI, "gpt-4o-mini", "openai/gpt-4o-mini"},
		{"already qualified passes through", config.ProviderGemini, "ollama/mistral", "ollama/mistral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Provider: tt.provider, ModelName: tt.model}
			assert.Equal(t, tt.want, QualifiedModelName(cfg))
		})
	}
}
