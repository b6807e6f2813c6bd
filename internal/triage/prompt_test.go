package triage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptRendersPassagesInOrder(t *testing.T) {
	passages := []Passage{
		{ID: "kb-1", Score: 0.92, Content: "Reset passwords under Settings > Security.", Source: "security.md"},
		{ID: "kb-2", Score: 0.81, Content: "Billing runs on the first of each month.", Source: "billing.md"},
	}

	prompt := BuildPrompt("How do I reset my password?", passages, nil)

	assert.Contains(t, prompt, "Document 1:\nReset passwords under Settings > Security.")
	assert.Contains(t, prompt, "Document 2:\nBilling runs on the first of each month.")

	// Blocks appear in retriever order, joined by a blank line.
	first := strings.Index(prompt, "Document 1:")
	second := strings.Index(prompt, "Document 2:")
	require.Greater(t, second, first)
	assert.Contains(t, prompt, "Settings > Security.\n\nDocument 2:")

	assert.Contains(t, prompt, "User Question: How do I reset my password?")
}

func TestBuildPromptSkipsEmptyPassages(t *testing.T) {
	passages := []Passage{
		{ID: "kb-1", Content: ""},
		{ID: "kb-2", Content: "Useful content."},
	}

	prompt := BuildPrompt("anything", passages, nil)

	assert.NotContains(t, prompt, "Document 1:\n\n")
	assert.Contains(t, prompt, "Document 2:\nUseful content.")
}

func TestBuildPromptNoPassages(t *testing.T) {
	prompt := BuildPrompt("orphan question", nil, nil)

	assert.Contains(t, prompt, "Context from knowledge base:")
	assert.NotContains(t, prompt, "Document 1:")
	assert.Contains(t, prompt, "User Question: orphan question")
}

func TestBuildPromptHistoryKeepsMostRecentSixTurns(t *testing.T) {
	history := make([]Turn, 10)
	for i := range history {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history[i] = Turn{Role: role, Content: fmt.Sprintf("turn-%d", i)}
	}

	prompt := BuildPrompt("latest question", nil, history)

	// Turns 0-3 are dropped, turns 4-9 survive.
	for i := 0; i < 4; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("turn-%d", i), "turn %d should be truncated away", i)
	}
	for i := 4; i < 10; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("turn-%d", i), "turn %d should be included", i)
	}
}

func TestBuildPromptTruncatesLongTurnContent(t *testing.T) {
	long := strings.Repeat("x", 300)
	history := []Turn{{Role: RoleUser, Content: long}}

	prompt := BuildPrompt("q", nil, history)

	assert.Contains(t, prompt, strings.Repeat("x", 150)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 151))
}

func TestBuildPromptTruncationCountsRunes(t *testing.T) {
	long := strings.Repeat("界", 200)
	history := []Turn{{Role: RoleUser, Content: long}}

	prompt := BuildPrompt("q", nil, history)

	assert.Contains(t, prompt, strings.Repeat("界", 150)+"...")
	assert.NotContains(t, prompt, strings.Repeat("界", 151))
}

func TestBuildPromptShortTurnNotMarked(t *testing.T) {
	history := []Turn{{Role: RoleAssistant, Content: "short reply"}}

	prompt := BuildPrompt("q", nil, history)

	assert.Contains(t, prompt, "assistant: short reply\n")
	assert.NotContains(t, prompt, "short reply...")
}

func TestBuildPromptNilAndEmptyHistoryAreIdentical(t *testing.T) {
	withNil := BuildPrompt("q", nil, nil)
	withEmpty := BuildPrompt("q", nil, []Turn{})

	assert.Equal(t, withNil, withEmpty)
	assert.NotContains(t, withNil, "Conversation so far:")
}

func TestBuildPromptHistorySectionPresentWhenTurnsExist(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi, how can I help?"},
	}

	prompt := BuildPrompt("q", nil, history)

	assert.Contains(t, prompt, "Conversation so far:\nuser: hello\nassistant: hi, how can I help?\n")
}

func TestBuildPromptDeterministic(t *testing.T) {
	passages := []Passage{{ID: "a", Content: "doc"}}
	history := []Turn{{Role: RoleUser, Content: "hi"}}

	assert.Equal(t,
		BuildPrompt("q", passages, history),
		BuildPrompt("q", passages, history),
	)
}

func TestSystemPromptCarriesResponseContract(t *testing.T) {
	sp := SystemPrompt()

	assert.Contains(t, sp, `"answer"`)
	assert.Contains(t, sp, `"tags"`)
	assert.Contains(t, sp, `"confidence"`)
	assert.Contains(t, sp, InsufficientContext)
}
