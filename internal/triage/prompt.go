package triage

import (
	"fmt"
	"strings"
)

// InsufficientContext is the reserved answer the generator returns when the
// retrieved passages cannot ground a reply. Matched exactly, case-sensitive.
const InsufficientContext = "INSUFFICIENT_CONTEXT"

// History budgeting. Client-supplied history is unbounded; the prompt is not.
const (
	// maxHistoryTurns is the number of most recent turns included in the prompt.
	maxHistoryTurns = 6

	// maxTurnRunes caps each included turn's content.
	maxTurnRunes = 150

	// truncationMarker is appended when a turn's content is cut.
	truncationMarker = "..."
)

// systemPrompt is the fixed instruction text sent with every generation
// request. It defines the JSON response contract the Validator expects.
const systemPrompt = `You are a helpful customer support assistant.

Your task is to answer user questions based ONLY on the provided context from the knowledge base.

RESPONSE FORMAT:
You MUST respond with valid JSON in this exact format:
{
  "answer": "your detailed answer here",
  "tags": ["tag1", "tag2", "tag3"],
  "confidence": "high"
}

IMPORTANT RULES:

1. ANSWER GENERATION:
   - If the context contains sufficient information: Provide a helpful, detailed answer
   - If the context does NOT contain enough information: Set answer to exactly "INSUFFICIENT_CONTEXT"
   - Do NOT make up information that is not in the context
   - Do NOT provide partial or uncertain answers
   - Be clear, concise, and helpful
   - Use polite language suitable for customer support

2. TAG EXTRACTION:
   - Extract 3-5 relevant tags that categorize the question/topic
   - Tags should be lowercase, hyphenated if multi-word (e.g., "password-reset")
   - Common tag categories: technical issues, billing, account, authentication, features
   - Include urgency if apparent (e.g., "urgent", "high-priority")

3. CONFIDENCE LEVEL:
   - "high": Context clearly answers the question with specific information
   - "medium": Context provides relevant info but may lack some details
   - "low": Context is tangentially related or insufficient
   - If setting answer to "INSUFFICIENT_CONTEXT", set confidence to "low"`

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior exchange in a conversation, earliest-first in a history
// slice. Turns exist only for the request that carries them; they are never
// persisted.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Passage is a knowledge-base snippet returned by the Retriever.
// Score scale depends on the retriever; higher means more relevant.
type Passage struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
}

// SystemPrompt returns the fixed system instruction for the generator.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt composes the user-facing prompt from the query, the retrieved
// passages (in retriever order, no re-ranking) and an optional conversation
// history. It is a pure function of its inputs.
//
// A nil history and an empty history produce byte-identical prompts: the
// conversation section is omitted entirely rather than rendered empty.
func BuildPrompt(query string, passages []Passage, history []Turn) string {
	var b strings.Builder

	b.WriteString("Context from knowledge base:\n")
	b.WriteString(renderContext(passages))
	b.WriteString("\n")

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range recentTurns(history) {
			b.WriteString(string(turn.Role))
			b.WriteString(": ")
			b.WriteString(truncateContent(turn.Content))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUser Question: ")
	b.WriteString(query)
	b.WriteString("\n\nRemember: Respond ONLY with valid JSON containing answer, tags, and confidence.")

	return b.String()
}

// renderContext renders passages as labeled blocks joined by blank lines.
func renderContext(passages []Passage) string {
	blocks := make([]string, 0, len(passages))
	for i, p := range passages {
		if p.Content == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Document %d:\n%s", i+1, p.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// recentTurns drops all but the most recent maxHistoryTurns turns.
// History is earliest-first, so truncation removes from the front.
func recentTurns(history []Turn) []Turn {
	if len(history) <= maxHistoryTurns {
		return history
	}
	return history[len(history)-maxHistoryTurns:]
}

// truncateContent caps turn content at maxTurnRunes runes, appending the
// truncation marker when content is cut.
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= maxTurnRunes {
		return content
	}
	return string(runes[:maxTurnRunes]) + truncationMarker
}
