package triage

import "strings"

// Action is the decision outcome for a processed ticket.
type Action string

// Decision outcomes.
const (
	ActionReply    Action = "reply"
	ActionEscalate Action = "escalate"
)

// Decision reasons, human-readable and stored with every ticket.
const (
	reasonInsufficientKnowledge = "knowledge base lacks sufficient information; escalating to human agent"
	reasonNoAutomatedReply      = "could not generate automated reply; escalating to human agent"
	reasonRepliedFromKnowledge  = "generated reply using knowledge base context"
)

// Decide maps a GenerationResult to an action and a reason. Pure function.
//
// The answer is trimmed before evaluation, so a whitespace-only answer
// escalates the same way an empty one does. The sentinel comparison is exact
// and case-sensitive. Tags and confidence are untouched by the decision —
// they stay on the result and remain useful for human triage even when the
// ticket escalates.
func Decide(result GenerationResult) (Action, string) {
	answer := strings.TrimSpace(result.Answer)
	switch {
	case answer == InsufficientContext:
		return ActionEscalate, reasonInsufficientKnowledge
	case answer == "":
		return ActionEscalate, reasonNoAutomatedReply
	default:
		return ActionReply, reasonRepliedFromKnowledge
	}
}
