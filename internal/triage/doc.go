// Package triage implements the retrieval-augmented decision pipeline that
// turns a raw support ticket into an action.
//
// The pipeline is a strict sequence: retrieve knowledge passages, build a
// bounded prompt, generate a raw response, parse it into a GenerationResult
// (with a safe fallback for malformed output), decide reply-vs-escalate, and
// persist the outcome. The Service orchestrates the sequence; its
// collaborators (Retriever, Generator, TicketStore) are injected interfaces
// so the core stays free of network and storage concerns.
package triage
