// Package ingest loads documentation files into the knowledge base, splitting
// them into embedding-sized chunks.
package ingest

import "strings"

// Chunk splits content into chunks of at most size runes, with consecutive
// chunks overlapping by overlap runes so sentences cut at a boundary stay
// retrievable. Chunks are trimmed; empty chunks are dropped. Empty or
// whitespace-only content yields no chunks.
//
// size must be positive and overlap smaller than size; config validation
// enforces both.
func Chunk(content string, size, overlap int) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	runes := []rune(content)
	step := size - overlap

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}
