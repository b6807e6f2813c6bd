package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marvale/deskpilot/internal/knowledge"
)

// Store defines the storage operations the ingestor needs.
// Following Go best practices: interfaces are defined by the consumer.
type Store interface {
	Add(ctx context.Context, doc knowledge.Document) error
	Delete(ctx context.Context, docID string) (bool, error)
}

// supportedExtensions are the file types the ingestor reads.
var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Result summarizes one ingestion run.
type Result struct {
	FilesIngested int
	FilesSkipped  int
	Chunks        int
	ChunksPruned  int
	Duration      time.Duration
}

// Ingestor loads documentation files into the knowledge store.
type Ingestor struct {
	store        Store
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// New creates an ingestor. chunkSize and chunkOverlap are in runes and must
// already be validated (size positive, overlap smaller than size).
func New(store Store, chunkSize, chunkOverlap int, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		store:        store,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// IngestDir reads every supported file directly under dir, chunks it, and
// upserts the chunks. Chunk IDs are "<file>#<index>", so re-ingesting the
// same directory replaces prior content instead of duplicating it.
//
// Unreadable files are skipped with a warning; a storage failure aborts the
// run since later chunks would likely fail the same way.
func (ing *Ingestor) IngestDir(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading docs directory %q: %w", dir, err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		// #nosec G304 -- path is constrained to the configured docs directory
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			ing.logger.Warn("skipping unreadable file", "file", entry.Name(), "error", err)
			result.FilesSkipped++
			continue
		}

		chunks := Chunk(string(content), ing.chunkSize, ing.chunkOverlap)
		if len(chunks) == 0 {
			ing.logger.Debug("skipping empty file", "file", entry.Name())
			result.FilesSkipped++
			continue
		}

		for idx, chunk := range chunks {
			doc := knowledge.Document{
				ID:      fmt.Sprintf("%s#%d", entry.Name(), idx),
				Content: chunk,
				Source:  entry.Name(),
			}
			if err := ing.store.Add(ctx, doc); err != nil {
				return nil, fmt.Errorf("ingesting chunk %d of %q: %w", idx, entry.Name(), err)
			}
		}

		pruned, err := ing.pruneStaleChunks(ctx, entry.Name(), len(chunks))
		if err != nil {
			return nil, err
		}

		ing.logger.Info("ingested file", "file", entry.Name(), "chunks", len(chunks), "pruned", pruned)
		result.FilesIngested++
		result.Chunks += len(chunks)
		result.ChunksPruned += pruned
	}

	result.Duration = time.Since(start)
	return result, nil
}

// pruneStaleChunks deletes chunks left over from an earlier, longer version
// of the file. Chunk indices are contiguous, so deleting upward from the new
// count until a miss removes exactly the stale tail.
func (ing *Ingestor) pruneStaleChunks(ctx context.Context, file string, from int) (int, error) {
	pruned := 0
	for idx := from; ; idx++ {
		deleted, err := ing.store.Delete(ctx, fmt.Sprintf("%s#%d", file, idx))
		if err != nil {
			return pruned, fmt.Errorf("pruning stale chunk %d of %q: %w", idx, file, err)
		}
		if !deleted {
			return pruned, nil
		}
		pruned++
	}
}
