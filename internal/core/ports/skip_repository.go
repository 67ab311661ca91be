package ports

import (
	"context"

	"github.com/grical/overlay-service/internal/core/domain"
)

// SkipBatch carries the skipped records of one build to the audit trail.
// Source identifies the build input: a viewport key or "payload".
type SkipBatch struct {
	Source  string
	Entries []domain.SkipAudit
}

// SkipRepository persists the skipped-record audit trail.
type SkipRepository interface {
	InsertSkips(ctx context.Context, entries []domain.SkipAudit) error
	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.SkipAudit, error)
}
