package discussion

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for comment persistence
type Repository interface {
	// Save appends a comment; comments are never updated or deleted
	Save(ctx context.Context, comment *Comment) error

	// FindByReport returns a report's comments ordered by creation time
	// ascending. When internalVisible is false, internal comments are
	// excluded (tenant-scoped reads).
	FindByReport(ctx context.Context, reportID uuid.UUID, internalVisible bool) ([]Comment, error)
}
