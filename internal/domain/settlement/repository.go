package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/shared"
)

// ReportRepository defines the interface for comparison report persistence
type ReportRepository interface {
	// FindByID finds a report by ID, items preloaded in creation order
	FindByID(ctx context.Context, id uuid.UUID) (*ComparisonReport, error)

	// FindByCheckOut finds the report generated from a check-out inspection
	FindByCheckOut(ctx context.Context, checkOutID uuid.UUID) (*ComparisonReport, error)

	// FindAll finds reports with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]ComparisonReport, error)

	// Count counts reports matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a report together with its items
	Save(ctx context.Context, report *ComparisonReport) error

	// FindItemByID finds a single comparison item
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*ComparisonReportItem, error)

	// PatchItem applies an item patch through the aggregate inside a
	// single transaction: the parent report is locked and reloaded, the
	// patch applied, and the derived total recomputed from persisted
	// item state, never from caller input. Returns the refreshed report.
	PatchItem(ctx context.Context, itemID uuid.UUID, patch ItemPatch) (*ComparisonReport, error)

	// Sign records a signature through the aggregate inside a single
	// transaction, locking the report row so a slot can never be
	// double-signed by racing callers. Returns the refreshed report.
	Sign(ctx context.Context, reportID uuid.UUID, role SignerRole, payload string) (*ComparisonReport, error)

	// ChangeStatus applies an explicit lifecycle change through the
	// aggregate inside a single transaction. Returns the refreshed report.
	ChangeStatus(ctx context.Context, reportID uuid.UUID, target ReportStatus) (*ComparisonReport, error)
}
