package approval

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for tenant approval persistence
type Repository interface {
	// FindByCheckIn finds the approval record for a check-in inspection
	FindByCheckIn(ctx context.Context, checkInID uuid.UUID) (*TenantApproval, error)

	// Save creates or updates an approval record
	Save(ctx context.Context, a *TenantApproval) error

	// Decide applies a decision function to the approval inside a single
	// transaction with the row locked, so concurrent decisions cannot
	// both succeed. Returns the refreshed record.
	Decide(ctx context.Context, checkInID uuid.UUID, fn func(*TenantApproval) error) (*TenantApproval, error)
}
