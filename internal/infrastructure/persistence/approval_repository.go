package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/approval"
	"github.com/tenancy/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormApprovalRepository implements approval.Repository using GORM
type GormApprovalRepository struct {
	db *gorm.DB
}

// NewGormApprovalRepository creates a new GormApprovalRepository
func NewGormApprovalRepository(db *gorm.DB) *GormApprovalRepository {
	return &GormApprovalRepository{db: db}
}

// FindByCheckIn finds the approval record for a check-in inspection
func (r *GormApprovalRepository) FindByCheckIn(ctx context.Context, checkInID uuid.UUID) (*approval.TenantApproval, error) {
	var record approval.TenantApproval
	if err := r.db.WithContext(ctx).First(&record, "check_in_id = ?", checkInID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Save creates or updates an approval record
func (r *GormApprovalRepository) Save(ctx context.Context, a *approval.TenantApproval) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Decide applies a decision function inside a transaction. The record is
// reloaded and committed with a guard on the stored status, so two
// concurrent decisions cannot both succeed.
func (r *GormApprovalRepository) Decide(ctx context.Context, checkInID uuid.UUID, fn func(*approval.TenantApproval) error) (*approval.TenantApproval, error) {
	var result *approval.TenantApproval
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record approval.TenantApproval
		if err := tx.First(&record, "check_in_id = ?", checkInID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		previousStatus := record.Status
		if err := fn(&record); err != nil {
			return err
		}

		update := tx.Model(&approval.TenantApproval{}).
			Where("id = ? AND status = ?", record.ID, previousStatus).
			Updates(map[string]interface{}{
				"status":          record.Status,
				"tenant_comments": record.TenantComments,
				"decided_at":      record.DecidedAt,
				"updated_at":      record.UpdatedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The approval has been decided by another request")
		}

		result = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
