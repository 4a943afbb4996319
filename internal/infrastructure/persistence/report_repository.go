package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a report by its ID with items preloaded in walk order
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.ComparisonReport, error) {
	return findReport(r.db.WithContext(ctx), id)
}

// FindByCheckOut finds the report generated from a check-out inspection
func (r *GormReportRepository) FindByCheckOut(ctx context.Context, checkOutID uuid.UUID) (*settlement.ComparisonReport, error) {
	var report settlement.ComparisonReport
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		First(&report, "check_out_id = ?", checkOutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindAll finds reports with filtering, without item payloads
func (r *GormReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settlement.ComparisonReport, error) {
	var reports []settlement.ComparisonReport
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&settlement.ComparisonReport{}),
		filter,
	)

	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Count counts reports matching the filter
func (r *GormReportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&settlement.ComparisonReport{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a report together with its items
func (r *GormReportRepository) Save(ctx context.Context, report *settlement.ComparisonReport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveReport(tx, report)
	})
}

// FindItemByID finds a single comparison item
func (r *GormReportRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*settlement.ComparisonReportItem, error) {
	var item settlement.ComparisonReportItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// PatchItem applies an item patch through the aggregate inside a single
// transaction. The report is reloaded, the patch applied and the derived
// total recomputed from persisted item state, then committed with a
// version check so racing edits cannot both win.
func (r *GormReportRepository) PatchItem(ctx context.Context, itemID uuid.UUID, patch settlement.ItemPatch) (*settlement.ComparisonReport, error) {
	return r.mutate(ctx, func(tx *gorm.DB) (*settlement.ComparisonReport, error) {
		var item settlement.ComparisonReportItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.ErrNotFound
			}
			return nil, err
		}

		report, err := findReport(tx, item.ReportID)
		if err != nil {
			return nil, err
		}
		if err := report.PatchItem(itemID, patch); err != nil {
			return nil, err
		}
		return report, nil
	})
}

// Sign records a signature through the aggregate inside a single
// transaction. The slot check runs against freshly loaded state and the
// version check rejects a concurrent signer, so a slot is write-once.
func (r *GormReportRepository) Sign(ctx context.Context, reportID uuid.UUID, role settlement.SignerRole, payload string) (*settlement.ComparisonReport, error) {
	return r.mutate(ctx, func(tx *gorm.DB) (*settlement.ComparisonReport, error) {
		report, err := findReport(tx, reportID)
		if err != nil {
			return nil, err
		}
		if err := report.Sign(role, payload, time.Now()); err != nil {
			return nil, err
		}
		return report, nil
	})
}

// ChangeStatus applies an explicit lifecycle change through the aggregate
// inside a single transaction
func (r *GormReportRepository) ChangeStatus(ctx context.Context, reportID uuid.UUID, target settlement.ReportStatus) (*settlement.ComparisonReport, error) {
	return r.mutate(ctx, func(tx *gorm.DB) (*settlement.ComparisonReport, error) {
		report, err := findReport(tx, reportID)
		if err != nil {
			return nil, err
		}
		if err := report.ChangeStatus(target); err != nil {
			return nil, err
		}
		return report, nil
	})
}

// mutate runs a load-modify cycle in a transaction and commits the
// aggregate with an optimistic version check
func (r *GormReportRepository) mutate(ctx context.Context, fn func(tx *gorm.DB) (*settlement.ComparisonReport, error)) (*settlement.ComparisonReport, error) {
	var result *settlement.ComparisonReport
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		report, err := fn(tx)
		if err != nil {
			return err
		}
		if err := saveReportWithVersionCheck(tx, report); err != nil {
			return err
		}
		result = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func findReport(tx *gorm.DB, id uuid.UUID) (*settlement.ComparisonReport, error) {
	var report settlement.ComparisonReport
	if err := tx.Preload("Items", itemOrder).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func saveReport(tx *gorm.DB, report *settlement.ComparisonReport) error {
	if err := tx.Omit("Items").Save(report).Error; err != nil {
		return err
	}
	return saveItems(tx, report)
}

func saveReportWithVersionCheck(tx *gorm.DB, report *settlement.ComparisonReport) error {
	currentVersion := report.Version
	report.IncrementVersion()
	report.UpdatedAt = time.Now()

	result := tx.Model(&settlement.ComparisonReport{}).
		Where("id = ? AND version = ?", report.ID, currentVersion).
		Updates(map[string]interface{}{
			"total_estimated_cost": report.TotalEstimatedCost,
			"status":               report.Status,
			"operator_signature":   report.OperatorSignature,
			"operator_signed_at":   report.OperatorSignedAt,
			"tenant_signature":     report.TenantSignature,
			"tenant_signed_at":     report.TenantSignedAt,
			"filed_at":             report.FiledAt,
			"version":              report.Version,
			"updated_at":           report.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The report has been modified by another user")
	}

	return saveItems(tx, report)
}

func saveItems(tx *gorm.DB, report *settlement.ComparisonReport) error {
	for i := range report.Items {
		report.Items[i].ReportID = report.ID
		if err := tx.Save(&report.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormReportRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		// Default ordering
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReportRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "check_in_id":
			query = query.Where("check_in_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "created_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "created_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}
