package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tenancy/backend/internal/domain/shared"
)

// ReportStatus represents the lifecycle status of a comparison report
type ReportStatus string

const (
	ReportStatusDraft              ReportStatus = "draft"
	ReportStatusUnderReview        ReportStatus = "under_review"
	ReportStatusAwaitingSignatures ReportStatus = "awaiting_signatures"
	ReportStatusSigned             ReportStatus = "signed"
	ReportStatusFiled              ReportStatus = "filed"
)

// IsValid checks if the status is a valid ReportStatus
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusUnderReview, ReportStatusAwaitingSignatures, ReportStatusSigned, ReportStatusFiled:
		return true
	}
	return false
}

// String returns the string representation of ReportStatus
func (s ReportStatus) String() string {
	return string(s)
}

// rank orders the lifecycle for forward-only transition checks
func (s ReportStatus) rank() int {
	switch s {
	case ReportStatusDraft:
		return 0
	case ReportStatusUnderReview:
		return 1
	case ReportStatusAwaitingSignatures:
		return 2
	case ReportStatusSigned:
		return 3
	case ReportStatusFiled:
		return 4
	}
	return -1
}

// CanTransitionTo checks if the status can move to the target status.
// The lifecycle is ordered but not strictly linear: forward jumps within
// the editable states are allowed. `signed` is only ever reached
// automatically when both signatures are present, and `filed` only from
// `signed`.
func (s ReportStatus) CanTransitionTo(target ReportStatus) bool {
	if !target.IsValid() || target.rank() <= s.rank() {
		return false
	}
	switch target {
	case ReportStatusUnderReview, ReportStatusAwaitingSignatures:
		return s == ReportStatusDraft || s == ReportStatusUnderReview
	case ReportStatusSigned:
		return s == ReportStatusAwaitingSignatures
	case ReportStatusFiled:
		return s == ReportStatusSigned
	}
	return false
}

// SignerRole identifies which signature slot a caller occupies
type SignerRole string

const (
	SignerOperator SignerRole = "operator"
	SignerTenant   SignerRole = "tenant"
)

// IsValid checks if the role is a valid SignerRole
func (r SignerRole) IsValid() bool {
	return r == SignerOperator || r == SignerTenant
}

// ComparisonReport is the aggregate root for end-of-tenancy liability
// resolution: one report per property/tenancy pair, built from a matched
// check-in/check-out inspection pair.
type ComparisonReport struct {
	shared.BaseAggregateRoot
	PropertyID         uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID           uuid.UUID `gorm:"type:uuid;not null;index"`
	CheckInID          uuid.UUID `gorm:"type:uuid;not null"`
	CheckOutID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Items              []ComparisonReportItem `gorm:"foreignKey:ReportID"`
	TotalEstimatedCost decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Status             ReportStatus           `gorm:"size:30;not null"`
	OperatorSignature  *string                `gorm:"type:text"`
	OperatorSignedAt   *time.Time
	TenantSignature    *string `gorm:"type:text"`
	TenantSignedAt     *time.Time
	FiledAt            *time.Time
}

// TableName returns the table name for GORM
func (ComparisonReport) TableName() string {
	return "comparison_reports"
}

// NewComparisonReport creates a new comparison report in draft status
func NewComparisonReport(propertyID, tenantID, checkInID, checkOutID uuid.UUID) (*ComparisonReport, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if checkInID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CHECKIN", "Check-in inspection ID cannot be empty")
	}
	if checkOutID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CHECKOUT", "Check-out inspection ID cannot be empty")
	}

	report := &ComparisonReport{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		PropertyID:         propertyID,
		TenantID:           tenantID,
		CheckInID:          checkInID,
		CheckOutID:         checkOutID,
		Items:              make([]ComparisonReportItem, 0),
		TotalEstimatedCost: decimal.Zero,
		Status:             ReportStatusDraft,
	}

	report.AddDomainEvent(NewReportGeneratedEvent(report))

	return report, nil
}

// CanModify returns true while items, costs and signatures are editable
func (r *ComparisonReport) CanModify() bool {
	switch r.Status {
	case ReportStatusDraft, ReportStatusUnderReview, ReportStatusAwaitingSignatures:
		return true
	}
	return false
}

// IsSigned returns true once both parties have signed
func (r *ComparisonReport) IsSigned() bool {
	return r.OperatorSignature != nil && r.TenantSignature != nil
}

// IsFiled returns true if the report reached its terminal state
func (r *ComparisonReport) IsFiled() bool {
	return r.Status == ReportStatusFiled
}

// AddItem appends a comparison item built from a flagged inspection field
func (r *ComparisonReport) AddItem(sectionRef, fieldKey, itemRef string, checkInEntryID *uuid.UUID, checkOutEntryID uuid.UUID, data ComparisonData, estimatedCost, depreciation decimal.Decimal) (*ComparisonReportItem, error) {
	if !r.CanModify() {
		return nil, shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Cannot add items to a %s report", r.Status))
	}

	item, err := NewComparisonReportItem(r.ID, sectionRef, fieldKey, itemRef, checkInEntryID, checkOutEntryID, data, estimatedCost, depreciation, len(r.Items))
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.RecalculateTotal()
	r.UpdatedAt = time.Now()

	return item, nil
}

// PatchItem applies a partial update to an item and refreshes the total
func (r *ComparisonReport) PatchItem(itemID uuid.UUID, patch ItemPatch) error {
	if !r.CanModify() {
		return shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Cannot edit items of a %s report", r.Status))
	}

	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			if err := r.Items[idx].Apply(patch); err != nil {
				return err
			}
			r.RecalculateTotal()
			r.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Comparison item not found")
}

// ChangeStatus performs an explicit operator-initiated lifecycle change.
// `signed` is rejected here because it is only reached automatically.
func (r *ComparisonReport) ChangeStatus(target ReportStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("%q is not a valid report status", target))
	}
	if target == ReportStatusSigned {
		return shared.NewDomainError("INVALID_STATE", "Report becomes signed automatically once both parties have signed")
	}
	if !r.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move report from %s to %s", r.Status, target))
	}

	now := time.Now()
	r.Status = target
	if target == ReportStatusFiled {
		r.FiledAt = &now
		r.AddDomainEvent(NewReportFiledEvent(r))
	}
	r.UpdatedAt = now

	return nil
}

// Sign records a signature in the slot matching the signer role.
// Operator signing requires an editable post-draft report; tenant signing
// requires the operator to have signed first. Slots are write-once.
func (r *ComparisonReport) Sign(role SignerRole, payload string, signedAt time.Time) error {
	if payload == "" {
		return shared.NewDomainError("INVALID_SIGNATURE", "Signature payload cannot be empty")
	}
	if r.Status == ReportStatusSigned || r.Status == ReportStatusFiled {
		return shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Cannot sign a %s report", r.Status))
	}

	switch role {
	case SignerOperator:
		if r.Status != ReportStatusUnderReview && r.Status != ReportStatusAwaitingSignatures {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Operator cannot sign a %s report", r.Status))
		}
		if r.OperatorSignature != nil {
			return shared.NewDomainError("CONFLICT", "Operator signature slot is already occupied")
		}
		r.OperatorSignature = &payload
		r.OperatorSignedAt = &signedAt
	case SignerTenant:
		if r.OperatorSignature == nil {
			return shared.NewDomainError("FORBIDDEN", "Tenant cannot sign before the operator has signed")
		}
		if r.TenantSignature != nil {
			return shared.NewDomainError("CONFLICT", "Tenant signature slot is already occupied")
		}
		r.TenantSignature = &payload
		r.TenantSignedAt = &signedAt
	default:
		return shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("%q is not a valid signer role", role))
	}

	if r.IsSigned() {
		r.Status = ReportStatusSigned
		r.AddDomainEvent(NewReportSignedEvent(r))
	}
	r.UpdatedAt = time.Now()

	return nil
}

// RecalculateTotal recomputes the derived total from the current items.
// The total is never accepted from callers.
func (r *ComparisonReport) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.FinalCost)
	}
	r.TotalEstimatedCost = total.Round(CostScale)
}

// GetItem returns an item by its ID
func (r *ComparisonReport) GetItem(itemID uuid.UUID) *ComparisonReportItem {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return &r.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of comparison items
func (r *ComparisonReport) ItemCount() int {
	return len(r.Items)
}
