package settlement

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tenancy/backend/internal/domain/shared"
)

// ItemStatus represents the review status of a comparison item
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusReviewed ItemStatus = "reviewed"
	ItemStatusDisputed ItemStatus = "disputed"
	ItemStatusResolved ItemStatus = "resolved"
	ItemStatusWaived   ItemStatus = "waived"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusReviewed, ItemStatusDisputed, ItemStatusResolved, ItemStatusWaived:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// LiabilityDecision identifies which party bears an item's cost
type LiabilityDecision string

const (
	LiabilityTenant   LiabilityDecision = "tenant"
	LiabilityLandlord LiabilityDecision = "landlord"
	LiabilityShared   LiabilityDecision = "shared"
	LiabilityWaived   LiabilityDecision = "waived"
)

// IsValid checks if the decision is a valid LiabilityDecision
func (d LiabilityDecision) IsValid() bool {
	switch d {
	case LiabilityTenant, LiabilityLandlord, LiabilityShared, LiabilityWaived:
		return true
	}
	return false
}

// String returns the string representation of LiabilityDecision
func (d LiabilityDecision) String() string {
	return string(d)
}

// ComparisonData holds the opaque per-field comparison payload: photos and
// notes captured at each inspection phase plus optional AI-generated text.
// The core stores and displays this content; it never generates it.
type ComparisonData struct {
	CheckInPhotos   []string `json:"check_in_photos,omitempty"`
	CheckOutPhotos  []string `json:"check_out_photos,omitempty"`
	CheckInNote     string   `json:"check_in_note,omitempty"`
	CheckOutNote    string   `json:"check_out_note,omitempty"`
	NotesComparison string   `json:"notes_comparison,omitempty"`
	AISummary       string   `json:"ai_summary,omitempty"`
	DamageNote      string   `json:"damage_note,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (d ComparisonData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage
func (d *ComparisonData) Scan(value interface{}) error {
	if value == nil {
		*d = ComparisonData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type for ComparisonData: %T", value)
	}
}

// ComparisonReportItem represents one field-level difference between the
// check-in and check-out inspections of a tenancy. Items exist because a
// check-out entry flagged the field; the matching check-in entry may be
// missing.
type ComparisonReportItem struct {
	shared.BaseEntity
	ReportID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	SectionRef          string     `gorm:"size:100;not null"`
	FieldKey            string     `gorm:"size:100;not null"`
	ItemRef             string     `gorm:"size:100"`
	CheckInEntryID      *uuid.UUID `gorm:"type:uuid"`
	CheckOutEntryID     uuid.UUID  `gorm:"type:uuid;not null"`
	Comparison          ComparisonData  `gorm:"type:jsonb"`
	EstimatedCost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Depreciation        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalCost           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalCostOverridden bool            `gorm:"not null;default:false"`
	Liability           LiabilityDecision `gorm:"size:20;not null"`
	Status              ItemStatus        `gorm:"size:20;not null"`
	Position            int               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ComparisonReportItem) TableName() string {
	return "comparison_report_items"
}

// NewComparisonReportItem creates a comparison item for a flagged field.
// The check-out entry is required; the check-in entry may be absent.
func NewComparisonReportItem(reportID uuid.UUID, sectionRef, fieldKey, itemRef string, checkInEntryID *uuid.UUID, checkOutEntryID uuid.UUID, data ComparisonData, estimatedCost, depreciation decimal.Decimal, position int) (*ComparisonReportItem, error) {
	if reportID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REPORT", "Report ID cannot be empty")
	}
	if sectionRef == "" {
		return nil, shared.NewDomainError("INVALID_SECTION", "Section reference cannot be empty")
	}
	if fieldKey == "" {
		return nil, shared.NewDomainError("INVALID_FIELD", "Field key cannot be empty")
	}
	if checkOutEntryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CHECKOUT_ENTRY", "Check-out entry ID cannot be empty")
	}
	if estimatedCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Estimated cost cannot be negative")
	}
	if depreciation.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DEPRECIATION", "Depreciation cannot be negative")
	}

	return &ComparisonReportItem{
		BaseEntity:      shared.NewBaseEntity(),
		ReportID:        reportID,
		SectionRef:      sectionRef,
		FieldKey:        fieldKey,
		ItemRef:         itemRef,
		CheckInEntryID:  checkInEntryID,
		CheckOutEntryID: checkOutEntryID,
		Comparison:      data,
		EstimatedCost:   estimatedCost.Round(CostScale),
		Depreciation:    depreciation.Round(CostScale),
		FinalCost:       FinalCost(estimatedCost, depreciation),
		Liability:       LiabilityTenant,
		Status:          ItemStatusPending,
		Position:        position,
	}, nil
}

// ItemPatch describes a partial update to a comparison item. Nil fields
// are left untouched.
type ItemPatch struct {
	Status        *ItemStatus
	Liability     *LiabilityDecision
	EstimatedCost *decimal.Decimal
	Depreciation  *decimal.Decimal
	// FinalCost, when set, is a manual operator override and is
	// authoritative until the next estimated/depreciation edit.
	FinalCost  *decimal.Decimal
	DamageNote *string
}

// Apply applies the patch to the item. Cost-field edits recompute the
// final cost and clear any previous override; an explicit FinalCost in
// the same patch wins over the recomputation.
func (i *ComparisonReportItem) Apply(patch ItemPatch) error {
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return shared.NewDomainError("INVALID_ITEM_STATUS", fmt.Sprintf("%q is not a valid item status", *patch.Status))
		}
		i.Status = *patch.Status
	}
	if patch.Liability != nil {
		if !patch.Liability.IsValid() {
			return shared.NewDomainError("INVALID_LIABILITY", fmt.Sprintf("%q is not a valid liability decision", *patch.Liability))
		}
		i.Liability = *patch.Liability
	}

	costEdited := patch.EstimatedCost != nil || patch.Depreciation != nil
	if patch.EstimatedCost != nil {
		if patch.EstimatedCost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Estimated cost cannot be negative")
		}
		i.EstimatedCost = patch.EstimatedCost.Round(CostScale)
	}
	if patch.Depreciation != nil {
		if patch.Depreciation.IsNegative() {
			return shared.NewDomainError("INVALID_DEPRECIATION", "Depreciation cannot be negative")
		}
		i.Depreciation = patch.Depreciation.Round(CostScale)
	}
	if costEdited {
		i.FinalCost = FinalCost(i.EstimatedCost, i.Depreciation)
		i.FinalCostOverridden = false
	}
	if patch.FinalCost != nil {
		if patch.FinalCost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Final cost cannot be negative")
		}
		i.FinalCost = patch.FinalCost.Round(CostScale)
		i.FinalCostOverridden = true
	}

	if patch.DamageNote != nil {
		i.Comparison.DamageNote = *patch.DamageNote
	}

	i.UpdatedAt = time.Now()
	return nil
}

// IsEmpty reports whether the patch contains no changes
func (p ItemPatch) IsEmpty() bool {
	return p.Status == nil && p.Liability == nil && p.EstimatedCost == nil &&
		p.Depreciation == nil && p.FinalCost == nil && p.DamageNote == nil
}
