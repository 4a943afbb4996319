package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
)

// GenerateReportRequest creates a comparison report from a matched
// inspection pair.
type GenerateReportRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	TenantID   uuid.UUID `json:"tenant_id" binding:"required"`
	CheckInID  uuid.UUID `json:"check_in_id" binding:"required"`
	CheckOutID uuid.UUID `json:"check_out_id" binding:"required"`
}

// UpdateItemRequest carries a partial item review. Absent fields are
// left untouched; cost figures are decimal strings.
type UpdateItemRequest struct {
	EstimatedCost *string `json:"estimated_cost"`
	Depreciation  *string `json:"depreciation"`
	FinalCost     *string `json:"final_cost"`
	Liability     *string `json:"liability"`
	Status        *string `json:"status"`
	DamageNote    *string `json:"damage_note"`
}

// ChangeStatusRequest moves a report along its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SignRequest records a signature for the caller's role.
type SignRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// SendToFinanceRequest controls finance delivery.
type SendToFinanceRequest struct {
	AttachPDF bool `json:"attach_pdf"`
}

// ListReportsQuery filters the report listing.
type ListReportsQuery struct {
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	Status     *string
	Filter     shared.Filter
}

// ComparisonDataResponse mirrors the stored side-by-side evidence.
type ComparisonDataResponse struct {
	CheckInPhotos   []string `json:"check_in_photos"`
	CheckOutPhotos  []string `json:"check_out_photos"`
	CheckInNote     string   `json:"check_in_note"`
	CheckOutNote    string   `json:"check_out_note"`
	NotesComparison string   `json:"notes_comparison"`
	AISummary       string   `json:"ai_summary,omitempty"`
	DamageNote      string   `json:"damage_note,omitempty"`
}

// ItemResponse is the API shape of a report item. Money fields are
// fixed two-decimal strings.
type ItemResponse struct {
	ID                  uuid.UUID              `json:"id"`
	ReportID            uuid.UUID              `json:"report_id"`
	SectionRef          string                 `json:"section_ref"`
	FieldKey            string                 `json:"field_key"`
	ItemRef             string                 `json:"item_ref,omitempty"`
	CheckInEntryID      *uuid.UUID             `json:"check_in_entry_id,omitempty"`
	CheckOutEntryID     uuid.UUID              `json:"check_out_entry_id"`
	Comparison          ComparisonDataResponse `json:"comparison"`
	EstimatedCost       string                 `json:"estimated_cost"`
	Depreciation        string                 `json:"depreciation"`
	FinalCost           string                 `json:"final_cost"`
	FinalCostOverridden bool                   `json:"final_cost_overridden"`
	Liability           string                 `json:"liability"`
	Status              string                 `json:"status"`
	Position            int                    `json:"position"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// ReportResponse is the API shape of a comparison report.
type ReportResponse struct {
	ID                 uuid.UUID      `json:"id"`
	PropertyID         uuid.UUID      `json:"property_id"`
	TenantID           uuid.UUID      `json:"tenant_id"`
	CheckInID          uuid.UUID      `json:"check_in_id"`
	CheckOutID         uuid.UUID      `json:"check_out_id"`
	Status             string         `json:"status"`
	TotalEstimatedCost string         `json:"total_estimated_cost"`
	OperatorSignature  string         `json:"operator_signature,omitempty"`
	OperatorSignedAt   *time.Time     `json:"operator_signed_at,omitempty"`
	TenantSignature    string         `json:"tenant_signature,omitempty"`
	TenantSignedAt     *time.Time     `json:"tenant_signed_at,omitempty"`
	FiledAt            *time.Time     `json:"filed_at,omitempty"`
	Items              []ItemResponse `json:"items,omitempty"`
	ItemCount          int            `json:"item_count"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// ReportListResponse is a paginated report listing.
type ReportListResponse struct {
	Reports  []ReportResponse `json:"reports"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ReportSnapshot is the immutable view handed to the renderer and the
// finance notifier. It is assembled from persisted state only.
type ReportSnapshot struct {
	Report      ReportResponse `json:"report"`
	GeneratedAt time.Time      `json:"generated_at"`
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toItemResponse(item *settlement.ComparisonReportItem) ItemResponse {
	return ItemResponse{
		ID:                  item.ID,
		ReportID:            item.ReportID,
		SectionRef:          item.SectionRef,
		FieldKey:            item.FieldKey,
		ItemRef:             item.ItemRef,
		CheckInEntryID:      item.CheckInEntryID,
		CheckOutEntryID:     item.CheckOutEntryID,
		Comparison:          toComparisonDataResponse(item.Comparison),
		EstimatedCost:       item.EstimatedCost.StringFixed(settlement.CostScale),
		Depreciation:        item.Depreciation.StringFixed(settlement.CostScale),
		FinalCost:           item.FinalCost.StringFixed(settlement.CostScale),
		FinalCostOverridden: item.FinalCostOverridden,
		Liability:           string(item.Liability),
		Status:              string(item.Status),
		Position:            item.Position,
		UpdatedAt:           item.UpdatedAt,
	}
}

func toComparisonDataResponse(data settlement.ComparisonData) ComparisonDataResponse {
	return ComparisonDataResponse{
		CheckInPhotos:   data.CheckInPhotos,
		CheckOutPhotos:  data.CheckOutPhotos,
		CheckInNote:     data.CheckInNote,
		CheckOutNote:    data.CheckOutNote,
		NotesComparison: data.NotesComparison,
		AISummary:       data.AISummary,
		DamageNote:      data.DamageNote,
	}
}

func toReportResponse(report *settlement.ComparisonReport, withItems bool) *ReportResponse {
	resp := &ReportResponse{
		ID:                 report.ID,
		PropertyID:         report.PropertyID,
		TenantID:           report.TenantID,
		CheckInID:          report.CheckInID,
		CheckOutID:         report.CheckOutID,
		Status:             string(report.Status),
		TotalEstimatedCost: report.TotalEstimatedCost.StringFixed(settlement.CostScale),
		OperatorSignature:  stringOrEmpty(report.OperatorSignature),
		OperatorSignedAt:   report.OperatorSignedAt,
		TenantSignature:    stringOrEmpty(report.TenantSignature),
		TenantSignedAt:     report.TenantSignedAt,
		FiledAt:            report.FiledAt,
		ItemCount:          report.ItemCount(),
		CreatedAt:          report.CreatedAt,
		UpdatedAt:          report.UpdatedAt,
	}
	if withItems {
		resp.Items = make([]ItemResponse, 0, len(report.Items))
		for i := range report.Items {
			resp.Items = append(resp.Items, toItemResponse(&report.Items[i]))
		}
	}
	return resp
}
