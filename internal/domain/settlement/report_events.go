package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tenancy/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeComparisonReport = "ComparisonReport"

// Event type constants
const (
	EventTypeReportGenerated = "ComparisonReportGenerated"
	EventTypeReportSigned    = "ComparisonReportSigned"
	EventTypeReportFiled     = "ComparisonReportFiled"
)

// ReportGeneratedEvent is raised when a comparison report is generated
// from a matched check-in/check-out inspection pair
type ReportGeneratedEvent struct {
	shared.BaseDomainEvent
	ReportID   uuid.UUID `json:"report_id"`
	PropertyID uuid.UUID `json:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	CheckInID  uuid.UUID `json:"check_in_id"`
	CheckOutID uuid.UUID `json:"check_out_id"`
}

// NewReportGeneratedEvent creates a new ReportGeneratedEvent
func NewReportGeneratedEvent(report *ComparisonReport) *ReportGeneratedEvent {
	return &ReportGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportGenerated, AggregateTypeComparisonReport, report.ID),
		ReportID:        report.ID,
		PropertyID:      report.PropertyID,
		TenantID:        report.TenantID,
		CheckInID:       report.CheckInID,
		CheckOutID:      report.CheckOutID,
	}
}

// EventType returns the event type name
func (e *ReportGeneratedEvent) EventType() string {
	return EventTypeReportGenerated
}

// ReportSignedEvent is raised once both signature slots are occupied and
// the report auto-transitions to signed
type ReportSignedEvent struct {
	shared.BaseDomainEvent
	ReportID           uuid.UUID       `json:"report_id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
	OperatorSignedAt   *time.Time      `json:"operator_signed_at,omitempty"`
	TenantSignedAt     *time.Time      `json:"tenant_signed_at,omitempty"`
}

// NewReportSignedEvent creates a new ReportSignedEvent
func NewReportSignedEvent(report *ComparisonReport) *ReportSignedEvent {
	return &ReportSignedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeReportSigned, AggregateTypeComparisonReport, report.ID),
		ReportID:           report.ID,
		PropertyID:         report.PropertyID,
		TenantID:           report.TenantID,
		TotalEstimatedCost: report.TotalEstimatedCost,
		OperatorSignedAt:   report.OperatorSignedAt,
		TenantSignedAt:     report.TenantSignedAt,
	}
}

// EventType returns the event type name
func (e *ReportSignedEvent) EventType() string {
	return EventTypeReportSigned
}

// ReportFiledEvent is raised when an operator files a signed report
type ReportFiledEvent struct {
	shared.BaseDomainEvent
	ReportID           uuid.UUID       `json:"report_id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
}

// NewReportFiledEvent creates a new ReportFiledEvent
func NewReportFiledEvent(report *ComparisonReport) *ReportFiledEvent {
	return &ReportFiledEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeReportFiled, AggregateTypeComparisonReport, report.ID),
		ReportID:           report.ID,
		PropertyID:         report.PropertyID,
		TenantID:           report.TenantID,
		TotalEstimatedCost: report.TotalEstimatedCost,
	}
}

// EventType returns the event type name
func (e *ReportFiledEvent) EventType() string {
	return EventTypeReportFiled
}
