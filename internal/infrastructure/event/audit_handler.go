package event

import (
	"context"

	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportAuditHandler writes an audit log line for every report lifecycle
// event. It subscribes to the generated/signed/filed events and is the
// default consumer wired at startup.
type ReportAuditHandler struct {
	logger *zap.Logger
}

// NewReportAuditHandler creates a new ReportAuditHandler
func NewReportAuditHandler(logger *zap.Logger) *ReportAuditHandler {
	return &ReportAuditHandler{logger: logger}
}

// EventTypes returns the report lifecycle event types
func (h *ReportAuditHandler) EventTypes() []string {
	return []string{
		settlement.EventTypeReportGenerated,
		settlement.EventTypeReportSigned,
		settlement.EventTypeReportFiled,
	}
}

// Handle logs the lifecycle event
func (h *ReportAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *settlement.ReportGeneratedEvent:
		fields = append(fields,
			zap.String("property_id", e.PropertyID.String()),
			zap.String("check_out_id", e.CheckOutID.String()),
		)
	case *settlement.ReportSignedEvent:
		fields = append(fields,
			zap.String("total", e.TotalEstimatedCost.StringFixed(settlement.CostScale)),
		)
	case *settlement.ReportFiledEvent:
		fields = append(fields,
			zap.String("total", e.TotalEstimatedCost.StringFixed(settlement.CostScale)),
		)
	}

	h.logger.Info("report lifecycle event", fields...)
	return nil
}

// Ensure ReportAuditHandler implements EventHandler
var _ shared.EventHandler = (*ReportAuditHandler)(nil)
