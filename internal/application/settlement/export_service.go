package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
)

// ExportService assembles report snapshots and drives the document and
// notification gateways. Gateway failures surface as upstream errors;
// any state change committed before the gateway call stands.
type ExportService struct {
	reportRepo settlement.ReportRepository
	renderer   DocumentRenderer
	notifier   FinanceNotifier
}

// NewExportService creates a new ExportService
func NewExportService(reportRepo settlement.ReportRepository, renderer DocumentRenderer, notifier FinanceNotifier) *ExportService {
	return &ExportService{
		reportRepo: reportRepo,
		renderer:   renderer,
		notifier:   notifier,
	}
}

// Snapshot builds the immutable report view handed to the gateways.
// It is assembled from persisted state only.
func (s *ExportService) Snapshot(ctx context.Context, id uuid.UUID) (*ReportSnapshot, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReportSnapshot{
		Report:      *toReportResponse(report, true),
		GeneratedAt: time.Now(),
	}, nil
}

// RenderPDF renders the report as a PDF document
func (s *ExportService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	snapshot, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderReport(ctx, snapshot)
	if err != nil {
		return nil, shared.NewDomainError("UPSTREAM_FAILURE",
			fmt.Sprintf("Failed to render report document: %v", err))
	}
	return pdf, nil
}

// SendToFinance delivers the report to the finance mailbox, optionally
// with a rendered PDF attached. Returns the delivery message.
func (s *ExportService) SendToFinance(ctx context.Context, id uuid.UUID, req SendToFinanceRequest) (string, error) {
	snapshot, err := s.Snapshot(ctx, id)
	if err != nil {
		return "", err
	}

	notification := FinanceNotification{Snapshot: snapshot}
	if req.AttachPDF {
		pdf, err := s.renderer.RenderReport(ctx, snapshot)
		if err != nil {
			return "", shared.NewDomainError("UPSTREAM_FAILURE",
				fmt.Sprintf("Failed to render report document: %v", err))
		}
		notification.Attachment = pdf
	}

	message, err := s.notifier.SendReport(ctx, notification)
	if err != nil {
		return "", shared.NewDomainError("UPSTREAM_FAILURE",
			fmt.Sprintf("Failed to notify finance: %v", err))
	}
	return message, nil
}
