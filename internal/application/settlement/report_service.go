package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
)

// ReportService handles comparison report business operations
type ReportService struct {
	reportRepo     settlement.ReportRepository
	inspections    InspectionService
	eventPublisher shared.EventPublisher
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo settlement.ReportRepository, inspections InspectionService) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		inspections: inspections,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Generate creates a comparison report from a matched check-in/check-out
// inspection pair. Each pair yields at most one report; a second request
// for the same check-out is rejected.
func (s *ReportService) Generate(ctx context.Context, req GenerateReportRequest) (*ReportResponse, error) {
	existing, err := s.reportRepo.FindByCheckOut(ctx, req.CheckOutID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("REPORT_EXISTS",
			fmt.Sprintf("A comparison report already exists for check-out %s", req.CheckOutID))
	}

	entries, err := s.inspections.FetchFlaggedEntries(ctx, req.CheckInID, req.CheckOutID)
	if err != nil {
		return nil, shared.NewDomainError("UPSTREAM_FAILURE",
			fmt.Sprintf("Failed to fetch inspection entries: %v", err))
	}

	report, err := settlement.NewComparisonReport(req.PropertyID, req.TenantID, req.CheckInID, req.CheckOutID)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		_, err := report.AddItem(
			entry.SectionRef,
			entry.FieldKey,
			entry.ItemRef,
			entry.CheckInEntryID,
			entry.CheckOutEntryID,
			entry.Data,
			settlement.AmountOrZero(entry.EstimatedCost),
			settlement.AmountOrZero(entry.Depreciation),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, report)

	return toReportResponse(report, true), nil
}

// GetByID returns a report with its items
func (s *ReportService) GetByID(ctx context.Context, id uuid.UUID) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReportResponse(report, true), nil
}

// List returns reports matching the query, without item payloads
func (s *ReportService) List(ctx context.Context, query ListReportsQuery) (*ReportListResponse, error) {
	filter := query.Filter
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	if query.PropertyID != nil {
		filter.Filters["property_id"] = *query.PropertyID
	}
	if query.TenantID != nil {
		filter.Filters["tenant_id"] = *query.TenantID
	}
	if query.Status != nil {
		status := settlement.ReportStatus(*query.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS",
				fmt.Sprintf("%q is not a valid report status", *query.Status))
		}
		filter.Filters["status"] = status.String()
	}

	reports, err := s.reportRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.reportRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, *toReportResponse(&reports[i], false))
	}
	return &ReportListResponse{
		Reports:  responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ChangeStatus moves a report along its lifecycle
func (s *ReportService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*ReportResponse, error) {
	target := settlement.ReportStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("%q is not a valid report status", req.Status))
	}

	report, err := s.reportRepo.ChangeStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, report)

	return toReportResponse(report, true), nil
}

// PatchItem applies a partial review to a report item and returns the
// refreshed parent report, its total recomputed from persisted items.
func (s *ReportService) PatchItem(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*ReportResponse, error) {
	patch, err := buildItemPatch(req)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_PATCH", "Update contains no changes")
	}

	report, err := s.reportRepo.PatchItem(ctx, itemID, patch)
	if err != nil {
		return nil, err
	}
	return toReportResponse(report, true), nil
}

// Sign records a signature for the given role
func (s *ReportService) Sign(ctx context.Context, id uuid.UUID, role settlement.SignerRole, req SignRequest) (*ReportResponse, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE",
			fmt.Sprintf("%q is not a valid signer role", role))
	}

	report, err := s.reportRepo.Sign(ctx, id, role, req.Signature)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, report)

	return toReportResponse(report, true), nil
}

func (s *ReportService) publishEvents(ctx context.Context, report *settlement.ComparisonReport) {
	if s.eventPublisher == nil {
		return
	}
	events := report.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Event delivery is best-effort; the state change already committed.
	_ = s.eventPublisher.Publish(ctx, events...)
	report.ClearDomainEvents()
}

func buildItemPatch(req UpdateItemRequest) (settlement.ItemPatch, error) {
	var patch settlement.ItemPatch

	if req.Status != nil {
		status := settlement.ItemStatus(*req.Status)
		patch.Status = &status
	}
	if req.Liability != nil {
		liability := settlement.LiabilityDecision(*req.Liability)
		patch.Liability = &liability
	}
	if req.EstimatedCost != nil {
		amount, err := parseAmount(*req.EstimatedCost, "estimated cost")
		if err != nil {
			return settlement.ItemPatch{}, err
		}
		patch.EstimatedCost = &amount
	}
	if req.Depreciation != nil {
		amount, err := parseAmount(*req.Depreciation, "depreciation")
		if err != nil {
			return settlement.ItemPatch{}, err
		}
		patch.Depreciation = &amount
	}
	if req.FinalCost != nil {
		amount, err := parseAmount(*req.FinalCost, "final cost")
		if err != nil {
			return settlement.ItemPatch{}, err
		}
		patch.FinalCost = &amount
	}
	patch.DamageNote = req.DamageNote

	return patch, nil
}

// parseAmount parses an explicit API amount. Unlike the lenient parsing
// of upstream inspection figures, malformed input here is an error.
func parseAmount(s, field string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Invalid %s %q", field, s))
	}
	return amount, nil
}
