package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
)

// MockDocumentRenderer is a mock implementation of DocumentRenderer
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) RenderReport(ctx context.Context, snapshot *ReportSnapshot) ([]byte, error) {
	args := m.Called(ctx, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockFinanceNotifier is a mock implementation of FinanceNotifier
type MockFinanceNotifier struct {
	mock.Mock
}

func (m *MockFinanceNotifier) SendReport(ctx context.Context, n FinanceNotification) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func newStoredReport(t *testing.T) *settlement.ComparisonReport {
	t.Helper()
	report, err := settlement.NewComparisonReport(
		newGenerateRequest().PropertyID, newGenerateRequest().TenantID,
		newGenerateRequest().CheckInID, newGenerateRequest().CheckOutID)
	require.NoError(t, err)
	return report
}

func TestExportService_RenderPDF(t *testing.T) {
	t.Run("renders the persisted snapshot", func(t *testing.T) {
		repo := new(MockReportRepository)
		renderer := new(MockDocumentRenderer)
		service := NewExportService(repo, renderer, new(MockFinanceNotifier))
		report := newStoredReport(t)

		repo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		renderer.On("RenderReport", mock.Anything, mock.MatchedBy(func(snapshot *ReportSnapshot) bool {
			return snapshot.Report.ID == report.ID
		})).Return([]byte("%PDF-1.4"), nil)

		pdf, err := service.RenderPDF(context.Background(), report.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), pdf)
	})

	t.Run("renderer failure surfaces as upstream error", func(t *testing.T) {
		repo := new(MockReportRepository)
		renderer := new(MockDocumentRenderer)
		service := NewExportService(repo, renderer, new(MockFinanceNotifier))
		report := newStoredReport(t)

		repo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		renderer.On("RenderReport", mock.Anything, mock.Anything).Return(nil, errors.New("chrome not reachable"))

		_, err := service.RenderPDF(context.Background(), report.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UPSTREAM_FAILURE", domainErr.Code)
	})
}

func TestExportService_SendToFinance(t *testing.T) {
	t.Run("delivers with attachment when requested", func(t *testing.T) {
		repo := new(MockReportRepository)
		renderer := new(MockDocumentRenderer)
		notifier := new(MockFinanceNotifier)
		service := NewExportService(repo, renderer, notifier)
		report := newStoredReport(t)

		repo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		renderer.On("RenderReport", mock.Anything, mock.Anything).Return([]byte("%PDF-1.4"), nil)
		notifier.On("SendReport", mock.Anything, mock.MatchedBy(func(n FinanceNotification) bool {
			return len(n.Attachment) > 0 && n.Snapshot.Report.ID == report.ID
		})).Return("queued for finance", nil)

		message, err := service.SendToFinance(context.Background(), report.ID, SendToFinanceRequest{AttachPDF: true})
		require.NoError(t, err)
		assert.Equal(t, "queued for finance", message)
	})

	t.Run("skips rendering without attachment", func(t *testing.T) {
		repo := new(MockReportRepository)
		renderer := new(MockDocumentRenderer)
		notifier := new(MockFinanceNotifier)
		service := NewExportService(repo, renderer, notifier)
		report := newStoredReport(t)

		repo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		notifier.On("SendReport", mock.Anything, mock.Anything).Return("queued for finance", nil)

		_, err := service.SendToFinance(context.Background(), report.ID, SendToFinanceRequest{})
		require.NoError(t, err)
		renderer.AssertNotCalled(t, "RenderReport", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure surfaces as upstream error", func(t *testing.T) {
		repo := new(MockReportRepository)
		notifier := new(MockFinanceNotifier)
		service := NewExportService(repo, new(MockDocumentRenderer), notifier)
		report := newStoredReport(t)

		repo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		notifier.On("SendReport", mock.Anything, mock.Anything).Return("", errors.New("smtp timeout"))

		_, err := service.SendToFinance(context.Background(), report.ID, SendToFinanceRequest{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UPSTREAM_FAILURE", domainErr.Code)
	})
}
