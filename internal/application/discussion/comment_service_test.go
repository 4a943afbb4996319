package discussion

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tenancy/backend/internal/domain/discussion"
	"github.com/tenancy/backend/internal/domain/settlement"
	"github.com/tenancy/backend/internal/domain/shared"
)

// MockCommentRepository is a mock implementation of discussion.Repository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *discussion.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByReport(ctx context.Context, reportID uuid.UUID, internalVisible bool) ([]discussion.Comment, error) {
	args := m.Called(ctx, reportID, internalVisible)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discussion.Comment), args.Error(1)
}

// MockReportRepository stubs the report lookup used for existence checks
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.ComparisonReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ComparisonReport), args.Error(1)
}

func (m *MockReportRepository) FindByCheckOut(ctx context.Context, checkOutID uuid.UUID) (*settlement.ComparisonReport, error) {
	args := m.Called(ctx, checkOutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ComparisonReport), args.Error(1)
}

func (m *MockReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settlement.ComparisonReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.ComparisonReport), args.Error(1)
}

func (m *MockReportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) Save(ctx context.Context, report *settlement.ComparisonReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*settlement.ComparisonReportItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ComparisonReportItem), args.Error(1)
}

func (m *MockReportRepository) PatchItem(ctx context.Context, itemID uuid.UUID, patch settlement.ItemPatch) (*settlement.ComparisonReport, error) {
	args := m.Called(ctx, itemID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ComparisonReport), args.Error(1)
}

func (m *MockReportRepository) Sign(ctx context.Context, reportID uuid.UUID, role settlement.SignerRole, payload string) (*settlement.ComparisonReport, error) {
	args := m.Called(ctx, reportID, role, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ComparisonReport), args.Error(1)
}

func (m *MockReportRepository) ChangeStatus(ctx context.Context, reportID uuid.UUID, target settlement.ReportStatus) (*settlement.ComparisonReport, error) {
	args := m.Called(ctx, reportID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ComparisonReport), args.Error(1)
}

func newTestReport(t *testing.T) *settlement.ComparisonReport {
	t.Helper()
	report, err := settlement.NewComparisonReport(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return report
}

func TestCommentService_Add(t *testing.T) {
	t.Run("appends a comment to an existing report", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		reportRepo := new(MockReportRepository)
		service := NewCommentService(commentRepo, reportRepo)
		report := newTestReport(t)
		userID := uuid.New()

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		commentRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *discussion.Comment) bool {
			return c.ReportID == report.ID && c.Content == "tenant disputes the carpet charge"
		})).Return(nil)

		resp, err := service.Add(context.Background(), report.ID, userID, discussion.AuthorTenant, CreateCommentRequest{
			Content: "  tenant disputes the carpet charge  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "tenant", resp.AuthorRole)
		assert.False(t, resp.IsInternal)
		commentRepo.AssertExpectations(t)
	})

	t.Run("unknown report fails before save", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		reportRepo := new(MockReportRepository)
		service := NewCommentService(commentRepo, reportRepo)
		reportID := uuid.New()

		reportRepo.On("FindByID", mock.Anything, reportID).Return(nil, shared.ErrNotFound)

		_, err := service.Add(context.Background(), reportID, uuid.New(), discussion.AuthorOperator, CreateCommentRequest{Content: "hello"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		commentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("tenant cannot create an internal comment", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		reportRepo := new(MockReportRepository)
		service := NewCommentService(commentRepo, reportRepo)
		report := newTestReport(t)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)

		_, err := service.Add(context.Background(), report.ID, uuid.New(), discussion.AuthorTenant, CreateCommentRequest{
			Content:    "note to self",
			IsInternal: true,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
		commentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCommentService_List(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reportRepo := new(MockReportRepository)
	service := NewCommentService(commentRepo, reportRepo)
	report := newTestReport(t)

	public, err := discussion.NewComment(report.ID, uuid.New(), discussion.AuthorTenant, "visible to all", false)
	require.NoError(t, err)

	reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
	// Tenant viewers never see internal comments; the repository filter
	// carries the visibility flag.
	commentRepo.On("FindByReport", mock.Anything, report.ID, false).Return([]discussion.Comment{*public}, nil)

	resp, err := service.List(context.Background(), report.ID, discussion.AuthorTenant)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "visible to all", resp.Comments[0].Content)
	commentRepo.AssertExpectations(t)
}
