package settlement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenancy/backend/internal/domain/shared"
)

// Test helpers
func createTestReport(t *testing.T) *ComparisonReport {
	report, err := NewComparisonReport(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return report
}

func addTestItem(t *testing.T, report *ComparisonReport, estimated, depreciation string) *ComparisonReportItem {
	checkInID := uuid.New()
	item, err := report.AddItem("living_room", "walls", "", &checkInID, uuid.New(),
		ComparisonData{CheckOutNote: "scuffed"},
		decimal.RequireFromString(estimated),
		decimal.RequireFromString(depreciation),
	)
	require.NoError(t, err)
	return item
}

// ============================================
// ReportStatus Tests
// ============================================

func TestReportStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  ReportStatus
		isValid bool
	}{
		{ReportStatusDraft, true},
		{ReportStatusUnderReview, true},
		{ReportStatusAwaitingSignatures, true},
		{ReportStatusSigned, true},
		{ReportStatusFiled, true},
		{ReportStatus("open"), false},
		{ReportStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestReportStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     ReportStatus
		to       ReportStatus
		canTrans bool
	}{
		// From draft
		{ReportStatusDraft, ReportStatusUnderReview, true},
		{ReportStatusDraft, ReportStatusAwaitingSignatures, true},
		{ReportStatusDraft, ReportStatusSigned, false},
		{ReportStatusDraft, ReportStatusFiled, false},
		// From under_review
		{ReportStatusUnderReview, ReportStatusAwaitingSignatures, true},
		{ReportStatusUnderReview, ReportStatusDraft, false},
		{ReportStatusUnderReview, ReportStatusSigned, false},
		{ReportStatusUnderReview, ReportStatusFiled, false},
		// From awaiting_signatures
		{ReportStatusAwaitingSignatures, ReportStatusSigned, true},
		{ReportStatusAwaitingSignatures, ReportStatusDraft, false},
		{ReportStatusAwaitingSignatures, ReportStatusUnderReview, false},
		{ReportStatusAwaitingSignatures, ReportStatusFiled, false},
		// From signed
		{ReportStatusSigned, ReportStatusFiled, true},
		{ReportStatusSigned, ReportStatusDraft, false},
		{ReportStatusSigned, ReportStatusAwaitingSignatures, false},
		// From filed (terminal)
		{ReportStatusFiled, ReportStatusDraft, false},
		{ReportStatusFiled, ReportStatusUnderReview, false},
		{ReportStatusFiled, ReportStatusAwaitingSignatures, false},
		{ReportStatusFiled, ReportStatusSigned, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// NewComparisonReport Tests
// ============================================

func TestNewComparisonReport(t *testing.T) {
	propertyID := uuid.New()
	tenantID := uuid.New()

	t.Run("creates report with valid inputs", func(t *testing.T) {
		report, err := NewComparisonReport(propertyID, tenantID, uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NotNil(t, report)

		assert.Equal(t, propertyID, report.PropertyID)
		assert.Equal(t, tenantID, report.TenantID)
		assert.Equal(t, ReportStatusDraft, report.Status)
		assert.Empty(t, report.Items)
		assert.True(t, report.TotalEstimatedCost.IsZero())
		assert.Nil(t, report.OperatorSignature)
		assert.Nil(t, report.TenantSignature)
	})

	t.Run("raises generated event", func(t *testing.T) {
		report := createTestReport(t)
		events := report.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReportGenerated, events[0].EventType())
	})

	t.Run("rejects empty property", func(t *testing.T) {
		_, err := NewComparisonReport(uuid.Nil, tenantID, uuid.New(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects empty check-out", func(t *testing.T) {
		_, err := NewComparisonReport(propertyID, tenantID, uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}

// ============================================
// Item & total Tests
// ============================================

func TestComparisonReport_AddItem(t *testing.T) {
	t.Run("computes final cost and total", func(t *testing.T) {
		report := createTestReport(t)
		addTestItem(t, report, "100.00", "20.00")
		addTestItem(t, report, "50.00", "50.00")

		assert.Equal(t, 2, report.ItemCount())
		assert.True(t, decimal.RequireFromString("80.00").Equal(report.Items[0].FinalCost))
		assert.True(t, report.Items[1].FinalCost.IsZero())
		assert.True(t, decimal.RequireFromString("80.00").Equal(report.TotalEstimatedCost))
	})

	t.Run("assigns creation order positions", func(t *testing.T) {
		report := createTestReport(t)
		addTestItem(t, report, "10", "0")
		addTestItem(t, report, "20", "0")

		assert.Equal(t, 0, report.Items[0].Position)
		assert.Equal(t, 1, report.Items[1].Position)
	})

	t.Run("rejects items on signed report", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusSigned

		_, err := report.AddItem("kitchen", "floor", "", nil, uuid.New(), ComparisonData{}, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})
}

func TestComparisonReport_PatchItem(t *testing.T) {
	t.Run("recomputes final cost and total on cost edit", func(t *testing.T) {
		report := createTestReport(t)
		item := addTestItem(t, report, "100.00", "20.00")

		newEstimate := decimal.RequireFromString("60.00")
		err := report.PatchItem(item.ID, ItemPatch{EstimatedCost: &newEstimate})
		require.NoError(t, err)

		assert.True(t, decimal.RequireFromString("40.00").Equal(report.Items[0].FinalCost))
		assert.True(t, decimal.RequireFromString("40.00").Equal(report.TotalEstimatedCost))
	})

	t.Run("override is authoritative in same patch", func(t *testing.T) {
		report := createTestReport(t)
		item := addTestItem(t, report, "100.00", "20.00")

		newEstimate := decimal.RequireFromString("60.00")
		override := decimal.RequireFromString("55.00")
		err := report.PatchItem(item.ID, ItemPatch{EstimatedCost: &newEstimate, FinalCost: &override})
		require.NoError(t, err)

		assert.True(t, override.Equal(report.Items[0].FinalCost))
		assert.True(t, report.Items[0].FinalCostOverridden)
		assert.True(t, override.Equal(report.TotalEstimatedCost))
	})

	t.Run("cost edit clears earlier override", func(t *testing.T) {
		report := createTestReport(t)
		item := addTestItem(t, report, "100.00", "20.00")

		override := decimal.RequireFromString("55.00")
		require.NoError(t, report.PatchItem(item.ID, ItemPatch{FinalCost: &override}))
		require.True(t, report.Items[0].FinalCostOverridden)

		newDep := decimal.RequireFromString("30.00")
		require.NoError(t, report.PatchItem(item.ID, ItemPatch{Depreciation: &newDep}))

		assert.False(t, report.Items[0].FinalCostOverridden)
		assert.True(t, decimal.RequireFromString("70.00").Equal(report.Items[0].FinalCost))
	})

	t.Run("rejects invalid enum values", func(t *testing.T) {
		report := createTestReport(t)
		item := addTestItem(t, report, "10", "0")

		badStatus := ItemStatus("finished")
		err := report.PatchItem(item.ID, ItemPatch{Status: &badStatus})
		assert.Error(t, err)

		badLiability := LiabilityDecision("insurer")
		err = report.PatchItem(item.ID, ItemPatch{Liability: &badLiability})
		assert.Error(t, err)
	})

	t.Run("rejects edit on filed report", func(t *testing.T) {
		report := createTestReport(t)
		item := addTestItem(t, report, "10", "0")
		report.Status = ReportStatusFiled

		status := ItemStatusReviewed
		err := report.PatchItem(item.ID, ItemPatch{Status: &status})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		report := createTestReport(t)
		status := ItemStatusReviewed

		err := report.PatchItem(uuid.New(), ItemPatch{Status: &status})
		assert.Error(t, err)
	})
}

// ============================================
// Status change Tests
// ============================================

func TestComparisonReport_ChangeStatus(t *testing.T) {
	t.Run("forward transition", func(t *testing.T) {
		report := createTestReport(t)

		require.NoError(t, report.ChangeStatus(ReportStatusUnderReview))
		assert.Equal(t, ReportStatusUnderReview, report.Status)

		require.NoError(t, report.ChangeStatus(ReportStatusAwaitingSignatures))
		assert.Equal(t, ReportStatusAwaitingSignatures, report.Status)
	})

	t.Run("skipping under_review is allowed", func(t *testing.T) {
		report := createTestReport(t)
		require.NoError(t, report.ChangeStatus(ReportStatusAwaitingSignatures))
	})

	t.Run("rejects manual signed", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusAwaitingSignatures

		err := report.ChangeStatus(ReportStatusSigned)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejects backward transition", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusAwaitingSignatures

		assert.Error(t, report.ChangeStatus(ReportStatusDraft))
	})

	t.Run("filing requires signed", func(t *testing.T) {
		report := createTestReport(t)
		assert.Error(t, report.ChangeStatus(ReportStatusFiled))

		report.Status = ReportStatusSigned
		require.NoError(t, report.ChangeStatus(ReportStatusFiled))
		assert.Equal(t, ReportStatusFiled, report.Status)
		assert.NotNil(t, report.FiledAt)
	})
}

// ============================================
// Signature Tests
// ============================================

func TestComparisonReport_Sign(t *testing.T) {
	now := time.Now()

	t.Run("operator then tenant auto-signs report", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusAwaitingSignatures

		require.NoError(t, report.Sign(SignerOperator, "op-sig", now))
		assert.Equal(t, ReportStatusAwaitingSignatures, report.Status)
		assert.NotNil(t, report.OperatorSignature)
		assert.NotNil(t, report.OperatorSignedAt)

		require.NoError(t, report.Sign(SignerTenant, "tenant-sig", now))
		assert.Equal(t, ReportStatusSigned, report.Status)
		assert.NotNil(t, report.TenantSignature)
	})

	t.Run("tenant cannot sign first", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusAwaitingSignatures

		err := report.Sign(SignerTenant, "tenant-sig", now)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("double signing a slot conflicts and keeps original", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusUnderReview

		require.NoError(t, report.Sign(SignerOperator, "first", now))
		first := *report.OperatorSignature
		firstAt := *report.OperatorSignedAt

		err := report.Sign(SignerOperator, "second", now.Add(time.Minute))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		assert.Equal(t, first, *report.OperatorSignature)
		assert.Equal(t, firstAt, *report.OperatorSignedAt)
	})

	t.Run("operator cannot sign draft", func(t *testing.T) {
		report := createTestReport(t)
		assert.Error(t, report.Sign(SignerOperator, "op-sig", now))
	})

	t.Run("signing a filed report fails", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusFiled

		err := report.Sign(SignerOperator, "op-sig", now)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("empty payload", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusUnderReview
		assert.Error(t, report.Sign(SignerOperator, "", now))
	})

	t.Run("signed event raised once both present", func(t *testing.T) {
		report := createTestReport(t)
		report.Status = ReportStatusAwaitingSignatures
		report.ClearDomainEvents()

		require.NoError(t, report.Sign(SignerOperator, "op-sig", now))
		assert.Empty(t, report.GetDomainEvents())

		require.NoError(t, report.Sign(SignerTenant, "tenant-sig", now))
		events := report.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReportSigned, events[0].EventType())
	})
}

func TestComparisonReport_RecalculateTotal(t *testing.T) {
	report := createTestReport(t)
	addTestItem(t, report, "100.00", "20.00")
	addTestItem(t, report, "50.00", "50.00")
	addTestItem(t, report, "12.34", "0")

	// Tamper with the stored total; recalculation must restore it
	report.TotalEstimatedCost = decimal.RequireFromString("999")
	report.RecalculateTotal()

	assert.True(t, decimal.RequireFromString("92.34").Equal(report.TotalEstimatedCost))
}
