package rendering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsettlement "github.com/tenancy/backend/internal/application/settlement"
)

func buildTestSnapshot() *appsettlement.ReportSnapshot {
	signedAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return &appsettlement.ReportSnapshot{
		Report: appsettlement.ReportResponse{
			ID:                 uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			PropertyID:         uuid.New(),
			TenantID:           uuid.New(),
			CheckInID:          uuid.New(),
			CheckOutID:         uuid.New(),
			Status:             "awaiting_signatures",
			TotalEstimatedCost: "239.50",
			OperatorSignature:  "Alex Morgan",
			OperatorSignedAt:   &signedAt,
			Items: []appsettlement.ItemResponse{
				{
					SectionRef: "kitchen",
					FieldKey:   "worktop",
					ItemRef:    "left-of-hob",
					Comparison: appsettlement.ComparisonDataResponse{
						CheckInNote:  "good condition",
						CheckOutNote: "deep scratch across surface",
						DamageNote:   "beyond fair wear and tear",
					},
					EstimatedCost: "200.00",
					Depreciation:  "20.50",
					FinalCost:     "179.50",
					Liability:     "tenant",
					Status:        "confirmed",
				},
				{
					SectionRef:          "hallway",
					FieldKey:            "carpet",
					EstimatedCost:       "60.00",
					Depreciation:        "0.00",
					FinalCost:           "60.00",
					FinalCostOverridden: true,
					Liability:           "shared",
					Status:              "flagged",
				},
			},
		},
		GeneratedAt: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestBuildReportHTML(t *testing.T) {
	t.Run("renders report details", func(t *testing.T) {
		html, err := BuildReportHTML(buildTestSnapshot())
		require.NoError(t, err)

		assert.Contains(t, html, "End of Tenancy Settlement Report")
		assert.Contains(t, html, "11111111-1111-1111-1111-111111111111")
		assert.Contains(t, html, "awaiting_signatures")
		assert.Contains(t, html, "kitchen / left-of-hob")
		assert.Contains(t, html, "deep scratch across surface")
		assert.Contains(t, html, "beyond fair wear and tear")
		assert.Contains(t, html, "179.50")
		assert.Contains(t, html, "239.50")
		assert.Contains(t, html, "Alex Morgan")
		assert.Contains(t, html, "14 Mar 2026 10:30")
		assert.Contains(t, html, "15 Mar 2026 09:00")
	})

	t.Run("marks overridden final cost", func(t *testing.T) {
		html, err := BuildReportHTML(buildTestSnapshot())
		require.NoError(t, err)

		assert.Contains(t, html, "60.00*")
	})

	t.Run("unsigned slots render as dash", func(t *testing.T) {
		snapshot := buildTestSnapshot()
		snapshot.Report.OperatorSignature = ""
		snapshot.Report.OperatorSignedAt = nil

		html, err := BuildReportHTML(snapshot)
		require.NoError(t, err)
		assert.NotContains(t, html, "Alex Morgan")
		assert.Contains(t, html, "&mdash;")
	})

	t.Run("nil snapshot rejected", func(t *testing.T) {
		_, err := BuildReportHTML(nil)
		require.Error(t, err)

		renderErr, ok := err.(*RenderError)
		require.True(t, ok)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})
}
