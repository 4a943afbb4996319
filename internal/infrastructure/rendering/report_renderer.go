package rendering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appsettlement "github.com/tenancy/backend/internal/application/settlement"
)

// ReportRenderer produces the settlement report PDF from a snapshot.
// It implements the application layer's DocumentRenderer port.
type ReportRenderer struct {
	pdf    PDFRenderer
	logger *zap.Logger
}

func NewReportRenderer(pdf PDFRenderer, logger *zap.Logger) *ReportRenderer {
	return &ReportRenderer{pdf: pdf, logger: logger}
}

func (r *ReportRenderer) RenderReport(ctx context.Context, snapshot *appsettlement.ReportSnapshot) ([]byte, error) {
	html, err := BuildReportHTML(snapshot)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:    html,
		Margins: DefaultMargins(),
		Title:   fmt.Sprintf("Settlement Report %s", snapshot.Report.ID),
		FooterHTML: `<div style="font-size:8px; width:100%; text-align:center; color:#888;">` +
			`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rendered settlement report PDF",
		zap.String("report_id", snapshot.Report.ID.String()),
		zap.Int("size_bytes", len(result.PDFData)),
		zap.Duration("duration", result.RenderDuration))

	return result.PDFData, nil
}
