package notification

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appsettlement "github.com/tenancy/backend/internal/application/settlement"
	"github.com/tenancy/backend/internal/infrastructure/logger"
)

// financePayload is the wire shape posted to the finance gateway.
type financePayload struct {
	FinanceEmail  string                       `json:"finance_email"`
	Report        appsettlement.ReportSnapshot `json:"report"`
	// AttachmentPDF is the rendered report, base64 encoded; omitted when
	// the caller did not request a PDF.
	AttachmentPDF string `json:"attachment_pdf,omitempty"`
}

// HTTPFinanceNotifier delivers settlement reports to the finance gateway
// over HTTP. It implements the application layer's FinanceNotifier port.
type HTTPFinanceNotifier struct {
	client       *http.Client
	endpoint     string
	financeEmail string
	logger       *zap.Logger
}

func NewHTTPFinanceNotifier(endpoint, financeEmail string, timeout time.Duration, logger *zap.Logger) *HTTPFinanceNotifier {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFinanceNotifier{
		client:       &http.Client{Timeout: timeout},
		endpoint:     endpoint,
		financeEmail: financeEmail,
		logger:       logger,
	}
}

func (n *HTTPFinanceNotifier) SendReport(ctx context.Context, notification appsettlement.FinanceNotification) (string, error) {
	payload := financePayload{
		FinanceEmail: n.financeEmail,
		Report:       *notification.Snapshot,
	}
	if len(notification.Attachment) > 0 {
		payload.AttachmentPDF = base64.StdEncoding.EncodeToString(notification.Attachment)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode finance payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build finance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deliver to finance gateway: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("finance gateway returned status %d", resp.StatusCode)
	}

	n.logger.Info("settlement report delivered to finance",
		zap.String("report_id", notification.Snapshot.Report.ID.String()),
		zap.String("finance_email", n.financeEmail),
		zap.Bool("with_attachment", len(notification.Attachment) > 0))

	return fmt.Sprintf("report %s delivered to %s", notification.Snapshot.Report.ID, n.financeEmail), nil
}

// LogFinanceNotifier records deliveries in the application log instead of
// sending them anywhere. Used in development when notification.stub is set.
type LogFinanceNotifier struct {
	financeEmail string
	logger       *zap.Logger
}

func NewLogFinanceNotifier(financeEmail string, logger *zap.Logger) *LogFinanceNotifier {
	return &LogFinanceNotifier{financeEmail: financeEmail, logger: logger}
}

func (n *LogFinanceNotifier) SendReport(ctx context.Context, notification appsettlement.FinanceNotification) (string, error) {
	n.logger.Info("finance notification (stub)",
		zap.String("report_id", notification.Snapshot.Report.ID.String()),
		zap.String("finance_email", n.financeEmail),
		zap.String("status", notification.Snapshot.Report.Status),
		zap.String("total", notification.Snapshot.Report.TotalEstimatedCost),
		zap.Int("attachment_bytes", len(notification.Attachment)))

	return fmt.Sprintf("report %s logged for %s", notification.Snapshot.Report.ID, n.financeEmail), nil
}
