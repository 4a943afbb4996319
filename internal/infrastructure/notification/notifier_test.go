package notification

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsettlement "github.com/tenancy/backend/internal/application/settlement"
	"github.com/tenancy/backend/internal/infrastructure/logger"
)

func testNotification() appsettlement.FinanceNotification {
	return appsettlement.FinanceNotification{
		Snapshot: &appsettlement.ReportSnapshot{
			Report: appsettlement.ReportResponse{
				ID:                 uuid.MustParse("22222222-2222-2222-2222-222222222222"),
				Status:             "filed",
				TotalEstimatedCost: "179.50",
			},
			GeneratedAt: time.Now(),
		},
	}
}

func TestHTTPFinanceNotifier_SendReport(t *testing.T) {
	t.Run("posts payload and returns delivery message", func(t *testing.T) {
		var received financePayload
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		notifier := NewHTTPFinanceNotifier(server.URL, "finance@example.com", 5*time.Second, zap.NewNop())

		n := testNotification()
		n.Attachment = []byte("%PDF-1.7 fake")

		msg, err := notifier.SendReport(context.Background(), n)
		require.NoError(t, err)
		assert.Contains(t, msg, "22222222-2222-2222-2222-222222222222")
		assert.Contains(t, msg, "finance@example.com")

		assert.Equal(t, "finance@example.com", received.FinanceEmail)
		assert.Equal(t, "filed", received.Report.Report.Status)
		decoded, err := base64.StdEncoding.DecodeString(received.AttachmentPDF)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7 fake"), decoded)
	})

	t.Run("omits attachment when not rendered", func(t *testing.T) {
		var received financePayload
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		notifier := NewHTTPFinanceNotifier(server.URL, "finance@example.com", 5*time.Second, zap.NewNop())

		_, err := notifier.SendReport(context.Background(), testNotification())
		require.NoError(t, err)
		assert.Empty(t, received.AttachmentPDF)
	})

	t.Run("forwards the request ID from context", func(t *testing.T) {
		var gotHeader string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Request-ID")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		notifier := NewHTTPFinanceNotifier(server.URL, "finance@example.com", 5*time.Second, zap.NewNop())

		ctx, _ := logger.WithRequestID(context.Background(), zap.NewNop(), "req-abc")
		_, err := notifier.SendReport(ctx, testNotification())
		require.NoError(t, err)
		assert.Equal(t, "req-abc", gotHeader)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		notifier := NewHTTPFinanceNotifier(server.URL, "finance@example.com", 5*time.Second, zap.NewNop())

		_, err := notifier.SendReport(context.Background(), testNotification())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("unreachable gateway is an error", func(t *testing.T) {
		notifier := NewHTTPFinanceNotifier("http://127.0.0.1:1", "finance@example.com", time.Second, zap.NewNop())

		_, err := notifier.SendReport(context.Background(), testNotification())
		require.Error(t, err)
	})
}

func TestLogFinanceNotifier_SendReport(t *testing.T) {
	notifier := NewLogFinanceNotifier("finance@example.com", zap.NewNop())

	msg, err := notifier.SendReport(context.Background(), testNotification())
	require.NoError(t, err)
	assert.Contains(t, msg, "logged")
}
