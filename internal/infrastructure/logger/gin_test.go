package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedGin(t *testing.T, skipPaths ...string) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	engine.Use(GinMiddleware(log, skipPaths...))
	return engine, logs
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs requests with request ID", func(t *testing.T) {
		engine, logs := newObservedGin(t)
		engine.GET("/reports", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "http request", entries[0].Message)

		fields := entries[0].ContextMap()
		assert.Equal(t, "req-42", fields["request_id"])
		assert.Equal(t, "/reports", fields["path"])
		assert.EqualValues(t, http.StatusOK, fields["status"])
	})

	t.Run("skipped paths produce no access log", func(t *testing.T) {
		engine, logs := newObservedGin(t, "/health")
		engine.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, logs.Len())
	})

	t.Run("skipped paths still carry a request-scoped logger", func(t *testing.T) {
		engine, logs := newObservedGin(t, "/health")
		engine.GET("/health", func(c *gin.Context) {
			FromContext(c.Request.Context()).Info("checked dependencies")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "checked dependencies", entries[0].Message)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		engine, logs := newObservedGin(t)
		engine.GET("/boom", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	})
}
