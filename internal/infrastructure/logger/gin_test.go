package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEngine(base *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Recovery(base))
	engine.Use(AccessLog(base))
	return engine
}

func TestAccessLog(t *testing.T) {
	t.Run("logs one entry per request", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		engine := newTestEngine(zap.New(core))
		engine.GET("/api/v1/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2", nil)
		engine.ServeHTTP(w, req)

		entries := logs.FilterMessage("request completed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/v1/products", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "page=2", fields["query"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		engine := newTestEngine(zap.New(core))
		engine.GET("/api/v1/rfqs/bad", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rfqs/bad", nil))

		entries := logs.FilterMessage("request completed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("health probes are not logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		engine := newTestEngine(zap.New(core))
		engine.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, logs.FilterMessage("request completed").Len())
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	engine := newTestEngine(zap.New(core))
	engine.GET("/api/v1/orders", func(c *gin.Context) {
		panic("pricing table corrupted")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	assert.NotContains(t, w.Body.String(), "pricing table corrupted")

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pricing table corrupted", entries[0].ContextMap()["panic"])
}

func TestRequestLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		engine := newTestEngine(zap.New(core))
		engine.GET("/api/v1/companies", func(c *gin.Context) {
			RequestLogger(c).Info("follow-up scheduled")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil))

		entries := logs.FilterMessage("follow-up scheduled").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "/api/v1/companies", entries[0].ContextMap()["path"])
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.NotNil(t, RequestLogger(c))
	})
}
