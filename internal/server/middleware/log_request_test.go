package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogRequest(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop().Sugar())
	e.Use(RequestID())
	e.Use(LogRequest(LogRequestConfig{
		Logger: zap.New(core).Sugar(),
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		Bodies: func(c echo.Context) bool {
			return c.Request().Method != http.MethodGet
		},
	}))
	e.POST("/api/v1/refresh", func(c echo.Context) error {
		logger.AddFields(c.Request().Context(), "change_log_id", "log-9")
		return c.JSON(http.StatusOK, map[string]bool{"updated": true})
	})
	e.GET("/api/v1/products/category/:category", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "unknown category")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	serve := func(req *http.Request) {
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", strings.NewReader(`{"reason":"manual"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(XRequestID, "req-7")
	req.Header.Set(XTriggeredBy, "ops")
	serve(req)
	serve(httptest.NewRequest(http.MethodGet, "/api/v1/products/category/xl?verbose=1", nil))
	serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	refresh := entries[0]
	assert.Equal(t, zapcore.InfoLevel, refresh.Level)
	fields := refresh.ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "ops", fields["triggered_by"])
	assert.Equal(t, "log-9", fields["change_log_id"])
	assert.Equal(t, "/api/v1/refresh", fields["route"])
	assert.Contains(t, fields, "request_body")
	assert.Contains(t, fields, "response_body")

	notFound := entries[1]
	assert.Equal(t, zapcore.WarnLevel, notFound.Level)
	fields = notFound.ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, map[string]string{"category": "xl"}, fields["params"])
	assert.Contains(t, fields, "query")
	assert.NotContains(t, fields, "response_body")
}
