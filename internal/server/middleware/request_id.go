package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
)

const (
	XRequestID     = "x-request-id"
	XCorrelationID = "x-correlation-id"
	// XTriggeredBy names the operator or system asking for a manual refresh.
	XTriggeredBy = "x-triggered-by"
)

// RequestID reuses the caller's request or correlation id, or generates
// one, and echoes it back in the response. The id and the trigger header
// become log fields of the request context so usecase logs carry them.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqID := req.Header.Get(XRequestID)
			if reqID == "" {
				reqID = req.Header.Get(XCorrelationID)
			}
			if reqID == "" {
				reqID = uuid.NewString()
			}

			kv := []any{"request_id", reqID}
			if trigger := req.Header.Get(XTriggeredBy); trigger != "" {
				kv = append(kv, "triggered_by", trigger)
			}
			ctx := logger.WithFields(req.Context(), kv...)
			c.SetRequest(req.WithContext(ctx))
			c.Set(XRequestID, reqID)
			c.Response().Header().Set(XRequestID, reqID)
			return next(c)
		}
	}
}

// GetRequestID returns the id assigned by RequestID, if any.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(XRequestID).(string)
	return id
}
