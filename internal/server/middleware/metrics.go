package middleware

import (
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsPath = "/metrics"

	httpRequestDuration = "http_request_duration_seconds"
	// unmatched routes share one label value so scanners cannot blow up
	// the series count
	unmatchedRoute = "/not-found"
)

// Metrics serves the prometheus registry on MetricsPath and records the
// latency of every other request by status code, method and route.
// Refreshes that fell back to the cached snapshot are counted as stale.
func Metrics() echo.MiddlewareFunc {
	durations, err := util.GetHistogramVec(httpRequestDuration, "code", "method", "route", "stale")
	if err != nil {
		panic(err)
	}
	scrape := echo.WrapHandler(promhttp.Handler())

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == MetricsPath {
				return scrape(c)
			}

			route := c.Path()
			if isUnmatched(c.Handler()) {
				route = unmatchedRoute
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			stale := strconv.FormatBool(c.Response().Header().Get(XDataStale) != "")
			durations.
				WithLabelValues(strconv.Itoa(c.Response().Status), req.Method, route, stale).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func isUnmatched(handler echo.HandlerFunc) bool {
	ptr := reflect.ValueOf(handler).Pointer()
	return ptr == reflect.ValueOf(echo.NotFoundHandler).Pointer() ||
		ptr == reflect.ValueOf(echo.MethodNotAllowedHandler).Pointer()
}
