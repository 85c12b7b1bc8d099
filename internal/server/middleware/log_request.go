package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
)

type LogRequestConfig struct {
	Logger Logger
	// Skipper leaves matching requests unlogged.
	Skipper func(c echo.Context) bool
	// Bodies enables logging of JSON request and response bodies.
	Bodies func(c echo.Context) bool
}

type bodyDumpWriter struct {
	io.Writer
	http.ResponseWriter
}

// LogRequest writes one line per request once the handler is done. Log
// fields attached to the request context, including those handlers add
// with logger.AddFields, are appended to the line.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("LogRequest requires a logger")
	}
	if config.Skipper == nil {
		config.Skipper = func(echo.Context) bool { return false }
	}
	if config.Bodies == nil {
		config.Bodies = func(echo.Context) bool { return false }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			logBodies := config.Bodies(c)
			var reqBody, resBody json.RawMessage
			var resBuf bytes.Buffer
			if logBodies {
				if isJSON(req.Header.Get(echo.HeaderContentType)) {
					reqBody, _ = io.ReadAll(req.Body)
					req.Body = io.NopCloser(bytes.NewReader(reqBody))
				}
				res.Writer = &bodyDumpWriter{Writer: io.MultiWriter(res.Writer, &resBuf), ResponseWriter: res.Writer}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := []any{
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"route", c.Path(),
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			}
			if query := c.QueryParams(); len(query) > 0 {
				args = append(args, "query", query)
			}
			if names := c.ParamNames(); len(names) > 0 {
				params := make(map[string]string, len(names))
				for _, name := range names {
					params[name] = c.Param(name)
				}
				args = append(args, "params", params)
			}
			// handlers may have replaced the request; read the fields last
			args = append(args, logger.Fields(c.Request().Context())...)
			if logBodies {
				if len(reqBody) > 0 {
					args = append(args, "request_body", reqBody)
				}
				if isJSON(res.Header().Get(echo.HeaderContentType)) && resBuf.Len() > 0 {
					resBody = resBuf.Bytes()
					args = append(args, "response_body", resBody)
				}
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("request", args...)
			case res.Status >= http.StatusBadRequest:
				config.Logger.Warnw("request", args...)
			default:
				config.Logger.Infow("request", args...)
			}
			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
