package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusCodes maps grpc codes carried by domain errors to HTTP statuses.
var statusCodes = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.FailedPrecondition: http.StatusServiceUnavailable,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DataLoss:           http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
	codes.Canceled:           499,
	codes.Unimplemented:      http.StatusNotImplemented,
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &ResponseError{
			Status:  http.StatusInternalServerError,
			Success: false,
			Err:     err,
		}

		var (
			he *echo.HTTPError
			re *ResponseError
		)
		switch {
		case errors.As(err, &he):
			resp.Status = he.Code
			resp.ErrorMessage = fmt.Sprint(he.Message)
		case errors.As(err, &re):
			resp = re
		default:
			fromStatus(resp, err)
			// detect canceled request error
			if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
				resp.Status = 499
			}
		}

		if resp.Status == http.StatusNotFound && isUnmatched(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "code", resp.Status, "error", err.Error())
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

func fromStatus(resp *ResponseError, err error) {
	st, ok := status.FromError(err)
	if !ok {
		resp.ErrorCode = strings.ToLower(codes.Internal.String())
		resp.ErrorMessage = http.StatusText(http.StatusInternalServerError)
		return
	}
	if code, ok := statusCodes[st.Code()]; ok {
		resp.Status = code
	}
	resp.ErrorCode = toSnake(st.Code().String())
	resp.ErrorMessage = st.Message()
}

// toSnake turns a grpc code name such as FailedPrecondition into
// failed_precondition.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
