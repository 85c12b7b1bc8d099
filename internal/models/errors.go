package models

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound = status.Errorf(codes.NotFound, "not found")
	ErrNoData   = status.Errorf(codes.Unavailable, "no price data has been fetched yet")
	ErrDisabled = status.Errorf(codes.FailedPrecondition, "feature disabled")
)

type FetchErrorKind string

const (
	FetchErrorNetwork    FetchErrorKind = "network"
	FetchErrorTimeout    FetchErrorKind = "timeout"
	FetchErrorHTTPStatus FetchErrorKind = "http-status"
)

// FetchError is returned by the source client for every failed attempt.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchErrorHTTPStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) GRPCStatus() *status.Status {
	if e.Kind == FetchErrorTimeout {
		return status.New(codes.DeadlineExceeded, e.Error())
	}
	return status.New(codes.Unavailable, e.Error())
}

// ParseError means a document produced no usable products.
type ParseError struct {
	Reason  string
	Dropped map[string]int
}

func (e *ParseError) Error() string {
	if len(e.Dropped) == 0 {
		return "parse: " + e.Reason
	}
	reasons := make([]string, 0, len(e.Dropped))
	for reason, n := range e.Dropped {
		reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(reasons)
	return fmt.Sprintf("parse: %s (dropped %s)", e.Reason, strings.Join(reasons, ", "))
}

func (e *ParseError) GRPCStatus() *status.Status {
	return status.New(codes.DataLoss, e.Error())
}
