package ingest

import (
	"errors"
	"strings"

	"github.com/patacca/bragi/youtubeapi"
)

// ErrorClass describes whether a metadata lookup failure looks transient or
// permanent. The pipeline makes a single attempt either way; the class only
// shapes how the failure is logged.
type ErrorClass int

const (
	// ErrorClassTransient indicates the provider was unreachable or flapping.
	ErrorClassTransient ErrorClass = iota
	// ErrorClassPermanent indicates retrying the same id would fail again.
	ErrorClassPermanent
	// ErrorClassUnknown indicates the error type cannot be determined.
	ErrorClassUnknown
)

// String returns a human-readable name for the error class.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// ClassifyFetchError sorts metadata lookup failures into transient vs
// permanent categories.
//
// Permanent:
// - no data for the id (unknown, deleted, or region-blocked video)
// - auth failures (bad API key, 401/403)
// - invalid input (400, bad request)
//
// Transient:
// - network errors (connection reset, timeout, DNS failures)
// - server errors (500, 502, 503, 504)
// - rate limiting (429)
func ClassifyFetchError(err error) ErrorClass {
	if err == nil {
		return ErrorClassUnknown
	}
	if errors.Is(err, youtubeapi.ErrNoData) {
		return ErrorClassPermanent
	}

	lower := strings.ToLower(err.Error())

	if strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout") {
		return ErrorClassTransient
	}

	if strings.Contains(lower, "401") ||
		strings.Contains(lower, "403") ||
		strings.Contains(lower, "api key") ||
		strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "unauthorized") {
		return ErrorClassPermanent
	}

	if strings.Contains(lower, "400") ||
		strings.Contains(lower, "bad request") ||
		strings.Contains(lower, "invalid") {
		return ErrorClassPermanent
	}

	networkPatterns := []string{
		"connection reset",
		"connection refused",
		"connection timed out",
		"timeout",
		"temporary failure in name resolution",
		"no route to host",
		"network unreachable",
		"dns",
		"eof",
		"broken pipe",
		"context deadline exceeded",
	}
	for _, pattern := range networkPatterns {
		if strings.Contains(lower, pattern) {
			return ErrorClassTransient
		}
	}

	if strings.Contains(lower, "429") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "rate limit") {
		return ErrorClassTransient
	}

	return ErrorClassUnknown
}
