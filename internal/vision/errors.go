package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Hard failures abort the whole analysis; the binary detector's soft failures
// never surface as errors at all.
var (
	// ErrUpstreamUnavailable means the VLM call failed outright.
	ErrUpstreamUnavailable = errors.New("upstream analysis unavailable")
	// ErrTimeout means the VLM call exceeded its configured bound. It is
	// reported distinctly so callers can offer a retry affordance.
	ErrTimeout = errors.New("upstream analysis timed out")
)

// Error codes surfaced to HTTP callers.
const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeUpstream   = "UPSTREAM_UNAVAILABLE"
	ErrorCodeTimeout    = "UPSTREAM_TIMEOUT"
	ErrorCodeMalformed  = "MALFORMED_RESPONSE"
	ErrorCodeSchema     = "SCHEMA_VIOLATION"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)

// ParseError reports VLM output that is not recoverable as JSON even after
// fence stripping. Detail carries the parser diagnostics; the raw model text
// is only ever logged, never attached.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return "malformed upstream response: " + e.Detail
}

// SchemaError reports parsed output that violates the findings contract. All
// violations are listed, not just the first.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation (%d): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

// ClassifyFailure maps an analysis error to an error code and whether the
// caller may retry.
func ClassifyFailure(err error) (string, bool) {
	if err == nil {
		return ErrorCodeInternal, false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeTimeout, true
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		return ErrorCodeUpstream, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrorCodeMalformed, false
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return ErrorCodeSchema, false
	}
	return ErrorCodeInternal, false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
