package evidence

import "errors"

var (
	// ErrNotFound means no evidence exists with the given ID.
	ErrNotFound = errors.New("evidence not found")
	// ErrInvalidType means the upload declared an unsupported evidence type.
	ErrInvalidType = errors.New("invalid evidence type")
	// ErrNotAnalyzed means an operation required a completed analysis.
	ErrNotAnalyzed = errors.New("evidence has not been analyzed")
)
