package cases

import "errors"

var (
	// ErrNotFound means no case exists with the given ID.
	ErrNotFound = errors.New("case not found")
	// ErrTitleRequired means a create or update omitted the title.
	ErrTitleRequired = errors.New("case title is required")
	// ErrInvalidStatus means an update carried an unknown status value.
	ErrInvalidStatus = errors.New("invalid case status")
)
