// Package notes stores free-form investigator annotations on a case.
package notes

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means no note exists with the given ID.
	ErrNotFound = errors.New("note not found")
	// ErrBodyRequired means a create request had an empty body.
	ErrBodyRequired = errors.New("note body is required")
)

// Note is a single annotation on a case.
type Note struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"caseId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo persists notes.
type Repo interface {
	Create(ctx context.Context, n *Note) error
	ListByCase(ctx context.Context, caseID string) ([]*Note, error)
	Delete(ctx context.Context, id string) error
}
