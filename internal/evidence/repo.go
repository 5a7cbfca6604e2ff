package evidence

import (
	"context"
	"encoding/json"
)

// Repo persists evidence records.
type Repo interface {
	Create(ctx context.Context, ev *Evidence) error
	GetByID(ctx context.Context, id string) (*Evidence, error)
	ListByCase(ctx context.Context, caseID string) ([]*Evidence, error)
	Delete(ctx context.Context, id string) error
	UpdateAnalysis(ctx context.Context, id string, analysis json.RawMessage, status string) error
}
