package cases

import "context"

// Repo persists cases.
type Repo interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id string) (*Case, error)
	List(ctx context.Context, createdBy string) ([]*Case, error)
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
