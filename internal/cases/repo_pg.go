package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo returns a Postgres repository using the given handle.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const caseColumns = `id, title, case_number, description, status, created_by, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, c *Case) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cases (id, title, case_number, description, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Title, c.CaseNumber, c.Description, c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Case, error) {
	var c Case
	err := r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.CaseNumber, &c.Description, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select case: %w", err)
	}
	return &c, nil
}

func (r *PGRepo) List(ctx context.Context, createdBy string) ([]*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC`
	args := []any{}
	if createdBy != "" {
		query = `SELECT ` + caseColumns + ` FROM cases WHERE created_by = $1 ORDER BY created_at DESC`
		args = append(args, createdBy)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []*Case
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.ID, &c.Title, &c.CaseNumber, &c.Description, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, c *Case) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cases SET title = $1, case_number = $2, description = $3, status = $4, updated_at = $5 WHERE id = $6`,
		c.Title, c.CaseNumber, c.Description, c.Status, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("case exists: %w", err)
	}
	return exists, nil
}
