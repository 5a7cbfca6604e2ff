package evidence

import (
	"context"
	"database/sql"
	"encoding/json"
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

const evidenceColumns = `id, case_id, file_name, evidence_type, mime_type, size_bytes, storage_key, file_hash, metadata, analysis_status, analysis, uploaded_by, created_at`

func (r *PGRepo) Create(ctx context.Context, ev *Evidence) error {
	meta, err := json.Marshal(ev.CaptureMetadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO evidence (id, case_id, file_name, evidence_type, mime_type, size_bytes, storage_key, file_hash, metadata, analysis_status, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ev.ID, ev.CaseID, ev.FileName, ev.Type, ev.MimeType, ev.SizeBytes,
		ev.StorageKey, ev.SHA256, meta, ev.AnalysisStatus, ev.UploadedBy, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Evidence, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+evidenceColumns+` FROM evidence WHERE id = $1`, id)
	ev, err := scanEvidence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select evidence: %w", err)
	}
	return ev, nil
}

func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]*Evidence, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+evidenceColumns+` FROM evidence WHERE case_id = $1 ORDER BY created_at DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	var out []*Evidence
	for rows.Next() {
		ev, err := scanEvidence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM evidence WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateAnalysis(ctx context.Context, id string, analysis json.RawMessage, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE evidence SET analysis = $1, analysis_status = $2 WHERE id = $3`,
		[]byte(analysis), status, id)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvidence(row rowScanner) (*Evidence, error) {
	var (
		ev       Evidence
		meta     []byte
		analysis []byte
	)
	if err := row.Scan(&ev.ID, &ev.CaseID, &ev.FileName, &ev.Type, &ev.MimeType, &ev.SizeBytes,
		&ev.StorageKey, &ev.SHA256, &meta, &ev.AnalysisStatus, &analysis, &ev.UploadedBy, &ev.CreatedAt); err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &ev.CaptureMetadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if len(analysis) > 0 {
		ev.Analysis = json.RawMessage(analysis)
	}
	return &ev, nil
}
