package evidence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPGRepo(db)
	ev := &Evidence{
		ID:              "ev-1",
		CaseID:          "case-1",
		Type:            TypeImage,
		FileName:        "scan.jpg",
		MimeType:        "image/jpeg",
		SizeBytes:       42,
		SHA256:          "abc",
		StorageKey:      "k/scan.jpg",
		CaptureMetadata: CaptureMetadata{"Make": "Canon"},
		AnalysisStatus:  StatusMetadataExtracted,
		UploadedBy:      "user-1",
		CreatedAt:       time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evidence")).
		WithArgs(ev.ID, ev.CaseID, ev.FileName, ev.Type, ev.MimeType, ev.SizeBytes,
			ev.StorageKey, ev.SHA256, sqlmock.AnyArg(), ev.AnalysisStatus, ev.UploadedBy, ev.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), ev); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPGRepo(db)
	created := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{
		"id", "case_id", "file_name", "evidence_type", "mime_type", "size_bytes",
		"storage_key", "file_hash", "metadata", "analysis_status", "analysis", "uploaded_by", "created_at",
	}).AddRow("ev-1", "case-1", "scan.jpg", TypeImage, "image/jpeg", int64(42),
		"k/scan.jpg", "abc", []byte(`{"Make":"Canon"}`), StatusAnalyzed, []byte(`{"ai_likelihood":0.3}`), "user-1", created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM evidence WHERE id = $1")).
		WithArgs("ev-1").
		WillReturnRows(rows)

	ev, err := repo.GetByID(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ev.CaptureMetadata["Make"] != "Canon" {
		t.Errorf("metadata not decoded: %v", ev.CaptureMetadata)
	}
	if len(ev.Analysis) == 0 {
		t.Errorf("analysis not carried")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPGRepo(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM evidence WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPGRepo(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE evidence SET analysis = $1, analysis_status = $2 WHERE id = $3")).
		WithArgs([]byte(`{"ai_likelihood":0.3}`), StatusAnalyzed, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateAnalysis(context.Background(), "ev-1", []byte(`{"ai_likelihood":0.3}`), StatusAnalyzed); err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPGRepo(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evidence WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
