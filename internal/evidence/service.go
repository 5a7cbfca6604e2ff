package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"casefile-backend/internal/shared/storage/object"
	"casefile-backend/internal/shared/telemetry"
	"casefile-backend/internal/shared/util"
)

// Service handles evidence intake: durable storage, fingerprinting, and
// capture-metadata extraction.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// UploadInput describes one incoming evidence file.
type UploadInput struct {
	CaseID     string
	Type       string
	FileName   string
	UploadedBy string
	Data       []byte
}

// Upload stores the file, fingerprints it, extracts capture metadata for
// images, and persists the record. The SHA-256 fingerprint is computed over
// the exact bytes received so the chain of custody starts at intake.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Evidence, error) {
	if !ValidType(in.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}

	fileName, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		return nil, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, in.CaseID, fileName, bytes.NewReader(in.Data))
	if err != nil {
		return nil, fmt.Errorf("store evidence: %w", err)
	}

	ev := &Evidence{
		ID:             uuid.NewString(),
		CaseID:         in.CaseID,
		Type:           in.Type,
		FileName:       fileName,
		MimeType:       mimeType,
		SizeBytes:      size,
		SHA256:         util.SHA256Hex(in.Data),
		StorageKey:     storageKey,
		AnalysisStatus: StatusUploaded,
		UploadedBy:     in.UploadedBy,
		CreatedAt:      time.Now().UTC(),
	}

	if in.Type == TypeImage {
		ev.CaptureMetadata = ExtractCaptureMetadata(in.Data)
		ev.AnalysisStatus = StatusMetadataExtracted
	}

	if err := s.Repo.Create(ctx, ev); err != nil {
		return nil, err
	}

	telemetry.Info("evidence.uploaded", map[string]any{
		"evidence_id": ev.ID,
		"case_id":     ev.CaseID,
		"type":        ev.Type,
		"size_bytes":  ev.SizeBytes,
		"sha256":      ev.SHA256,
	})
	return ev, nil
}

// OpenContent returns the stored bytes for the given evidence record.
func (s *Service) OpenContent(ctx context.Context, ev *Evidence) ([]byte, error) {
	rc, err := s.Store.Open(ctx, ev.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open evidence object: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read evidence object: %w", err)
	}
	return data, nil
}

// IsImage reports whether the evidence can be routed to image analysis.
func IsImage(ev *Evidence) bool {
	return ev.Type == TypeImage || strings.HasPrefix(ev.MimeType, "image/")
}
