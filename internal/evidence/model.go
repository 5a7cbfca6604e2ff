package evidence

import (
	"encoding/json"
	"time"
)

// Evidence types accepted at upload.
const (
	TypeImage = "image"
	TypeVoice = "voice"
	TypeVideo = "video"
)

// Analysis lifecycle states.
const (
	StatusUploaded          = "uploaded"
	StatusMetadataExtracted = "metadata_extracted"
	StatusAnalyzed          = "analyzed"
)

// CaptureMetadata holds the EXIF fields relevant to provenance. Keys follow
// the EXIF tag names (Make, Model, DateTimeOriginal, Software, GPSLatitude,
// GPSLongitude); absent fields are simply missing from the map.
type CaptureMetadata map[string]string

// Evidence is one uploaded artifact attached to a case. Analysis holds the
// stored forensic result verbatim; it is written once per analysis pass and
// read back without reinterpretation.
type Evidence struct {
	ID              string          `json:"id"`
	CaseID          string          `json:"caseId"`
	Type            string          `json:"type"`
	FileName        string          `json:"fileName"`
	MimeType        string          `json:"mimeType"`
	SizeBytes       int64           `json:"sizeBytes"`
	SHA256          string          `json:"sha256"`
	StorageKey      string          `json:"-"`
	CaptureMetadata CaptureMetadata `json:"captureMetadata,omitempty"`
	Analysis        json.RawMessage `json:"analysis,omitempty"`
	AnalysisStatus  string          `json:"analysisStatus"`
	UploadedBy      string          `json:"uploadedBy"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ValidType reports whether t is an accepted evidence type.
func ValidType(t string) bool {
	switch t {
	case TypeImage, TypeVoice, TypeVideo:
		return true
	}
	return false
}
