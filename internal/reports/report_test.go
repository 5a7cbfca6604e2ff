package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/detector"
	"casefile-backend/internal/evidence"
	"casefile-backend/internal/vision"
)

func sampleEvidence(t *testing.T, result vision.Result) *evidence.Evidence {
	t.Helper()
	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal analysis: %v", err)
	}
	return &evidence.Evidence{
		ID:             "ev-1",
		CaseID:         "case-1",
		Type:           evidence.TypeImage,
		FileName:       "scan.jpg",
		MimeType:       "image/jpeg",
		SizeBytes:      1024,
		SHA256:         "deadbeef",
		AnalysisStatus: evidence.StatusAnalyzed,
		Analysis:       payload,
	}
}

func sampleCase() *cases.Case {
	return &cases.Case{ID: "case-1", Title: "Disputed photo", CaseNumber: "2026-CV-104"}
}

func TestBuildVerdictThreshold(t *testing.T) {
	tests := []struct {
		likelihood     float64
		wantVerdict    string
		wantConfidence float64
	}{
		{0.0, VerdictLikelyAuthentic, 1.0},
		{0.3, VerdictLikelyAuthentic, 0.7},
		{0.49, VerdictLikelyAuthentic, 0.51},
		{0.5, VerdictLikelyAI, 0.5},
		{0.9, VerdictLikelyAI, 0.9},
	}
	for _, tc := range tests {
		ev := sampleEvidence(t, vision.Result{AILikelihood: tc.likelihood, AnalyzedAt: time.Now()})
		r, err := Build(sampleCase(), ev, nil, time.Now())
		if err != nil {
			t.Fatalf("Build(%v): %v", tc.likelihood, err)
		}
		if r.Verdict != tc.wantVerdict {
			t.Errorf("likelihood %v: verdict = %s, want %s", tc.likelihood, r.Verdict, tc.wantVerdict)
		}
		if r.Confidence != tc.wantConfidence {
			t.Errorf("likelihood %v: confidence = %v, want %v", tc.likelihood, r.Confidence, tc.wantConfidence)
		}
	}
}

func TestBuildSeverityTallyAndOrder(t *testing.T) {
	result := vision.Result{
		Findings: []vision.Finding{
			{Category: vision.CategoryLighting, Issue: "a", Description: "d", Severity: vision.SeverityLow},
			{Category: vision.CategoryAnatomy, Issue: "b", Description: "d", Severity: vision.SeverityHigh},
			{Category: vision.CategoryTexture, Issue: "c", Description: "d", Severity: vision.SeverityMedium},
		},
		AILikelihood: 0.45,
	}
	r, err := Build(sampleCase(), sampleEvidence(t, result), nil, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.SeverityTally[vision.SeverityHigh] != 1 || r.SeverityTally[vision.SeverityMedium] != 1 || r.SeverityTally[vision.SeverityLow] != 1 {
		t.Errorf("tally wrong: %v", r.SeverityTally)
	}
	if r.Findings[0].Severity != vision.SeverityHigh || r.Findings[2].Severity != vision.SeverityLow {
		t.Errorf("findings not ordered worst-first: %+v", r.Findings)
	}
}

func TestBuildRequiresAnalysis(t *testing.T) {
	ev := &evidence.Evidence{ID: "ev-1", FileName: "x.jpg"}
	if _, err := Build(sampleCase(), ev, nil, time.Now()); !errors.Is(err, evidence.ErrNotAnalyzed) {
		t.Fatalf("expected ErrNotAnalyzed, got %v", err)
	}
}

func TestBuildKeepsStoredFingerprint(t *testing.T) {
	ev := sampleEvidence(t, vision.Result{AILikelihood: 0.2})
	r, err := Build(sampleCase(), ev, []byte("different content"), time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.SHA256 != "deadbeef" {
		t.Errorf("stored fingerprint replaced: %s", r.SHA256)
	}
}

func TestBuildRecomputesMissingFingerprint(t *testing.T) {
	ev := sampleEvidence(t, vision.Result{AILikelihood: 0.2})
	ev.SHA256 = ""
	r, err := Build(sampleCase(), ev, []byte("evidence bytes"), time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(r.SHA256) != 64 {
		t.Errorf("fingerprint not recomputed: %q", r.SHA256)
	}
}

func TestBuildMetadataFlag(t *testing.T) {
	ev := sampleEvidence(t, vision.Result{AILikelihood: 0.2})
	r, err := Build(sampleCase(), ev, nil, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !r.MetadataMissing {
		t.Errorf("expected metadata-missing flag with no metadata")
	}

	ev.CaptureMetadata = evidence.CaptureMetadata{"Make": "Canon"}
	r, err = Build(sampleCase(), ev, nil, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.MetadataMissing {
		t.Errorf("metadata-missing flag set despite fields present")
	}
}

func TestBuildDetectorLine(t *testing.T) {
	dv := detector.FromAIScore(90, "genai")
	ev := sampleEvidence(t, vision.Result{AILikelihood: 0.6, DetectorVerdict: &dv})
	r, err := Build(sampleCase(), ev, nil, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(r.DetectorVerdictLine, "AI-GENERATED") || !strings.Contains(r.DetectorVerdictLine, "genai") {
		t.Errorf("detector line incomplete: %s", r.DetectorVerdictLine)
	}
}

func TestNewReportIDFormat(t *testing.T) {
	now := time.Now()
	pattern := regexp.MustCompile(`^FR-\d+-[0-9A-F]{4}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewReportID(now)
		if !pattern.MatchString(id) {
			t.Fatalf("bad report ID %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Errorf("report IDs show no randomness")
	}
}

func TestRenderProducesPDF(t *testing.T) {
	dv := detector.FromAIScore(90, "genai")
	result := vision.Result{
		Findings: []vision.Finding{
			{Category: vision.CategoryAnatomy, Issue: "warped_hand", Description: "Right hand geometry is implausible.", Severity: vision.SeverityHigh},
		},
		AILikelihood:    0.25,
		DetectorVerdict: &dv,
		AnalyzedAt:      time.Now().UTC(),
	}
	r, err := Build(sampleCase(), sampleEvidence(t, result), nil, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(r, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if buf.Len() < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", buf.Len())
	}
}
