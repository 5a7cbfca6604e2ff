// Package reports turns a completed analysis into an expert-style forensic
// report. Building the content model and laying it out as a PDF are kept
// separate so the content can be tested without rendering.
package reports

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/evidence"
	"casefile-backend/internal/shared/util"
	"casefile-backend/internal/vision"
)

// Verdict labels derived from the AI likelihood.
const (
	VerdictLikelyAI        = "LIKELY AI-GENERATED"
	VerdictLikelyAuthentic = "LIKELY AUTHENTIC"
)

const methodology = "The evidence image was examined with a two-stage automated pipeline. " +
	"First, a specialized binary AI-image detector produced a probabilistic verdict on whether the image was synthetically generated. " +
	"Second, a vision-language model performed a visual forensic pass, with the detector verdict and the image's capture metadata supplied as context, " +
	"and reported discrete inconsistency findings in a structured schema. " +
	"A deterministic scoring function aggregated the findings by severity into the overall AI likelihood presented in this report."

// Report is the fully-resolved content of one forensic report, in section
// order. Rendering consumes it verbatim.
type Report struct {
	ID          string
	GeneratedAt time.Time

	CaseTitle  string
	CaseNumber string

	FileName  string
	MimeType  string
	SizeBytes int64

	Verdict      string
	Confidence   float64
	AILikelihood float64

	Methodology string

	Findings      []vision.Finding
	SeverityTally map[vision.Severity]int

	SHA256 string

	Metadata        evidence.CaptureMetadata
	MetadataMissing bool

	DetectorVerdictLine string
}

// NewReportID generates an identifier in the form FR-<unix ms>-<4 hex chars>.
func NewReportID(now time.Time) string {
	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		suffix = []byte{byte(now.Nanosecond()), byte(now.Nanosecond() >> 8)}
	}
	return fmt.Sprintf("FR-%d-%s", now.UnixMilli(), strings.ToUpper(hex.EncodeToString(suffix)))
}

// Build assembles the report content from a case, its evidence record, and
// the stored analysis. The fingerprint is recomputed from the content bytes
// when the record carries none.
func Build(caseInfo *cases.Case, ev *evidence.Evidence, content []byte, now time.Time) (*Report, error) {
	if len(ev.Analysis) == 0 {
		return nil, evidence.ErrNotAnalyzed
	}

	var result vision.Result
	if err := json.Unmarshal(ev.Analysis, &result); err != nil {
		return nil, fmt.Errorf("decode stored analysis: %w", err)
	}

	verdict := VerdictLikelyAuthentic
	if result.AILikelihood >= 0.5 {
		verdict = VerdictLikelyAI
	}

	sha := ev.SHA256
	if sha == "" {
		recomputed, err := util.SHA256Reader(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("recompute fingerprint: %w", err)
		}
		sha = recomputed
	}

	tally := map[vision.Severity]int{}
	for _, f := range result.Findings {
		tally[f.Severity]++
	}

	detectorLine := "Binary detector: no verdict available for this image."
	if dv := result.DetectorVerdict; dv != nil && dv.Available() {
		detectorLine = fmt.Sprintf("Binary detector (%s): %s at %.1f%% confidence (AI %.1f%% / real %.1f%%).",
			dv.Model, dv.Verdict, dv.Confidence, dv.AIScore, dv.RealScore)
	}

	return &Report{
		ID:                  NewReportID(now),
		GeneratedAt:         now.UTC(),
		CaseTitle:           caseInfo.Title,
		CaseNumber:          caseInfo.CaseNumber,
		FileName:            ev.FileName,
		MimeType:            ev.MimeType,
		SizeBytes:           ev.SizeBytes,
		Verdict:             verdict,
		Confidence:          round2(math.Max(result.AILikelihood, 1-result.AILikelihood)),
		AILikelihood:        result.AILikelihood,
		Methodology:         methodology,
		Findings:            sortedFindings(result.Findings),
		SeverityTally:       tally,
		SHA256:              sha,
		Metadata:            ev.CaptureMetadata,
		MetadataMissing:     len(ev.CaptureMetadata) == 0,
		DetectorVerdictLine: detectorLine,
	}, nil
}

// sortedFindings orders findings high to low so the report reads worst-first.
// Ties keep their original order.
func sortedFindings(in []vision.Finding) []vision.Finding {
	rank := map[vision.Severity]int{
		vision.SeverityHigh:   0,
		vision.SeverityMedium: 1,
		vision.SeverityLow:    2,
	}
	out := append([]vision.Finding(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].Severity] < rank[out[j].Severity]
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
