// Command reportdemo renders a sample forensic report to disk so the PDF
// layout can be reviewed without running the full pipeline.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/detector"
	"casefile-backend/internal/evidence"
	"casefile-backend/internal/reports"
	"casefile-backend/internal/vision"
)

func main() {
	out := flag.String("out", "report-sample.pdf", "output file path")
	flag.Parse()

	dv := detector.FromAIScore(87.3, "sightengine-genai")
	result := vision.Result{
		Findings: []vision.Finding{
			{Category: vision.CategoryAnatomy, Issue: "warped_hand", Description: "The subject's right hand shows six fingers with inconsistent joint placement.", Severity: vision.SeverityHigh},
			{Category: vision.CategoryLighting, Issue: "shadow_mismatch", Description: "Shadows on the subject fall to the left while background shadows fall to the right.", Severity: vision.SeverityMedium},
			{Category: vision.CategoryText, Issue: "garbled_signage", Description: "Background signage contains non-alphabetic glyph shapes.", Severity: vision.SeverityLow},
		},
		AILikelihood:    0.45,
		DetectorVerdict: &dv,
		AnalyzedAt:      time.Now().UTC(),
	}
	analysis, err := json.Marshal(result)
	if err != nil {
		log.Fatalf("marshal analysis: %v", err)
	}

	caseInfo := &cases.Case{Title: "Disputed holiday photo", CaseNumber: "2026-CV-104"}
	ev := &evidence.Evidence{
		FileName:       "holiday.jpg",
		MimeType:       "image/jpeg",
		SizeBytes:      2_381_204,
		SHA256:         "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		AnalysisStatus: evidence.StatusAnalyzed,
		Analysis:       analysis,
	}

	report, err := reports.Build(caseInfo, ev, nil, time.Now())
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	if err := reports.Render(report, f); err != nil {
		log.Fatalf("render: %v", err)
	}
	log.Printf("wrote %s (report %s)", *out, report.ID)
}
