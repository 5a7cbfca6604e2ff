package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"casefile-backend/internal/vision"
)

// Render lays the report out as an A4 PDF and writes it to w. The section
// order is fixed; no content decisions happen here.
func Render(r *Report, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	writeTitle(pdf, r)
	writeSection(pdf, "Executive Summary")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Verdict: %s", r.Verdict), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Confidence: %.0f%%", r.Confidence*100), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("AI likelihood score: %.2f", r.AILikelihood), "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 6, r.DetectorVerdictLine, "", "L", false)

	writeSection(pdf, "Methodology")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, r.Methodology, "", "L", false)

	writeSection(pdf, "Technical Findings")
	writeFindings(pdf, r)

	writeSection(pdf, "Cryptographic Fingerprint")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Algorithm: SHA-256", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 9)
	pdf.MultiCell(0, 5, r.SHA256, "", "L", false)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "The fingerprint above was computed over the exact evidence bytes and can be used to verify that the analyzed file is unaltered.", "", "L", false)

	writeSection(pdf, "Capture Metadata Examination")
	writeMetadata(pdf, r)

	writeSection(pdf, "Declaration")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, "This report was generated by an automated forensic analysis pipeline. The verdict expresses a probabilistic assessment, not a certainty, and should be weighed together with the itemized findings and any independent examination of the original evidence.", "", "L", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report ID: %s", r.ID), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

func writeTitle(pdf *fpdf.Fpdf, r *Report) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Forensic Image Analysis Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report ID: %s", r.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC")), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	caseLine := r.CaseTitle
	if r.CaseNumber != "" {
		caseLine = fmt.Sprintf("%s (case no. %s)", r.CaseTitle, r.CaseNumber)
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Case: %s", caseLine), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Evidence file: %s (%s, %d bytes)", r.FileName, r.MimeType, r.SizeBytes), "", 1, "L", false, 0, "")
}

func writeSection(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeFindings(pdf *fpdf.Fpdf, r *Report) {
	pdf.SetFont("Helvetica", "", 10)
	if len(r.Findings) == 0 {
		pdf.MultiCell(0, 5, "No visual inconsistencies were reported.", "", "L", false)
		return
	}

	var tally []string
	for _, sev := range []vision.Severity{vision.SeverityHigh, vision.SeverityMedium, vision.SeverityLow} {
		if n := r.SeverityTally[sev]; n > 0 {
			tally = append(tally, fmt.Sprintf("%d %s", n, sev))
		}
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("%d findings (%s)", len(r.Findings), strings.Join(tally, ", ")), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	for i, f := range r.Findings {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. [%s] %s / %s", i+1, strings.ToUpper(string(f.Severity)), f.Category, f.Issue), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, f.Description, "", "L", false)
		pdf.Ln(1)
	}
}

// metadataOrder fixes the field order for rendering.
var metadataOrder = []string{"Make", "Model", "DateTimeOriginal", "Software", "GPSLatitude", "GPSLongitude"}

func writeMetadata(pdf *fpdf.Fpdf, r *Report) {
	pdf.SetFont("Helvetica", "", 10)
	if r.MetadataMissing {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "ALERT: no capture metadata present", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, "The evidence file carries no EXIF metadata. Genuine camera output normally embeds capture details; their complete absence is consistent with AI generation, processing through metadata-stripping software, or deliberate sanitization, and should be treated as a red flag.", "", "L", false)
		return
	}

	for _, key := range metadataOrder {
		if v, ok := r.Metadata[key]; ok && v != "" {
			pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", key, v), "", 1, "L", false, 0, "")
		}
	}
}
