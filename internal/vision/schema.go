package vision

// JSON contract expected from the VLM:
// {
//   "findings": [
//     {
//       "category": "anatomy | lighting | texture | text | object | metadata | technical",
//       "issue": "short_issue_name",
//       "description": "clear human-readable description",
//       "severity": "low | medium | high"
//     }
//   ]
// }

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of inconsistency classes a finding may carry.
type Category string

const (
	CategoryAnatomy   Category = "anatomy"
	CategoryLighting  Category = "lighting"
	CategoryTexture   Category = "texture"
	CategoryText      Category = "text"
	CategoryObject    Category = "object"
	CategoryMetadata  Category = "metadata"
	CategoryTechnical Category = "technical"
)

// Severity grades how strongly a finding indicates AI generation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var validCategories = map[Category]struct{}{
	CategoryAnatomy:   {},
	CategoryLighting:  {},
	CategoryTexture:   {},
	CategoryText:      {},
	CategoryObject:    {},
	CategoryMetadata:  {},
	CategoryTechnical: {},
}

var validSeverities = map[Severity]struct{}{
	SeverityLow:    {},
	SeverityMedium: {},
	SeverityHigh:   {},
}

// Finding is one discrete observed inconsistency.
type Finding struct {
	Category    Category `json:"category"`
	Issue       string   `json:"issue"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type findingsEnvelope struct {
	Findings *[]Finding `json:"findings"`
}

// ParseFindings decodes raw JSON into a finding list and validates it against
// the closed schema. Invalid JSON yields a ParseError; a decodable document
// that breaks the contract yields a SchemaError listing every violation. A
// value outside its enum is a failure, never a silent default.
func ParseFindings(raw []byte) ([]Finding, error) {
	var envelope findingsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &ParseError{Detail: err.Error()}
	}

	var violations []string
	if envelope.Findings == nil {
		violations = append(violations, `findings: required field missing`)
		return nil, &SchemaError{Violations: violations}
	}

	findings := *envelope.Findings
	for i, f := range findings {
		if _, ok := validCategories[f.Category]; !ok {
			violations = append(violations, fmt.Sprintf("findings[%d].category: unknown value %q", i, string(f.Category)))
		}
		if _, ok := validSeverities[f.Severity]; !ok {
			violations = append(violations, fmt.Sprintf("findings[%d].severity: unknown value %q", i, string(f.Severity)))
		}
		if strings.TrimSpace(f.Issue) == "" {
			violations = append(violations, fmt.Sprintf("findings[%d].issue: required field missing", i))
		}
		if strings.TrimSpace(f.Description) == "" {
			violations = append(violations, fmt.Sprintf("findings[%d].description: required field missing", i))
		}
	}
	if len(violations) > 0 {
		return nil, &SchemaError{Violations: violations}
	}

	return findings, nil
}
