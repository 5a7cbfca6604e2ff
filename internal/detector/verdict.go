// Package detector defines the normalized verdict shape shared by all
// AI-detection backends and helpers for recovering verdicts from their
// responses.
package detector

import "math"

// Label classifies a detector's conclusion about an image.
type Label string

const (
	LabelAIGenerated Label = "AI-GENERATED"
	LabelReal        Label = "REAL"
	LabelUnavailable Label = "unavailable"
)

// Verdict is the normalized output of a single detection backend. Scores are
// percentages in [0,100]; AIScore and RealScore sum to 100 when the backend
// reported only one side.
type Verdict struct {
	AIScore    float64 `json:"aiScore"`
	RealScore  float64 `json:"realScore"`
	Verdict    Label   `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model,omitempty"`
}

// Available reports whether the backend produced a usable verdict.
func (v Verdict) Available() bool {
	return v.Verdict == LabelAIGenerated || v.Verdict == LabelReal
}

// Unavailable returns the terminal verdict for a backend that failed or
// returned nothing usable. It is a valid value, not an error.
func Unavailable(model string) Verdict {
	return Verdict{Verdict: LabelUnavailable, Model: model}
}

// FromAIScore builds a verdict from a 0-100 AI-generated probability, deriving
// the real-photo probability as its complement and the confidence as the
// larger of the two.
func FromAIScore(aiScore float64, model string) Verdict {
	ai := Round2(aiScore)
	real := Round2(100 - ai)
	label := LabelReal
	if ai > 50 {
		label = LabelAIGenerated
	}
	return Verdict{
		AIScore:    ai,
		RealScore:  real,
		Verdict:    label,
		Confidence: Round2(math.Max(ai, real)),
		Model:      model,
	}
}

// FromScores builds a verdict from explicit AI and real percentages, keeping
// provider-reported values but normalizing rounding and derived fields.
func FromScores(aiScore, realScore float64, label Label, confidence float64, model string) Verdict {
	if label != LabelAIGenerated && label != LabelReal {
		label = LabelReal
		if aiScore > 50 {
			label = LabelAIGenerated
		}
	}
	if confidence <= 0 {
		confidence = math.Max(aiScore, realScore)
	}
	return Verdict{
		AIScore:    Round2(aiScore),
		RealScore:  Round2(realScore),
		Verdict:    label,
		Confidence: Round2(confidence),
		Model:      model,
	}
}

// Round2 rounds to two decimal places for stable comparison and display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
