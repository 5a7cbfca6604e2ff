package vision

import "math"

var severityWeights = map[Severity]float64{
	SeverityLow:    0.05,
	SeverityMedium: 0.15,
	SeverityHigh:   0.25,
}

// The scorer never reports certainty at or above 90% from visual findings
// alone; the top decile is reserved for corroborating detector evidence,
// which is presented separately.
const maxLikelihood = 0.9

// Score converts findings into a bounded AI-likelihood in [0, 0.9]. Pure,
// deterministic, order-independent. Near-duplicate findings are not
// deduplicated: redundant independent flags are reinforcing signal, and
// volume of evidence is allowed to raise the score.
func Score(findings []Finding) float64 {
	total := 0.0
	for _, f := range findings {
		total += severityWeights[f.Severity]
	}
	total = math.Round(total*100) / 100
	return math.Min(total, maxLikelihood)
}
