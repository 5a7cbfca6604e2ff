package hivevlm

import (
	"encoding/json"
	"strings"

	"casefile-backend/internal/detector"
)

type verdictPayload struct {
	Verdict        string   `json:"verdict"`
	Confidence     *float64 `json:"confidence"`
	AILikelihood   *float64 `json:"ai_likelihood"`
	RealLikelihood *float64 `json:"real_likelihood"`
}

// ExtractVerdict recovers a normalized verdict from raw completion text. It
// strips optional code fences, attempts a strict JSON parse, and falls back
// to a keyword heuristic for prose answers. The fallback is deliberately
// imprecise and always reports confidence 50; it must not be upgraded into
// something it isn't.
func ExtractVerdict(text string) detector.Verdict {
	if strings.TrimSpace(text) == "" {
		return detector.Unavailable(ModelName)
	}

	cleaned := detector.StripCodeFences(text)

	var parsed verdictPayload
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return keywordFallback(text)
	}

	// Valid JSON that carries neither a verdict nor a likelihood is not a
	// verdict at all. A findings-only answer must not turn into a
	// highest-confidence REAL.
	if parsed.Verdict == "" && parsed.AILikelihood == nil && parsed.RealLikelihood == nil {
		return detector.Unavailable(ModelName)
	}

	var ai, real float64
	switch {
	case parsed.AILikelihood != nil && parsed.RealLikelihood != nil:
		ai, real = *parsed.AILikelihood, *parsed.RealLikelihood
	case parsed.AILikelihood != nil:
		ai = *parsed.AILikelihood
		real = 100 - ai
	case parsed.RealLikelihood != nil:
		real = *parsed.RealLikelihood
		ai = 100 - real
	default:
		ai, real = 0, 100
	}

	confidence := 0.0
	if parsed.Confidence != nil {
		confidence = *parsed.Confidence
	}

	return detector.FromScores(ai, real, detector.Label(parsed.Verdict), confidence, ModelName)
}

// ExtractVerdict satisfies the orchestrator's optional verdict-extractor
// interface.
func (c *Client) ExtractVerdict(text string) detector.Verdict {
	return ExtractVerdict(text)
}

func keywordFallback(text string) detector.Verdict {
	lower := strings.ToLower(text)
	isAI := strings.Contains(lower, "ai-generated") || strings.Contains(lower, "artificial")
	isReal := strings.Contains(lower, "real") || strings.Contains(lower, "authentic")

	aiScore, realScore := 30.0, 30.0
	if isAI {
		aiScore = 70
	}
	if isReal {
		realScore = 70
	}

	label := detector.LabelReal
	if isAI {
		label = detector.LabelAIGenerated
	}

	return detector.Verdict{
		AIScore:    aiScore,
		RealScore:  realScore,
		Verdict:    label,
		Confidence: 50,
		Model:      ModelName,
	}
}
