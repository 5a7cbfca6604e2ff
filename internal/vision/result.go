package vision

import (
	"time"

	"casefile-backend/internal/detector"
)

// Result is the persisted outcome of one full analysis pass. DetectorVerdict
// is the binary detector's opinion, ModelVerdict the VLM's own extracted
// verdict when the model reports one; either may be absent.
type Result struct {
	Findings        []Finding         `json:"findings"`
	AILikelihood    float64           `json:"ai_likelihood"`
	DetectorVerdict *detector.Verdict `json:"detector_verdict,omitempty"`
	ModelVerdict    *detector.Verdict `json:"model_verdict,omitempty"`
	AnalyzedAt      time.Time         `json:"analyzed_at"`
}
