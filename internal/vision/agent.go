package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"casefile-backend/internal/detector"
	"casefile-backend/internal/shared/metrics"
	"casefile-backend/internal/shared/telemetry"
)

// BinaryDetector is the optional specialized classifier consulted before the
// VLM. A nil verdict means the detector could not decide; it is never an
// error.
type BinaryDetector interface {
	Enabled() bool
	Detect(ctx context.Context, image io.Reader, fileName string) *detector.Verdict
}

// ForensicModel is the vision-language model that performs the visual pass.
type ForensicModel interface {
	Analyze(ctx context.Context, image []byte, fileName, prompt string) (string, error)
}

// VerdictExtractor is implemented by models whose raw output may embed a
// verdict of its own alongside the findings.
type VerdictExtractor interface {
	ExtractVerdict(text string) detector.Verdict
}

const defaultVLMTimeout = 30 * time.Second

// Agent runs the two-stage analysis: binary detector first, then the VLM
// with the detector's verdict folded into the prompt.
type Agent struct {
	Detector BinaryDetector
	Model    ForensicModel
	Timeout  time.Duration
	Env      string
}

// Run analyzes one image end to end. The detector stage degrades softly; any
// VLM-stage failure aborts with a classified error and no partial result.
func (a *Agent) Run(ctx context.Context, image []byte, fileName string, meta map[string]string) (*Result, error) {
	var verdict *detector.Verdict
	if a.Detector != nil && a.Detector.Enabled() {
		verdict = a.Detector.Detect(ctx, bytes.NewReader(image), fileName)
	}
	if verdict == nil || !verdict.Available() {
		metrics.IncDetectorUnavailable()
	}

	prompt := BuildPrompt(verdict, meta)

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultVLMTimeout
	}
	modelCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := a.Model.Analyze(modelCtx, image, fileName, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, sanitizeError(err))
	}

	if a.Env != "production" {
		telemetry.Info("vlm raw response", map[string]any{
			"file_name": fileName,
			"length":    len(raw),
			"response":  raw,
		})
	}

	cleaned := detector.StripCodeFences(raw)
	findings, err := ParseFindings([]byte(cleaned))
	if err != nil {
		telemetry.Error("vlm response rejected", map[string]any{
			"file_name": fileName,
			"error":     sanitizeError(err),
		})
		return nil, err
	}

	result := &Result{
		Findings:        findings,
		AILikelihood:    Score(findings),
		DetectorVerdict: verdict,
		AnalyzedAt:      time.Now().UTC(),
	}
	if extractor, ok := a.Model.(VerdictExtractor); ok {
		if mv := extractor.ExtractVerdict(raw); mv.Available() {
			result.ModelVerdict = &mv
		}
	}
	return result, nil
}
