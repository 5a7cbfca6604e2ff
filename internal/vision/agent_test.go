package vision

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"casefile-backend/internal/detector"
	"casefile-backend/internal/detector/hivevlm"
)

type fakeDetector struct {
	verdict *detector.Verdict
	enabled bool
}

func (f *fakeDetector) Enabled() bool { return f.enabled }

func (f *fakeDetector) Detect(_ context.Context, _ io.Reader, _ string) *detector.Verdict {
	return f.verdict
}

type fakeModel struct {
	response string
	err      error
	delay    time.Duration
	gotPrompt string
	gotImage  []byte
}

func (f *fakeModel) Analyze(ctx context.Context, image []byte, _ string, prompt string) (string, error) {
	f.gotPrompt = prompt
	f.gotImage = image
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

const goodResponse = `{
	"findings": [
		{"category": "anatomy", "issue": "warped_hand", "description": "Right hand geometry is implausible.", "severity": "high"},
		{"category": "lighting", "issue": "flat_shadows", "description": "Shadow detail is uniformly flat.", "severity": "low"}
	]
}`

func TestAgentRunFullPipeline(t *testing.T) {
	v := detector.FromAIScore(90, "sightengine-genai")
	det := &fakeDetector{verdict: &v, enabled: true}
	model := &fakeModel{response: goodResponse}
	agent := &Agent{Detector: det, Model: model, Timeout: time.Second}

	result, err := agent.Run(context.Background(), []byte("imagebytes"), "photo.jpg", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.DetectorVerdict == nil || result.DetectorVerdict.Verdict != detector.LabelAIGenerated {
		t.Errorf("detector verdict not carried into result: %+v", result.DetectorVerdict)
	}
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(result.Findings))
	}
	if result.AILikelihood != 0.30 {
		t.Errorf("expected likelihood 0.30 for high+low, got %v", result.AILikelihood)
	}
	if result.AnalyzedAt.IsZero() {
		t.Errorf("analyzed_at not set")
	}
	if !strings.Contains(model.gotPrompt, "AI Generated Probability: 90.0%") {
		t.Errorf("detector verdict not folded into prompt")
	}
	if string(model.gotImage) != "imagebytes" {
		t.Errorf("image bytes not passed through to the model")
	}
}

func TestAgentRunDetectorDownStillAnalyzes(t *testing.T) {
	det := &fakeDetector{verdict: nil, enabled: true}
	model := &fakeModel{response: goodResponse}
	agent := &Agent{Detector: det, Model: model, Timeout: time.Second}

	result, err := agent.Run(context.Background(), []byte("x"), "photo.jpg", nil)
	if err != nil {
		t.Fatalf("detector failure must not abort the run: %v", err)
	}
	if result.DetectorVerdict != nil {
		t.Errorf("expected no detector verdict, got %+v", result.DetectorVerdict)
	}
	if len(result.Findings) != 2 {
		t.Errorf("findings lost when detector is down")
	}
	if !strings.Contains(model.gotPrompt, detectorUnavailableNotice) {
		t.Errorf("prompt missing unavailable notice when detector is down")
	}
}

func TestAgentRunNilDetector(t *testing.T) {
	model := &fakeModel{response: goodResponse}
	agent := &Agent{Model: model, Timeout: time.Second}
	if _, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil); err != nil {
		t.Fatalf("nil detector must be tolerated: %v", err)
	}
}

func TestAgentRunTimeout(t *testing.T) {
	model := &fakeModel{delay: 200 * time.Millisecond, response: goodResponse}
	agent := &Agent{Model: model, Timeout: 10 * time.Millisecond}

	_, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	code, retryable := ClassifyFailure(err)
	if code != ErrorCodeTimeout || !retryable {
		t.Errorf("timeout classified as %s retryable=%v", code, retryable)
	}
}

func TestAgentRunUpstreamFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	agent := &Agent{Model: model, Timeout: time.Second}

	_, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	code, retryable := ClassifyFailure(err)
	if code != ErrorCodeUpstream || !retryable {
		t.Errorf("upstream failure classified as %s retryable=%v", code, retryable)
	}
}

func TestAgentRunFencedResponse(t *testing.T) {
	model := &fakeModel{response: "```json\n" + goodResponse + "\n```"}
	agent := &Agent{Model: model, Timeout: time.Second}

	result, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	if err != nil {
		t.Fatalf("fenced response must parse: %v", err)
	}
	if len(result.Findings) != 2 {
		t.Errorf("fenced response lost findings")
	}
}

func TestAgentRunMalformedResponse(t *testing.T) {
	model := &fakeModel{response: "I think this image looks artificial."}
	agent := &Agent{Model: model, Timeout: time.Second}

	_, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	code, retryable := ClassifyFailure(err)
	if code != ErrorCodeMalformed || retryable {
		t.Errorf("malformed response classified as %s retryable=%v", code, retryable)
	}
}

func TestAgentRunSchemaViolation(t *testing.T) {
	model := &fakeModel{response: `{"findings": [{"category": "weather", "issue": "x", "description": "y", "severity": "high"}]}`}
	agent := &Agent{Model: model, Timeout: time.Second}

	_, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %T: %v", err, err)
	}
}

// extractingModel delegates verdict extraction to the production extractor so
// the agent's optional-interface path is exercised against real parsing.
type extractingModel struct {
	fakeModel
}

func (m *extractingModel) ExtractVerdict(text string) detector.Verdict {
	return hivevlm.ExtractVerdict(text)
}

func TestAgentRunFindingsOnlyResponseHasNoModelVerdict(t *testing.T) {
	model := &extractingModel{fakeModel{response: goodResponse}}
	agent := &Agent{Model: model, Timeout: time.Second}

	result, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ModelVerdict != nil {
		t.Fatalf("findings-only response must not yield a model verdict, got %+v", result.ModelVerdict)
	}
}

func TestAgentRunAttachesReportedModelVerdict(t *testing.T) {
	response := `{"findings": [], "verdict": "AI-GENERATED", "confidence": 88, "ai_likelihood": 85, "real_likelihood": 15}`
	model := &extractingModel{fakeModel{response: response}}
	agent := &Agent{Model: model, Timeout: time.Second}

	result, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ModelVerdict == nil {
		t.Fatalf("reported model verdict not attached")
	}
	if result.ModelVerdict.Verdict != detector.LabelAIGenerated || result.ModelVerdict.AIScore != 85 {
		t.Errorf("model verdict mangled: %+v", result.ModelVerdict)
	}
}

func TestAgentRunDisabledDetectorSkipsDetect(t *testing.T) {
	v := detector.FromAIScore(90, "x")
	det := &fakeDetector{verdict: &v, enabled: false}
	model := &fakeModel{response: goodResponse}
	agent := &Agent{Detector: det, Model: model, Timeout: time.Second}

	result, err := agent.Run(context.Background(), []byte("x"), "a.jpg", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.DetectorVerdict != nil {
		t.Errorf("disabled detector must not contribute a verdict")
	}
}
