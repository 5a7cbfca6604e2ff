// Package sightengine wraps the SightEngine AI-generated image detection API.
// The adapter is a soft signal: every failure mode yields a nil verdict and a
// log line, never an error, so the pipeline can proceed without it.
package sightengine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"casefile-backend/internal/detector"
	"casefile-backend/internal/shared/telemetry"
)

const (
	defaultBaseURL = "https://api.sightengine.com/1.0/check.json"
	genAIModel     = "genai"
	// ModelName identifies this backend in verdicts and reports.
	ModelName = "sightengine"
)

// Client calls the SightEngine check endpoint. A client without credentials is
// valid; it is permanently disabled and Detect always returns nil.
type Client struct {
	apiUser    string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

// New constructs a SightEngine client. Empty credentials produce a disabled
// client rather than an error; absence of this detector must never block
// startup.
func New(apiUser, apiSecret string) *Client {
	return &Client{
		apiUser:    strings.TrimSpace(apiUser),
		apiSecret:  strings.TrimSpace(apiSecret),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiUser != "" && c.apiSecret != ""
}

type checkResponse struct {
	Status string `json:"status"`
	Type   *struct {
		AIGenerated *float64 `json:"ai_generated"`
	} `json:"type"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Detect submits the image for AI-generated classification and returns a
// normalized verdict, or nil when the detector is disabled, the call fails,
// or the response does not have the expected shape. Fire-once, no retries.
func (c *Client) Detect(ctx context.Context, image io.Reader, fileName string) *detector.Verdict {
	if !c.Enabled() {
		telemetry.Warn("sightengine.disabled", map[string]any{
			"reason": "credentials not configured",
		})
		return nil
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("media", fileName)
	if err != nil {
		telemetry.Error("sightengine.request_build", map[string]any{"error": err.Error()})
		return nil
	}
	if _, err := io.Copy(part, image); err != nil {
		telemetry.Error("sightengine.request_build", map[string]any{"error": err.Error()})
		return nil
	}
	_ = writer.WriteField("models", genAIModel)
	_ = writer.WriteField("api_user", c.apiUser)
	_ = writer.WriteField("api_secret", c.apiSecret)
	if err := writer.Close(); err != nil {
		telemetry.Error("sightengine.request_build", map[string]any{"error": err.Error()})
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		telemetry.Error("sightengine.request_build", map[string]any{"error": err.Error()})
		return nil
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.Error("sightengine.request_failed", map[string]any{"error": err.Error()})
		return nil
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		telemetry.Error("sightengine.response_read", map[string]any{"error": err.Error()})
		return nil
	}

	var parsed checkResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		telemetry.Error("sightengine.response_parse", map[string]any{
			"status": resp.StatusCode,
			"error":  err.Error(),
		})
		return nil
	}

	if parsed.Error != nil {
		telemetry.Error("sightengine.api_error", map[string]any{
			"status":  resp.StatusCode,
			"type":    parsed.Error.Type,
			"message": parsed.Error.Message,
		})
		return nil
	}

	// The score lives under type.ai_generated; any other shape means the
	// provider schema drifted and we refuse to guess.
	if parsed.Status != "success" || parsed.Type == nil || parsed.Type.AIGenerated == nil {
		telemetry.Warn("sightengine.unexpected_shape", map[string]any{"status": resp.StatusCode})
		return nil
	}

	verdict := detector.FromAIScore(*parsed.Type.AIGenerated*100, ModelName)
	telemetry.Info("sightengine.verdict", map[string]any{
		"verdict":    string(verdict.Verdict),
		"ai_score":   verdict.AIScore,
		"confidence": verdict.Confidence,
	})
	return &verdict
}
