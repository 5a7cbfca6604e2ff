// Package hivevlm wraps Hive's vision-language model behind its
// OpenAI-compatible chat-completion API.
package hivevlm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "https://api.thehive.ai/api/v3"
	defaultModel   = "hive/vision-language-model"
	// ModelName identifies this backend in verdicts and reports.
	ModelName = "hive-vlm"

	maxCompletionTokens = 1000
	// Low temperature keeps forensic output comparatively stable across runs.
	completionTemperature = 0.3
)

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Client calls the Hive VLM. Unlike the binary detector, failures here are
// returned to the caller; the orchestrator decides whether they are fatal.
type Client struct {
	api   *openai.Client
	model string
}

// New constructs a Hive VLM client. baseURL and model fall back to Hive's
// production endpoint and default model when empty.
func New(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	// Transport-level backstop; per-call deadlines come from the context.
	cfg.HTTPClient = &http.Client{Timeout: 2 * time.Minute}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Analyze sends the image and prompt as one multimodal user message and
// returns the raw completion text.
func (c *Client) Analyze(ctx context.Context, image []byte, fileName string, prompt string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", MIMEForFile(fileName), base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxCompletionTokens,
		Temperature: completionTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vlm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vlm response missing choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("vlm response empty content")
	}
	return content, nil
}

// MIMEForFile infers an image MIME type from the file extension, defaulting
// to image/jpeg when unknown.
func MIMEForFile(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "image/jpeg"
}
