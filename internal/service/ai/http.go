package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gcet-assistant/backend/internal/config"
)

// replyPaths are the response shapes seen from compatible services, most
// specific first.
var replyPaths = []string{
	"candidates.0.content.parts.0.text",
	"candidates.0.content",
	"candidates.0.output",
	"choices.0.message.content",
	"reply",
	"text",
	"output",
}

// HTTPProvider posts the conversation to a generic generate endpoint.
type HTTPProvider struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPProvider(cfg config.AIConfig) *HTTPProvider {
	return &HTTPProvider{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *HTTPProvider) Name() string { return "http" }

type generateRequest struct {
	System          string  `json:"system,omitempty"`
	Messages        []Turn  `json:"messages"`
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float32 `json:"topP"`
}

// Generate posts the turns with the credential in both header styles and
// extracts the reply from the first populated known field.
func (p *HTTPProvider) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(generateRequest{
		System:          req.System,
		Messages:        req.Turns,
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
		TopP:            req.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("generate http error: status=%d", resp.StatusCode)
	}
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("generate response is not JSON")
	}

	return ExtractReply(raw)
}

// ExtractReply returns the first non-empty string found at one of the known
// reply paths.
func ExtractReply(raw []byte) (string, error) {
	for _, path := range replyPaths {
		res := gjson.GetBytes(raw, path)
		if res.Type != gjson.String {
			continue
		}
		if text := strings.TrimSpace(res.String()); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyReply
}
