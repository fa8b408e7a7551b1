package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/gcet-assistant/backend/internal/config"
)

const defaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// AnthropicProvider calls the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicProvider(cfg config.AIConfig, opts ...option.RequestOption) *AnthropicProvider {
	base := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.URL != "" {
		base = append(base, option.WithBaseURL(cfg.URL))
	}

	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (string, error) {
	conv := make([]anthropic.MessageParam, 0, len(req.Turns))
	for _, t := range req.Turns {
		// The conversation must open with a user turn.
		if len(conv) == 0 && t.Author != AuthorUser {
			continue
		}
		if t.Author == AuthorUser {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	if len(conv) == 0 {
		return "", fmt.Errorf("anthropic generate: no user turn")
	}

	params := anthropic.MessageNewParams{
		Model:       p.model,
		MaxTokens:   int64(req.MaxOutputTokens),
		Messages:    conv,
		Temperature: anthropic.Float(float64(req.Temperature)),
		TopP:        anthropic.Float(float64(req.TopP)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(v.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
