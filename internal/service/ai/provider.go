// Package ai wraps the generative-text services the assistant can fall back
// to for free-form questions.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/model/chat"
)

var (
	// ErrNoCredential means no provider can be built; the generative step is skipped.
	ErrNoCredential = errors.New("generative service credential not configured")
	// ErrEmptyReply is returned when a service answered without usable text.
	ErrEmptyReply = errors.New("generative service returned no text")
)

// Turn authors.
const (
	AuthorUser = "user"
	AuthorBot  = "bot"
)

// Turn is one conversational exchange sent to a provider.
type Turn struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Request is a provider-neutral generation request.
type Request struct {
	System          string
	Turns           []Turn
	Temperature     float32
	MaxOutputTokens int
	TopP            float32
}

// Provider produces one reply for a conversation.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// TurnsFrom maps a transcript onto turns. Markup messages are reduced to
// text with plain; empty messages are skipped.
func TurnsFrom(messages []chat.Message, plain func(string) string) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		if m.IsMarkup && plain != nil {
			content = plain(content)
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		author := AuthorBot
		if m.Role == chat.RoleUser {
			author = AuthorUser
		}
		turns = append(turns, Turn{Author: author, Content: content})
	}
	return turns
}

// NewProvider builds the provider selected by cfg.AI.Provider.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if !cfg.GenerativeEnabled() {
		return nil, ErrNoCredential
	}

	switch cfg.AI.Provider {
	case "http":
		return NewHTTPProvider(cfg.AI), nil
	case "ark":
		return NewArkProvider(ctx, cfg.AI, cfg.Ark)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.AI)
	case "anthropic":
		return NewAnthropicProvider(cfg.AI), nil
	default:
		return nil, fmt.Errorf("unsupported generative provider %q", cfg.AI.Provider)
	}
}
