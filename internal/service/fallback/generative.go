package fallback

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/render"
	"github.com/gcet-assistant/backend/internal/service/ai"
)

// GenerationParams are the sampling settings sent with every request.
type GenerationParams struct {
	Temperature     float32
	MaxOutputTokens int
	TopP            float32
	Timeout         time.Duration
}

// GenerativeStrategy asks a generative-text provider, sending the whole
// transcript as conversational turns.
type GenerativeStrategy struct {
	provider ai.Provider
	prompt   *ai.PromptBuilder
	params   GenerationParams
	logger   *zap.Logger
}

func NewGenerativeStrategy(provider ai.Provider, options profile.Options, params GenerationParams, logger *zap.Logger) *GenerativeStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.Timeout <= 0 {
		params.Timeout = 10 * time.Second
	}
	return &GenerativeStrategy{
		provider: provider,
		prompt:   ai.NewPromptBuilder(options),
		params:   params,
		logger:   logger.Named("generative"),
	}
}

func (s *GenerativeStrategy) Name() string { return "generative" }

func (s *GenerativeStrategy) Try(ctx context.Context, req Request) (Reply, bool) {
	if s.provider == nil {
		return Reply{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.params.Timeout)
	defer cancel()

	turns := ai.TurnsFrom(req.Transcript, render.PlainText)
	if n := len(turns); n == 0 || turns[n-1].Author != ai.AuthorUser || turns[n-1].Content != req.Text {
		turns = append(turns, ai.Turn{Author: ai.AuthorUser, Content: req.Text})
	}

	text, err := s.provider.Generate(ctx, ai.Request{
		System:          s.prompt.Build(req.Context),
		Turns:           turns,
		Temperature:     s.params.Temperature,
		MaxOutputTokens: s.params.MaxOutputTokens,
		TopP:            s.params.TopP,
	})
	if err != nil {
		s.logger.Warn("generation failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		return Reply{}, false
	}
	return Reply{Text: text, Source: s.Name()}, true
}
