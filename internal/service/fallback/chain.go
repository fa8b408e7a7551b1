// Package fallback answers free-form input by trying response sources in a
// fixed order until one produces a reply.
package fallback

import (
	"context"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/profile"
)

// Request carries everything a strategy may use.
type Request struct {
	Text       string
	Transcript []chat.Message
	Context    profile.UserContext
}

// Reply is the single answer shown for a turn.
type Reply struct {
	Text   string
	Markup bool
	Source string
}

// Message converts the reply into a bot transcript message.
func (r Reply) Message() chat.Message {
	if r.Markup {
		return chat.BotMarkup(r.Text)
	}
	return chat.BotText(r.Text)
}

// Strategy is one response source. Try reports false to pass control to the
// next strategy; it never returns an error.
type Strategy interface {
	Name() string
	Try(ctx context.Context, req Request) (Reply, bool)
}

// Chain runs strategies in order and stops at the first success.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, logger: logger.Named("fallback")}
}

// Respond always returns a non-empty reply.
func (c *Chain) Respond(ctx context.Context, req Request) Reply {
	for _, s := range c.strategies {
		reply, ok := s.Try(ctx, req)
		if !ok || reply.Text == "" {
			continue
		}
		if reply.Source == "" {
			reply.Source = s.Name()
		}
		c.logger.Debug("fallback step answered", zap.String("step", s.Name()))
		return reply
	}
	return Reply{Text: helpMessages[0], Source: "default"}
}

// Names lists the strategies in the order they are tried.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}
