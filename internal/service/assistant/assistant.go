// Package assistant runs one chat session: it takes submitted text through
// the dialog machine, resolves or falls back, and records both sides of the
// turn in the transcript.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
	"github.com/gcet-assistant/backend/internal/events"
	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/content"
	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/render"
	chatservice "github.com/gcet-assistant/backend/internal/service/chat"
	"github.com/gcet-assistant/backend/internal/service/dialog"
	"github.com/gcet-assistant/backend/internal/service/fallback"
	profileservice "github.com/gcet-assistant/backend/internal/service/profile"
)

var (
	// ErrEmptyInput rejects blank submissions.
	ErrEmptyInput = errors.New("message is empty")
	// ErrBusy rejects a submission while another turn is in flight.
	ErrBusy = errors.New("a reply is already in progress")
)

// Resolver turns a clarified intent into content.
type Resolver interface {
	Resolve(tag intent.Tag, qualifier string, uc profile.UserContext) (content.StructuredContent, error)
}

// Responder answers free-form text.
type Responder interface {
	Respond(ctx context.Context, req fallback.Request) fallback.Reply
}

// Deps are the collaborators of an Assistant.
type Deps struct {
	Transcript *chatservice.Store
	Profiles   *profileservice.Store
	Resolver   Resolver
	Fallback   Responder
	Hub        *events.Hub
	Defaults   profile.UserContext
	Logger     *zap.Logger
}

// Assistant is the public surface renderers drive.
type Assistant struct {
	transcript *chatservice.Store
	profiles   *profileservice.Store
	machine    *dialog.Machine
	resolver   Resolver
	fallback   Responder
	hub        *events.Hub
	defaults   profile.UserContext
	logger     *zap.Logger
	session    chat.Session

	turn   sync.Mutex
	typing atomic.Bool
}

// New assembles an assistant. The stores must already be loaded.
func New(deps Deps) *Assistant {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := deps.Hub
	if hub == nil {
		hub = events.NewHub(0)
	}
	return &Assistant{
		transcript: deps.Transcript,
		profiles:   deps.Profiles,
		machine:    dialog.New(),
		resolver:   deps.Resolver,
		fallback:   deps.Fallback,
		hub:        hub,
		defaults:   deps.Defaults,
		logger:     logger.Named("assistant"),
		session:    chat.Session{ID: uuid.NewString(), StartedAt: time.Now().UTC()},
	}
}

// Submit processes one input and returns the user message and the single
// bot reply appended for it.
func (a *Assistant) Submit(ctx context.Context, text string) ([]chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if !a.turn.TryLock() {
		return nil, ErrBusy
	}
	defer a.turn.Unlock()

	a.setTyping(true)
	defer a.setTyping(false)

	userMsg := a.append(ctx, chat.UserText(text))
	reply := a.reply(ctx, text)
	botMsg := a.append(ctx, reply)

	return []chat.Message{userMsg, botMsg}, nil
}

func (a *Assistant) reply(ctx context.Context, text string) chat.Message {
	uc := a.profiles.Resolved(a.defaults)
	decision := a.machine.Step(text)

	switch decision.Action {
	case dialog.ActionClarify:
		a.logger.Debug("asking clarification", zap.String("intent", string(decision.Intent)))
		return chat.BotText(decision.Question)
	case dialog.ActionResolve:
		if msg, ok := a.resolve(decision, uc); ok {
			return msg
		}
	}

	r := a.fallback.Respond(ctx, fallback.Request{
		Text:       text,
		Transcript: a.transcript.Messages(),
		Context:    uc,
	})
	return r.Message()
}

func (a *Assistant) resolve(d dialog.Decision, uc profile.UserContext) (chat.Message, bool) {
	c, err := a.resolver.Resolve(d.Intent, d.Qualifier, uc)
	if err != nil {
		a.logger.Warn("resolve failed", zap.String("intent", string(d.Intent)), zap.Error(err))
		return chat.Message{}, false
	}
	markup, err := render.Markup(c)
	if err != nil {
		a.logger.Warn("format failed", zap.String("intent", string(d.Intent)), zap.Error(err))
		return chat.Message{}, false
	}
	return chat.BotMarkup(markup), true
}

// append stores msg and announces it. A failed write is logged; the message
// stays in the live transcript so the turn still completes.
func (a *Assistant) append(ctx context.Context, msg chat.Message) chat.Message {
	stored, err := a.transcript.Append(ctx, msg)
	if err != nil {
		a.logger.Warn("transcript write failed", zap.Error(err))
	}
	a.hub.Publish(events.MessageEvent(stored))
	return stored
}

func (a *Assistant) setTyping(on bool) {
	a.typing.Store(on)
	a.hub.Publish(events.TypingEvent(on))
}

// Clear empties the transcript down to the welcome message and drops any
// pending clarification.
func (a *Assistant) Clear(ctx context.Context) ([]chat.Message, error) {
	if !a.turn.TryLock() {
		return nil, ErrBusy
	}
	defer a.turn.Unlock()

	a.machine.Reset()
	if _, err := a.transcript.Clear(ctx); err != nil {
		return nil, err
	}
	messages := a.transcript.Messages()
	a.hub.Publish(events.ClearedEvent(messages))
	return messages, nil
}

// SaveProfile replaces the stored user context.
func (a *Assistant) SaveProfile(ctx context.Context, uc profile.UserContext) (profile.UserContext, error) {
	saved, err := a.profiles.Save(ctx, uc)
	if err != nil {
		return profile.UserContext{}, err
	}
	a.hub.Publish(events.ProfileEvent(saved))
	return saved, nil
}

// Transcript returns the live transcript.
func (a *Assistant) Transcript() []chat.Message {
	return a.transcript.Messages()
}

// Typing reports whether a turn is in flight.
func (a *Assistant) Typing() bool {
	return a.typing.Load()
}

// Profile returns the saved context, which may have empty fields.
func (a *Assistant) Profile() profile.UserContext {
	return a.profiles.Current()
}

// ResolvedProfile returns the context content requests use.
func (a *Assistant) ResolvedProfile() profile.UserContext {
	return a.profiles.Resolved(a.defaults)
}

// History lists past exchanges, newest first.
func (a *Assistant) History() []chat.Conversation {
	return chat.Summarize(a.transcript.Messages(), render.PlainText)
}

// Pending exposes the clarification being waited on.
func (a *Assistant) Pending() (dialog.PendingIntent, bool) {
	return a.machine.Pending()
}

func (a *Assistant) Session() chat.Session {
	return a.session
}

// Events returns the hub state changes are published on.
func (a *Assistant) Events() *events.Hub {
	return a.hub
}
