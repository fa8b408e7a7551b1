// Package speech turns recorded voice input into text through a remote
// speech recognition service.
package speech

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/model/speech"
)

// ErrSpeechDisabled is returned when no speech credentials are configured.
var ErrSpeechDisabled = errors.New("speech recognition is not configured")

// Transcriber produces one transcript per clip.
type Transcriber interface {
	Transcribe(ctx context.Context, req speech.Request) (speech.Transcript, error)
}

// Service exposes voice transcription, or reports it as disabled.
type Service struct {
	enabled bool
	client  Transcriber
}

func NewService(cfg config.SpeechConfig, logger *zap.Logger) *Service {
	if !cfg.Enabled() {
		return &Service{}
	}
	return &Service{enabled: true, client: NewASRClient(cfg, logger)}
}

// NewServiceWith wraps an existing transcriber.
func NewServiceWith(t Transcriber) *Service {
	return &Service{enabled: t != nil, client: t}
}

func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Transcribe returns ErrSpeechDisabled when the service is not configured.
func (s *Service) Transcribe(ctx context.Context, req speech.Request) (speech.Transcript, error) {
	if !s.Enabled() {
		return speech.Transcript{}, ErrSpeechDisabled
	}
	return s.client.Transcribe(ctx, req)
}
