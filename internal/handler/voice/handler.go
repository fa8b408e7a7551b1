// Package voice accepts recorded audio, transcribes it and submits the text
// as a chat message.
package voice

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	chathandler "github.com/gcet-assistant/backend/internal/handler/chat"
	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/speech"
	speechservice "github.com/gcet-assistant/backend/internal/service/speech"
	"github.com/gcet-assistant/backend/pkg/utils"
)

const maxUpload = 32 << 20

type Transcriber interface {
	Enabled() bool
	Transcribe(ctx context.Context, req speech.Request) (speech.Transcript, error)
}

type Submitter interface {
	Submit(ctx context.Context, text string) ([]chat.Message, error)
}

type Handler struct {
	speech    Transcriber
	assistant Submitter
	language  string
	logger    *zap.Logger
}

// New builds the handler; language is used when the form does not name one.
func New(t Transcriber, s Submitter, language string, logger *zap.Logger) *Handler {
	return &Handler{speech: t, assistant: s, language: language, logger: logger.Named("voice-handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/voice", h.handleVoice)
}

type voiceResponse struct {
	Transcript speech.Transcript `json:"transcript"`
	Messages   []chat.Message    `json:"messages"`
}

func (h *Handler) handleVoice(w http.ResponseWriter, r *http.Request) {
	if !h.speech.Enabled() {
		utils.RespondError(w, http.StatusNotImplemented, speechservice.ErrSpeechDisabled.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	language := r.FormValue("language")
	if language == "" {
		language = h.language
	}

	transcript, err := h.speech.Transcribe(r.Context(), speech.Request{
		ID:        uuid.NewString(),
		AudioData: file,
		Format:    inferAudioFormat(header.Filename),
		Language:  language,
	})
	switch {
	case errors.Is(err, speechservice.ErrSpeechDisabled):
		utils.RespondError(w, http.StatusNotImplemented, err.Error())
		return
	case err != nil:
		h.logger.Warn("transcription failed", zap.Error(err))
		utils.RespondError(w, http.StatusBadGateway, "speech recognition failed")
		return
	}

	if strings.TrimSpace(transcript.Text) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "no speech detected")
		return
	}

	messages, err := h.assistant.Submit(r.Context(), transcript.Text)
	if err != nil {
		status, message := chathandler.TurnStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("voice turn failed", zap.Error(err))
		}
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, voiceResponse{Transcript: transcript, Messages: messages})
}

func inferAudioFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "mp3"
	case ".ogg", ".opus":
		return "ogg"
	case ".pcm", ".raw":
		return "pcm"
	default:
		return "wav"
	}
}
