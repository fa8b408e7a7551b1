// Package chat serves the transcript and the submit/clear operations.
package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/service/assistant"
	"github.com/gcet-assistant/backend/pkg/utils"
)

// Assistant is the part of the assistant session these routes drive.
type Assistant interface {
	Submit(ctx context.Context, text string) ([]chat.Message, error)
	Clear(ctx context.Context) ([]chat.Message, error)
	Transcript() []chat.Message
	Typing() bool
	History() []chat.Conversation
}

// Handler serves transcript routes.
type Handler struct {
	assistant Assistant
	logger    *zap.Logger
}

func New(a Assistant, logger *zap.Logger) *Handler {
	return &Handler{assistant: a, logger: logger.Named("chat-handler")}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/transcript", h.handleTranscript)
	r.Delete("/transcript", h.handleClear)
	r.Post("/messages", h.handleSubmit)
	r.Get("/history", h.handleHistory)
}

type transcriptResponse struct {
	Messages []chat.Message `json:"messages"`
	Typing   bool           `json:"typing"`
}

func (h *Handler) handleTranscript(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, transcriptResponse{
		Messages: h.assistant.Transcript(),
		Typing:   h.assistant.Typing(),
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := h.assistant.Submit(r.Context(), payload.Text)
	if err != nil {
		h.respondTurnError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Message{"messages": messages})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	messages, err := h.assistant.Clear(r.Context())
	if err != nil {
		h.respondTurnError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Message{"messages": messages})
}

func (h *Handler) handleHistory(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Conversation{
		"conversations": h.assistant.History(),
	})
}

func (h *Handler) respondTurnError(w http.ResponseWriter, err error) {
	status, message := TurnStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("turn failed", zap.Error(err))
	}
	utils.RespondError(w, status, message)
}

// TurnStatus maps an assistant error to an HTTP status and a message safe
// to show the user.
func TurnStatus(err error) (int, string) {
	switch {
	case errors.Is(err, assistant.ErrEmptyInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, assistant.ErrBusy):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "something went wrong, please try again"
	}
}
