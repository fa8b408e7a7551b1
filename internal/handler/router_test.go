package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/service/assistant"
	chatservice "github.com/gcet-assistant/backend/internal/service/chat"
	"github.com/gcet-assistant/backend/internal/service/content"
	"github.com/gcet-assistant/backend/internal/service/dialog"
	"github.com/gcet-assistant/backend/internal/service/fallback"
	profileservice "github.com/gcet-assistant/backend/internal/service/profile"
	"github.com/gcet-assistant/backend/internal/service/speech"
	"github.com/gcet-assistant/backend/internal/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	slots, err := storage.NewFileSlots(t.TempDir())
	require.NoError(t, err)
	transcript := chatservice.NewStore(slots, logger)
	require.NoError(t, transcript.Load(ctx))
	profiles := profileservice.NewStore(slots, logger)
	profiles.Load(ctx)

	resolver := content.NewResolver(content.NewMockSource())
	a := assistant.New(assistant.Deps{
		Transcript: transcript,
		Profiles:   profiles,
		Resolver:   resolver,
		Fallback:   fallback.NewChain(logger, fallback.NewHeuristicStrategy(resolver, nil, logger)),
		Defaults:   profile.UserContext{Branch: "CSE", Semester: 5, Batch: "2025"},
		Logger:     logger,
	})

	return NewRouter(a, speech.NewServiceWith(nil), Options{
		CORSOrigins:    []string{"*"},
		SpeechLanguage: "en-IN",
		ProfileOptions: profile.Seed(),
	}, logger)
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, false, got["speech"])
	assert.NotEmpty(t, got["session"])
}

func TestClarifyThenResolveOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, http.MethodPost, "/api/messages", `{"text":"exam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var first struct {
		Messages []chat.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Len(t, first.Messages, 2)
	assert.Equal(t, dialog.Question(intent.Exam), first.Messages[1].Content)

	rec = serve(r, http.MethodPost, "/api/messages", `{"text":"upcoming"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		Messages []chat.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.Len(t, second.Messages, 2)
	assert.True(t, second.Messages[1].IsMarkup)
	assert.Contains(t, second.Messages[1].Content, "Exam schedule")

	rec = serve(r, http.MethodGet, "/api/transcript", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var transcript struct {
		Messages []chat.Message `json:"messages"`
		Typing   bool           `json:"typing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	assert.Len(t, transcript.Messages, 5)
	assert.False(t, transcript.Typing)
}

func TestEmptySubmitRejected(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodPost, "/api/messages", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), assistant.ErrEmptyInput.Error())
}

func TestVoiceDisabled(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodPost, "/api/voice", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
