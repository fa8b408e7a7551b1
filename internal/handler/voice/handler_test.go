package voice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/speech"
	"github.com/gcet-assistant/backend/internal/service/assistant"
)

type fakeTranscriber struct {
	enabled bool
	text    string
	err     error
	got     speech.Request
	audio   []byte
}

func (f *fakeTranscriber) Enabled() bool { return f.enabled }

func (f *fakeTranscriber) Transcribe(_ context.Context, req speech.Request) (speech.Transcript, error) {
	f.got = req
	f.audio, _ = io.ReadAll(req.AudioData)
	if f.err != nil {
		return speech.Transcript{}, f.err
	}
	return speech.Transcript{RequestID: req.ID, Text: f.text}, nil
}

type fakeSubmitter struct {
	err  error
	text string
}

func (f *fakeSubmitter) Submit(_ context.Context, text string) ([]chat.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.text = text
	return []chat.Message{
		{Role: chat.RoleUser, Content: text},
		{Role: chat.RoleBot, Content: "reply"},
	}, nil
}

func upload(t *testing.T, h *Handler, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("audio", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("RIFFfake"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodPost, "/voice", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestVoiceSubmitsTranscript(t *testing.T) {
	tr := &fakeTranscriber{enabled: true, text: "show my timetable"}
	sub := &fakeSubmitter{}
	h := New(tr, sub, "en-IN", zaptest.NewLogger(t))

	rec := upload(t, h, "clip.mp3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "show my timetable", sub.text)
	assert.Equal(t, "mp3", tr.got.Format)
	assert.Equal(t, "en-IN", tr.got.Language)
	assert.NotEmpty(t, tr.got.ID)
	assert.Equal(t, []byte("RIFFfake"), tr.audio)
	assert.Contains(t, rec.Body.String(), `"transcript"`)
}

func TestVoiceFormLanguageOverrides(t *testing.T) {
	tr := &fakeTranscriber{enabled: true, text: "exam"}
	h := New(tr, &fakeSubmitter{}, "en-IN", zaptest.NewLogger(t))

	rec := upload(t, h, "clip.wav", map[string]string{"language": "hi-IN"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi-IN", tr.got.Language)
	assert.Equal(t, "wav", tr.got.Format)
}

func TestVoiceFailures(t *testing.T) {
	tests := []struct {
		name     string
		tr       *fakeTranscriber
		sub      *fakeSubmitter
		filename string
		status   int
	}{
		{"speech disabled", &fakeTranscriber{}, &fakeSubmitter{}, "clip.wav", http.StatusNotImplemented},
		{"missing audio", &fakeTranscriber{enabled: true}, &fakeSubmitter{}, "", http.StatusBadRequest},
		{"recognition error", &fakeTranscriber{enabled: true, err: errors.New("dial tcp: refused")}, &fakeSubmitter{}, "clip.wav", http.StatusBadGateway},
		{"silence", &fakeTranscriber{enabled: true, text: "  "}, &fakeSubmitter{}, "clip.wav", http.StatusUnprocessableEntity},
		{"busy", &fakeTranscriber{enabled: true, text: "exam"}, &fakeSubmitter{err: assistant.ErrBusy}, "clip.wav", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.tr, tt.sub, "en-IN", zaptest.NewLogger(t))
			rec := upload(t, h, tt.filename, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "refused")
			assert.Empty(t, tt.sub.text)
		})
	}
}

func TestInferAudioFormat(t *testing.T) {
	assert.Equal(t, "mp3", inferAudioFormat("a.MP3"))
	assert.Equal(t, "ogg", inferAudioFormat("note.opus"))
	assert.Equal(t, "pcm", inferAudioFormat("raw.pcm"))
	assert.Equal(t, "wav", inferAudioFormat("blob"))
}
