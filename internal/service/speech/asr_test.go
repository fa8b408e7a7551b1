package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/model/speech"
)

type fakeASR struct {
	t        *testing.T
	params   sessionParams
	audio    []byte
	headers  http.Header
	respond  func(conn *websocket.Conn)
	upgrader websocket.Upgrader
	done     chan struct{}
}

func newFakeASR(t *testing.T, respond func(conn *websocket.Conn)) *fakeASR {
	return &fakeASR{t: t, respond: respond, done: make(chan struct{})}
}

func (f *fakeASR) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer close(f.done)
	f.headers = r.Header.Clone()
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if !assert.NoError(f.t, err) {
		return
	}
	first, err := decodeFrame(data)
	if !assert.NoError(f.t, err) {
		return
	}
	assert.NoError(f.t, json.Unmarshal(first.payload, &f.params))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		fr, err := decodeFrame(data)
		if !assert.NoError(f.t, err) {
			return
		}
		f.audio = append(f.audio, fr.payload...)
		if fr.last() {
			break
		}
	}
	f.respond(conn)
}

func writeResult(t *testing.T, conn *websocket.Conn, body string, last bool) {
	fr := &frame{kind: fullServerResponse, flags: flagPositiveSequence, serial: serializeJSON, compress: compressGzip, sequence: 1, payload: []byte(body)}
	if last {
		fr.flags, fr.sequence = flagNegativeSequence, -1
	}
	data, err := fr.encode()
	assert.NoError(t, err)
	assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))
}

func newTestClient(t *testing.T, url string) *ASRClient {
	c := NewASRClient(config.SpeechConfig{
		AppID:       "app",
		AccessToken: "token",
		URL:         url,
		ResourceID:  "volc.bigasr.sauc.duration",
		Language:    "en-IN",
		Timeout:     5 * time.Second,
	}, zaptest.NewLogger(t))
	c.pace = 0
	return c
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestTranscribe(t *testing.T) {
	fake := newFakeASR(t, func(conn *websocket.Conn) {
		writeResult(t, conn, `{"result":{"text":"show my"}}`, false)
		writeResult(t, conn, `{"code":20000000,"result":{"utterances":[{"text":"show my"},{"text":"timetable"}]},"audio_info":{"duration":2400}}`, true)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	audio := bytes.Repeat([]byte{1, 2, 3, 4}, chunkSize) // four chunks
	got, err := newTestClient(t, wsURL(srv)).Transcribe(context.Background(), speech.Request{
		ID:        "req-1",
		AudioData: bytes.NewReader(audio),
		Format:    "pcm",
	})
	require.NoError(t, err)
	<-fake.done

	assert.Equal(t, "show my timetable", got.Text)
	assert.Equal(t, int64(2400), got.Duration)
	assert.Equal(t, "req-1", got.RequestID)

	assert.Equal(t, audio, fake.audio)
	assert.Equal(t, "en-IN", fake.params.Audio.Language)
	assert.Equal(t, "pcm", fake.params.Audio.Format)
	assert.Equal(t, "app", fake.headers.Get("X-Api-App-Key"))
	assert.Equal(t, "token", fake.headers.Get("X-Api-Access-Key"))
	assert.Equal(t, "req-1", fake.headers.Get("X-Api-Connect-Id"))
}

func TestTranscribeServerError(t *testing.T) {
	fake := newFakeASR(t, func(conn *websocket.Conn) {
		fr := &frame{kind: serverError, serial: serializeJSON, errorCode: 45000001, payload: []byte("invalid audio")}
		data, err := fr.encode()
		assert.NoError(t, err)
		assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := newTestClient(t, wsURL(srv)).Transcribe(context.Background(), speech.Request{AudioData: bytes.NewReader([]byte{1, 2})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid audio")
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	_, err := newTestClient(t, "ws://127.0.0.1:1").Transcribe(context.Background(), speech.Request{AudioData: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, errNoAudio)
}

func TestFrameRoundTrip(t *testing.T) {
	chunk := bytes.Repeat([]byte("chunk"), 200)
	in := audioFrame(chunk, 7, true)
	data, err := in.encode()
	require.NoError(t, err)
	assert.Less(t, len(data), len(chunk), "payload should be gzipped on the wire")

	out, err := decodeFrame(data)
	require.NoError(t, err)

	assert.Equal(t, audioOnlyRequest, out.kind)
	assert.Equal(t, compressGzip, out.compress)
	assert.Equal(t, int32(-7), out.sequence)
	assert.True(t, out.last())
	assert.Equal(t, chunk, out.payload)

	plain := &frame{kind: serverError, serial: serializeJSON, errorCode: 7, payload: []byte("plain")}
	data, err = plain.encode()
	require.NoError(t, err)
	out, err = decodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), out.errorCode)
	assert.Equal(t, []byte("plain"), out.payload)

	_, err = decodeFrame([]byte{0x21, 0, 0, 0})
	assert.Error(t, err)
}

func TestDisabledService(t *testing.T) {
	svc := NewService(config.SpeechConfig{}, nil)
	assert.False(t, svc.Enabled())
	_, err := svc.Transcribe(context.Background(), speech.Request{})
	assert.ErrorIs(t, err, ErrSpeechDisabled)
}
