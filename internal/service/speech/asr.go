package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/model/speech"
)

const (
	// 16 kHz, 16 bit mono: 200 ms of audio.
	chunkSize = 6400
	// Service status meaning success.
	statusOK = 20000000
)

var errNoAudio = errors.New("no audio data to send")

// ASRClient streams audio to the big-model recognition endpoint and waits
// for the final transcript.
type ASRClient struct {
	cfg    config.SpeechConfig
	dialer *websocket.Dialer
	pace   time.Duration
	logger *zap.Logger
}

func NewASRClient(cfg config.SpeechConfig, logger *zap.Logger) *ASRClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ASRClient{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		pace:   200 * time.Millisecond,
		logger: logger.Named("asr"),
	}
}

type sessionParams struct {
	User struct {
		UID string `json:"uid,omitempty"`
	} `json:"user"`
	Audio struct {
		Language string `json:"language,omitempty"`
		Format   string `json:"format"`
		Codec    string `json:"codec,omitempty"`
		Rate     int    `json:"rate"`
		Bits     int    `json:"bits"`
		Channel  int    `json:"channel"`
	} `json:"audio"`
	Request struct {
		ModelName      string `json:"model_name"`
		EnableITN      bool   `json:"enable_itn"`
		EnablePunc     bool   `json:"enable_punc"`
		ShowUtterances bool   `json:"show_utterances"`
		ResultType     string `json:"result_type"`
		EndWindowSize  int    `json:"end_window_size,omitempty"`
	} `json:"request"`
}

type serverResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  struct {
		Text       string `json:"text"`
		Utterances []struct {
			Text string `json:"text"`
		} `json:"utterances"`
	} `json:"result"`
	AudioInfo struct {
		Duration int64 `json:"duration"`
	} `json:"audio_info"`
}

// Transcribe sends req and returns the finalized text.
func (c *ASRClient) Transcribe(ctx context.Context, req speech.Request) (speech.Transcript, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	audio, err := io.ReadAll(req.AudioData)
	if err != nil {
		return speech.Transcript{}, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return speech.Transcript{}, errNoAudio
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	header := http.Header{}
	header.Set("X-Api-App-Key", strings.TrimSpace(c.cfg.AppID))
	header.Set("X-Api-Access-Key", strings.TrimSpace(c.cfg.AccessToken))
	header.Set("X-Api-Resource-Id", c.cfg.ResourceID)
	header.Set("X-Api-Connect-Id", req.ID)

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return speech.Transcript{}, fmt.Errorf("failed to connect to ASR websocket: %w", err)
	}
	defer conn.Close()
	if logid := resp.Header.Get("X-Tt-Logid"); logid != "" {
		c.logger.Debug("asr connected", zap.String("logid", logid), zap.String("request", req.ID))
	}

	// Unblock pending reads and writes when the context ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	params, err := json.Marshal(c.sessionParams(req))
	if err != nil {
		return speech.Transcript{}, fmt.Errorf("marshal session params: %w", err)
	}
	opening, err := configFrame(params).encode()
	if err != nil {
		return speech.Transcript{}, err
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, opening); err != nil {
		return speech.Transcript{}, fmt.Errorf("send session params: %w", err)
	}

	sendErr := make(chan error, 1)
	go func() { sendErr <- c.sendAudio(ctx, conn, audio) }()

	out, recvErr := c.receive(conn, req.ID)
	if recvErr != nil {
		if ctx.Err() != nil {
			return speech.Transcript{}, ctx.Err()
		}
		return speech.Transcript{}, recvErr
	}
	// The server answers only after the last chunk, so the sender is done.
	if err := <-sendErr; err != nil {
		return speech.Transcript{}, fmt.Errorf("send audio: %w", err)
	}
	return out, nil
}

func (c *ASRClient) sessionParams(req speech.Request) sessionParams {
	var p sessionParams
	p.User.UID = req.ID
	p.Audio.Format = req.Format
	if p.Audio.Format == "" {
		p.Audio.Format = "wav"
	}
	p.Audio.Language = req.Language
	if p.Audio.Language == "" {
		p.Audio.Language = c.cfg.Language
	}
	p.Audio.Codec = "raw"
	p.Audio.Rate = 16000
	p.Audio.Bits = 16
	p.Audio.Channel = 1
	p.Request.ModelName = "bigmodel"
	p.Request.EnableITN = true
	p.Request.EnablePunc = true
	p.Request.ShowUtterances = true
	p.Request.ResultType = "full"
	p.Request.EndWindowSize = 800
	return p
}

func (c *ASRClient) sendAudio(ctx context.Context, conn *websocket.Conn, audio []byte) error {
	// Sequence 1 belongs to the session parameters.
	seq := int32(2)
	for start := 0; start < len(audio); start += chunkSize {
		end := min(start+chunkSize, len(audio))
		last := end == len(audio)

		data, err := audioFrame(audio[start:end], seq, last).encode()
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return err
		}
		if last {
			return nil
		}
		seq++

		if c.pace > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.pace):
			}
		}
	}
	return nil
}

func (c *ASRClient) receive(conn *websocket.Conn, requestID string) (speech.Transcript, error) {
	var text string
	var duration int64

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return speech.Transcript{}, fmt.Errorf("read ASR response: %w", err)
		}
		f, err := decodeFrame(data)
		if err != nil {
			return speech.Transcript{}, fmt.Errorf("decode ASR frame: %w", err)
		}

		switch f.kind {
		case serverError:
			return speech.Transcript{}, fmt.Errorf("ASR error %d: %s", f.errorCode, f.payload)
		case fullServerResponse:
			var res serverResult
			if err := json.Unmarshal(f.payload, &res); err != nil {
				c.logger.Warn("asr payload unreadable", zap.Error(err))
				continue
			}
			if res.Code != 0 && res.Code != statusOK {
				return speech.Transcript{}, fmt.Errorf("ASR API error %d: %s", res.Code, res.Message)
			}
			if t := resultText(res); t != "" {
				text = t
			}
			if res.AudioInfo.Duration > 0 {
				duration = res.AudioInfo.Duration
			}
			if f.last() {
				return speech.Transcript{
					RequestID: requestID,
					Text:      text,
					Duration:  duration,
					CreatedAt: time.Now().UTC(),
				}, nil
			}
		}
	}
}

func resultText(res serverResult) string {
	if t := strings.TrimSpace(res.Result.Text); t != "" {
		return t
	}
	parts := make([]string, 0, len(res.Result.Utterances))
	for _, u := range res.Result.Utterances {
		if t := strings.TrimSpace(u.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
