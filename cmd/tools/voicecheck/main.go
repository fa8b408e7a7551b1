// Command voicecheck sends one audio file through the configured speech
// recognizer and reports the transcript and how the assistant would route it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/logging"
	"github.com/gcet-assistant/backend/internal/model/speech"
	speechservice "github.com/gcet-assistant/backend/internal/service/speech"
)

func main() {
	audioPath := flag.String("audio", "", "audio file to transcribe")
	format := flag.String("format", "", "audio format, inferred from the file extension when empty")
	language := flag.String("lang", "", "language code, defaults to SPEECH_LANGUAGE")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")
	flag.Parse()

	if err := run(*audioPath, *format, *language, *timeout, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "voicecheck:", err)
		os.Exit(1)
	}
}

func run(audioPath, format, language string, timeout time.Duration, out io.Writer) error {
	if audioPath == "" {
		return fmt.Errorf("-audio is required")
	}

	envErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, true)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if envErr != nil {
		logger.Debug("no .env file loaded", zap.Error(envErr))
	}

	svc := speechservice.NewService(cfg.Speech, logger)
	if !svc.Enabled() {
		return fmt.Errorf("%w: set SPEECH_APP_ID and SPEECH_ACCESS_TOKEN", speechservice.ErrSpeechDisabled)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if format == "" {
		format = formatFromPath(audioPath)
	}
	if language == "" {
		language = cfg.Speech.Language
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("transcribing", zap.String("file", audioPath), zap.String("format", format), zap.String("language", language))
	transcript, err := svc.Transcribe(ctx, speech.Request{
		ID:        uuid.NewString(),
		AudioData: file,
		Format:    format,
		Language:  language,
	})
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	report(out, transcript)
	return nil
}

func formatFromPath(path string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		return ext
	}
	return "wav"
}

func report(out io.Writer, t speech.Transcript) {
	route := "fallback chain"
	switch tag := intent.Classify(t.Text); {
	case intent.Valid(tag):
		route = "clarify " + string(tag)
	case intent.IsGreeting(t.Text):
		route = "greeting"
	}
	fmt.Fprintf(out, "transcript: %q\n", t.Text)
	fmt.Fprintf(out, "duration:   %dms\n", t.Duration)
	fmt.Fprintf(out, "route:      %s\n", route)
}
