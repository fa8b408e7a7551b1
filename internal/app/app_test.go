package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gcet-assistant/backend/internal/config"
	chatservice "github.com/gcet-assistant/backend/internal/service/chat"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Storage:  config.StorageConfig{Driver: "file", Dir: dir, SQLitePath: filepath.Join(dir, "assistant.db")},
		Defaults: config.DefaultsConfig{Branch: "CSE", Semester: 5, Batch: "2025"},
		AI:       config.AIConfig{Provider: "http"},
	}
}

func TestBuildWithoutServicesUsesHeuristicOnly(t *testing.T) {
	a, err := Build(context.Background(), baseConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"heuristic"}, a.Fallback.Names())
	assert.False(t, a.Speech.Enabled())

	transcript := a.Assistant.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, chatservice.WelcomeMessage, transcript[0].Content)
}

func TestBuildWiresFullChain(t *testing.T) {
	remoteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"message":"Fees are due on the 10th."}`))
	}))
	defer remoteSrv.Close()
	genSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"reply":"generated"}`))
	}))
	defer genSrv.Close()

	cfg := baseConfig(t)
	cfg.Remote = config.RemoteConfig{QueryURL: remoteSrv.URL}
	cfg.AI.APIKey = "key"
	cfg.AI.URL = genSrv.URL

	a, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"remote", "generative", "heuristic"}, a.Fallback.Names())

	got, err := a.Assistant.Submit(context.Background(), "when are fees due")
	require.NoError(t, err)
	assert.Equal(t, "Fees are due on the 10th.", got[1].Content)
}

func TestTranscriptSurvivesRestartOnSQLite(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Storage.Driver = "sqlite"
	ctx := context.Background()

	first, err := Build(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	_, err = first.Assistant.Submit(ctx, "hello")
	require.NoError(t, err)
	want := first.Assistant.Transcript()
	require.NoError(t, first.Close())

	second, err := Build(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, want, second.Assistant.Transcript())
}

func TestBuildFailsOnMissingCatalog(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Content.Catalog = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "content catalog")
}
