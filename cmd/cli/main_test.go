package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
	"github.com/gcet-assistant/backend/internal/model/profile"
	chatservice "github.com/gcet-assistant/backend/internal/service/chat"
	"github.com/gcet-assistant/backend/internal/service/dialog"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_DIR", t.TempDir())
	t.Setenv("CONTENT_CATALOG", "")
	t.Setenv("REMOTE_QUERY_URL", "")
	t.Setenv("GEN_PROVIDER", "http")
	t.Setenv("GEN_API_KEY", "")
	t.Setenv("SPEECH_APP_ID", "")
	t.Setenv("DEFAULT_BRANCH", "CSE")
	t.Setenv("DEFAULT_SEMESTER", "5")
	t.Setenv("DEFAULT_BATCH", "2025")
}

func execute(stdin string, args ...string) (string, error) {
	c := newCLI()
	root := c.root()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	c.close()
	return out.String(), err
}

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := execute(stdin, args...)
	require.NoError(t, err, out)
	return out
}

func TestAskAsksClarification(t *testing.T) {
	isolate(t)
	out := run(t, "", "ask", "my", "exam")
	assert.Contains(t, out, dialog.Question(intent.Exam))
}

func TestClarificationDoesNotSurviveProcess(t *testing.T) {
	isolate(t)
	run(t, "", "ask", "exam")

	out := run(t, "", "ask", "hello")
	assert.Contains(t, out, "How can I help you today?")
}

func TestInteractiveChat(t *testing.T) {
	isolate(t)
	out := run(t, "timetable\nfull week\n/history\n/quit\n")

	assert.Contains(t, out, chatservice.WelcomeMessage)
	assert.Contains(t, out, dialog.Question(intent.Timetable))
	assert.Contains(t, out, "Timetable: CSE")
	assert.NotContains(t, out, "<h3>")
	assert.Contains(t, out, "full week")
}

func TestChatReplaysStoredTranscript(t *testing.T) {
	isolate(t)
	run(t, "", "ask", "notes")

	out := run(t, "/quit\n", "chat")
	assert.Contains(t, out, dialog.Question(intent.Notes))
}

func TestProfileSetAndShow(t *testing.T) {
	isolate(t)

	out := run(t, "", "profile", "show")
	assert.Contains(t, out, "CSE (Computer Science & Engineering)")
	assert.Contains(t, out, "(default)")

	run(t, "", "profile", "set", "--branch", "ece", "--semester", "4", "--batch", "2023")

	out = run(t, "", "profile", "show")
	assert.Contains(t, out, "ECE (Electronics & Communication)")
	assert.Contains(t, out, "Semester: 4")
	assert.NotContains(t, out, "(default)")

	run(t, "", "profile", "set", "--semester", "6")
	out = run(t, "", "profile", "show")
	assert.Contains(t, out, "ECE")
	assert.Contains(t, out, "Semester: 6")
}

func TestProfileSetRejectsInvalid(t *testing.T) {
	isolate(t)
	_, err := execute("", "profile", "set", "--branch", "CSE", "--semester", "9", "--batch", "2023")
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
}

func TestClearAndHistory(t *testing.T) {
	isolate(t)
	run(t, "", "ask", "hello")

	out := run(t, "", "history")
	assert.Contains(t, out, "hello")

	out = run(t, "", "clear")
	assert.Contains(t, out, chatservice.WelcomeMessage)

	out = run(t, "", "history")
	assert.Contains(t, out, "No conversations yet.")
}
