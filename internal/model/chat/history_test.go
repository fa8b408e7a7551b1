package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	messages := []Message{
		{Role: RoleBot, Content: "welcome", Timestamp: base},
		{Role: RoleUser, Content: "first", Timestamp: base.Add(time.Minute)},
		{Role: RoleBot, Content: "reply one", Timestamp: base.Add(2 * time.Minute)},
		{Role: RoleUser, Content: "second", Timestamp: base.Add(3 * time.Minute)},
		{Role: RoleBot, Content: "<b>table</b>", IsMarkup: true, Timestamp: base.Add(4 * time.Minute)},
	}

	got := Summarize(messages, func(s string) string { return "plain" })

	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].UserMessage)
	assert.Equal(t, "plain", got[0].BotMessage)
	assert.Equal(t, "first", got[1].UserMessage)
	assert.Equal(t, "reply one", got[1].BotMessage)
	assert.True(t, got[1].Timestamp.Equal(base.Add(time.Minute)))
}

func TestSummarizeUnansweredAndTruncated(t *testing.T) {
	long := strings.Repeat("a", 60)
	messages := []Message{
		{Role: RoleUser, Content: long},
		{Role: RoleUser, Content: "pending"},
	}

	got := Summarize(messages, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "pending", got[0].UserMessage)
	assert.Equal(t, noResponse, got[0].BotMessage)
	assert.Equal(t, strings.Repeat("a", titleLimit)+"...", got[1].UserMessage)
	assert.Equal(t, noResponse, got[1].BotMessage)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil, nil))
}
