package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gcet-assistant/backend/internal/model/chat"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	hub := NewHub(4)
	a, b := hub.Subscribe(), hub.Subscribe()
	defer a.Cancel()
	defer b.Cancel()

	hub.Publish(MessageEvent(chat.BotText("hello")))

	for _, sub := range []*Subscription{a, b} {
		ev := <-sub.C
		assert.Equal(t, TypeMessage, ev.Type)
		require.NotNil(t, ev.Message)
		assert.Equal(t, "hello", ev.Message.Content)
		assert.False(t, ev.At.IsZero())
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe()
	defer sub.Cancel()

	hub.Publish(TypingEvent(true))
	hub.Publish(TypingEvent(false))

	ev := <-sub.C
	require.NotNil(t, ev.Typing)
	assert.True(t, *ev.Typing)
	assert.Len(t, sub.C, 0)
}

func TestCancelClosesChannel(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe()
	assert.Equal(t, 1, hub.Subscribers())

	sub.Cancel()
	sub.Cancel()
	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestCloseEndsConsumers(t *testing.T) {
	hub := NewHub(8)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		sub := hub.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range sub.C {
			}
		}()
	}

	hub.Publish(ClearedEvent([]chat.Message{chat.BotText("welcome")}))
	hub.Close()
	wg.Wait()

	late := hub.Subscribe()
	_, open := <-late.C
	assert.False(t, open)
	late.Cancel()
}
