package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/storage"
)

// WelcomeMessage seeds every empty or cleared transcript.
const WelcomeMessage = "👋 Hi! I'm your GCET academic assistant. Ask me about your timetable, exam schedule, or study materials."

// Store owns the session transcript. Every mutation is written to the
// transcript slot before it returns.
type Store struct {
	mu       sync.RWMutex
	slots    storage.Slots
	logger   *zap.Logger
	messages []chat.Message
	now      func() time.Time
}

// NewStore returns an empty Store. Call Load before use.
func NewStore(slots storage.Slots, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		slots:  slots,
		logger: logger.Named("transcript"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Load reads the persisted transcript. Missing or unreadable data counts as
// an empty transcript, and an empty transcript is reseeded with the welcome
// message.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = s.read(ctx)
	if len(s.messages) > 0 {
		return nil
	}
	s.messages = []chat.Message{s.stamp(chat.BotText(WelcomeMessage))}
	return s.persist(ctx)
}

func (s *Store) read(ctx context.Context) []chat.Message {
	data, err := s.slots.Load(ctx, storage.TranscriptKey)
	if err != nil {
		if !errors.Is(err, storage.ErrSlotEmpty) {
			s.logger.Warn("transcript unreadable, starting empty", zap.Error(err))
		}
		return nil
	}

	var messages []chat.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		s.logger.Warn("transcript corrupt, starting empty", zap.Error(err))
		return nil
	}
	return messages
}

// Append adds msg to the end of the transcript, filling in its id and
// timestamp when missing, and returns the stored message.
func (s *Store) Append(ctx context.Context, msg chat.Message) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg = s.stamp(msg)
	s.messages = append(s.messages, msg)
	if err := s.persist(ctx); err != nil {
		return msg, err
	}
	return msg, nil
}

// Clear drops every message and reseeds the welcome message.
func (s *Store) Clear(ctx context.Context) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	welcome := s.stamp(chat.BotText(WelcomeMessage))
	s.messages = []chat.Message{welcome}
	return welcome, s.persist(ctx)
}

// Messages returns a copy of the transcript in display order.
func (s *Store) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

func (s *Store) stamp(msg chat.Message) chat.Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	return msg
}

// persist must be called with mu held. The write outlives a cancelled
// caller so storage never falls behind the in-memory transcript.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.messages)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := s.slots.Save(context.WithoutCancel(ctx), storage.TranscriptKey, data); err != nil {
		return fmt.Errorf("persist transcript: %w", err)
	}
	return nil
}
