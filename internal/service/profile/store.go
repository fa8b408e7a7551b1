package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/storage"
)

// Store owns the saved user context.
type Store struct {
	mu      sync.RWMutex
	slots   storage.Slots
	logger  *zap.Logger
	current profile.UserContext
}

func NewStore(slots storage.Slots, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{slots: slots, logger: logger.Named("profile")}
}

// Load reads the persisted context. Missing or corrupt data leaves the
// context empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = profile.UserContext{}

	data, err := s.slots.Load(ctx, storage.UserContextKey)
	if err != nil {
		if !errors.Is(err, storage.ErrSlotEmpty) {
			s.logger.Warn("user context unreadable, using defaults", zap.Error(err))
		}
		return
	}

	var uc profile.UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		s.logger.Warn("user context corrupt, using defaults", zap.Error(err))
		return
	}
	s.current = uc.Normalize()
}

// Save validates uc and replaces the stored context with it. Fields are
// never merged with the previous value. Encoding is deterministic, so saving
// an identical context rewrites identical bytes.
func (s *Store) Save(ctx context.Context, uc profile.UserContext) (profile.UserContext, error) {
	uc = uc.Normalize()
	if err := uc.Validate(); err != nil {
		return profile.UserContext{}, err
	}

	data, err := json.Marshal(uc)
	if err != nil {
		return profile.UserContext{}, fmt.Errorf("encode user context: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slots.Save(ctx, storage.UserContextKey, data); err != nil {
		return profile.UserContext{}, fmt.Errorf("persist user context: %w", err)
	}
	s.current = uc
	return uc, nil
}

// Current returns the saved context as-is, possibly with empty fields.
func (s *Store) Current() profile.UserContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Resolved fills the fields the student has not saved from defaults.
func (s *Store) Resolved(defaults profile.UserContext) profile.UserContext {
	return s.Current().WithDefaults(defaults)
}
