// Package storage provides the durable, string-keyed slots the assistant
// keeps on the local device.
package storage

import (
	"context"
	"errors"
)

// Slot keys used by the assistant.
const (
	TranscriptKey  = "transcript"
	UserContextKey = "userContext"
)

// ErrSlotEmpty is returned by Load when nothing has been saved under a key.
var ErrSlotEmpty = errors.New("slot empty")

// Slots is a tiny key/value store. Save replaces the whole value.
type Slots interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}
