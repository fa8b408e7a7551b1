// Package speech holds the voice transcription request and result types.
package speech

import (
	"io"
	"time"
)

// Request is one audio clip to transcribe.
type Request struct {
	ID        string    `json:"id"`
	AudioData io.Reader `json:"-"`
	Format    string    `json:"format"`   // wav, pcm, mp3, ogg
	Language  string    `json:"language"` // en-IN, hi-IN, ...
}

// Transcript is the single finalized text produced for a Request.
type Transcript struct {
	RequestID string    `json:"requestId"`
	Text      string    `json:"text"`
	Duration  int64     `json:"duration"` // milliseconds
	CreatedAt time.Time `json:"createdAt"`
}
