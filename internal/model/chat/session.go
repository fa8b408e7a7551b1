package chat

import "time"

// Session identifies the running assistant process. It is never persisted;
// a restart always begins a new session over the stored transcript.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
}
