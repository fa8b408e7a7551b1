package chat

import "time"

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one immutable transcript entry. Content holds plain text unless
// IsMarkup is set, in which case it is pre-rendered, already escaped markup.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	IsMarkup  bool      `json:"isMarkup"`
	Timestamp time.Time `json:"timestamp"`
}

// UserText builds a plain-text message authored by the user.
func UserText(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// BotText builds a plain-text bot message.
func BotText(content string) Message {
	return Message{Role: RoleBot, Content: content}
}

// BotMarkup builds a bot message whose content is rendered markup.
func BotMarkup(markup string) Message {
	return Message{Role: RoleBot, Content: markup, IsMarkup: true}
}
