package chat

import "time"

const (
	titleLimit   = 50
	previewLimit = 80
	noResponse   = "No response"
)

// Conversation is one user/bot exchange as listed in the history view.
type Conversation struct {
	UserMessage string    `json:"userMessage"`
	BotMessage  string    `json:"botMessage"`
	Timestamp   time.Time `json:"timestamp"`
}

// Summarize pairs every user message with the bot message that immediately
// follows it and returns the pairs newest first. plain converts markup
// content to readable text; it may be nil when no message carries markup.
func Summarize(messages []Message, plain func(string) string) []Conversation {
	conversations := make([]Conversation, 0, len(messages)/2)
	for i := 0; i < len(messages); i++ {
		user := messages[i]
		if user.Role != RoleUser {
			continue
		}

		bot := noResponse
		if i+1 < len(messages) && messages[i+1].Role == RoleBot {
			next := messages[i+1]
			bot = next.Content
			if next.IsMarkup && plain != nil {
				bot = plain(next.Content)
			}
			i++
		}

		conversations = append(conversations, Conversation{
			UserMessage: truncate(user.Content, titleLimit),
			BotMessage:  truncate(bot, previewLimit),
			Timestamp:   user.Timestamp,
		})
	}

	for left, right := 0, len(conversations)-1; left < right; left, right = left+1, right-1 {
		conversations[left], conversations[right] = conversations[right], conversations[left]
	}
	return conversations
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
