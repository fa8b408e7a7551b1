package fallback

import (
	"context"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
)

const greetingReply = "Hello! 👋 How can I help you today? You can ask me about your timetable, upcoming exams, or study materials."

var helpMessages = []string{
	"I can help with your timetable, exam schedule and study materials. Try asking \"show my timetable\".",
	"I'm not sure about that one. Ask me about exams, notes or your class schedule!",
	"Sorry, I didn't catch that. You can ask for your timetable, exam dates or subject notes.",
}

// cannedAnswers cover common campus questions, matched by substring.
var cannedAnswers = []struct {
	keyword string
	answer  string
}{
	{"admission", "Admissions begin in November. Visit the college portal for details."},
	{"contact", "Reach us at admin@college.edu or call +91-1234567890."},
}

// HeuristicStrategy answers locally and always succeeds.
type HeuristicStrategy struct {
	resolver Resolver
	pick     func(n int) int
	logger   *zap.Logger
}

// NewHeuristicStrategy uses pick to choose a help message; nil picks at random.
func NewHeuristicStrategy(resolver Resolver, pick func(n int) int, logger *zap.Logger) *HeuristicStrategy {
	if pick == nil {
		pick = rand.IntN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeuristicStrategy{resolver: resolver, pick: pick, logger: logger.Named("heuristic")}
}

func (s *HeuristicStrategy) Name() string { return "heuristic" }

func (s *HeuristicStrategy) Try(_ context.Context, req Request) (Reply, bool) {
	if intent.IsGreeting(req.Text) {
		return Reply{Text: greetingReply, Source: s.Name()}, true
	}

	if tag := intent.Classify(req.Text); tag != intent.None {
		c, err := s.resolver.Resolve(tag, "", req.Context)
		if err == nil {
			if reply, ok := formatted(c, s.Name(), s.logger); ok {
				return reply, true
			}
		} else {
			s.logger.Warn("local resolve failed", zap.Error(err))
		}
	}

	lower := strings.ToLower(req.Text)
	for _, c := range cannedAnswers {
		if strings.Contains(lower, c.keyword) {
			return Reply{Text: c.answer, Source: s.Name()}, true
		}
	}

	i := s.pick(len(helpMessages))
	if i < 0 || i >= len(helpMessages) {
		i = 0
	}
	return Reply{Text: helpMessages[i], Source: s.Name()}, true
}

// HelpMessages returns the generic replies the heuristic step chooses from.
func HelpMessages() []string {
	return append([]string(nil), helpMessages...)
}
