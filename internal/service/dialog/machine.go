// Package dialog holds the clarify-then-fulfil conversation state.
package dialog

import (
	"sync"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
)

var questions = map[intent.Tag]string{
	intent.Timetable: "Would you like today's timetable or the full week's schedule?",
	intent.Exam:      "Are you looking for upcoming exam dates or previous year papers?",
	intent.Notes:     "Which subject do you need study materials for? (e.g. Web Technology, DSA, Operating Systems, Database, Computer Networks)",
}

// Question returns the clarifying question asked for tag.
func Question(tag intent.Tag) string {
	return questions[tag]
}

// PendingIntent is the clarification the machine is waiting on. It lives in
// session memory only and is never persisted.
type PendingIntent struct {
	Type     intent.Tag
	Question string
}

// Action tells the caller what to do with an input.
type Action int

const (
	// ActionFallback routes the input to the conversational fallback chain.
	ActionFallback Action = iota
	// ActionClarify means Step asked a question; reply with Decision.Question.
	ActionClarify
	// ActionResolve means the input answered a pending clarification.
	ActionResolve
)

func (a Action) String() string {
	switch a {
	case ActionClarify:
		return "clarify"
	case ActionResolve:
		return "resolve"
	default:
		return "fallback"
	}
}

// Decision is the outcome of one Step.
type Decision struct {
	Action    Action
	Intent    intent.Tag
	Question  string
	Qualifier string
}

// Machine is either idle or awaiting one clarification.
type Machine struct {
	mu      sync.Mutex
	pending *PendingIntent
}

// New returns an idle machine.
func New() *Machine {
	return &Machine{}
}

// Step consumes one input. A pending clarification is always answered by
// the next input, which is not classified again.
func (m *Machine) Step(text string) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p := m.pending; p != nil {
		m.pending = nil
		return Decision{Action: ActionResolve, Intent: p.Type, Qualifier: text}
	}

	tag := intent.Classify(text)
	if tag == intent.None {
		return Decision{Action: ActionFallback}
	}

	q := Question(tag)
	m.pending = &PendingIntent{Type: tag, Question: q}
	return Decision{Action: ActionClarify, Intent: tag, Question: q}
}

// Pending returns the clarification being waited on, if any.
func (m *Machine) Pending() (PendingIntent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return PendingIntent{}, false
	}
	return *m.pending, true
}

// Reset returns the machine to idle.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}
