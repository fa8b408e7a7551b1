package ai

import (
	"fmt"
	"strings"

	"github.com/gcet-assistant/backend/internal/model/profile"
)

const baseInstruction = `You are the GCET College Assistant.
You help GCET students with timetables, exam schedules, study materials and general campus questions.`

var contextRules = []string{
	"Answer in short, friendly English; use bullet points for lists.",
	"If you do not know a college-specific fact, say so and suggest contacting the academic office.",
	"For timetables, exams or notes, tell the student they can simply ask for them in this chat.",
	"Never invent exam dates, room numbers or faculty names.",
}

// PromptBuilder assembles the system instruction sent with every request.
type PromptBuilder struct {
	options profile.Options
}

func NewPromptBuilder(options profile.Options) *PromptBuilder {
	return &PromptBuilder{options: options}
}

// Build returns the fixed instruction followed by the student's profile.
func (b *PromptBuilder) Build(uc profile.UserContext) string {
	var sb strings.Builder
	sb.WriteString(baseInstruction)
	sb.WriteString("\n\nRules:\n- ")
	sb.WriteString(strings.Join(contextRules, "\n- "))

	if uc.Complete() {
		sb.WriteString(fmt.Sprintf("\n\nStudent profile: %s (%s), semester %d, batch %s.",
			b.options.BranchName(uc.Branch), uc.Branch, uc.Semester, uc.Batch))
	}
	return sb.String()
}
