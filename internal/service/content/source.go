// Package content produces academic content for a student profile and
// resolves clarified intents into it.
package content

import (
	"github.com/gcet-assistant/backend/internal/model/content"
	"github.com/gcet-assistant/backend/internal/model/profile"
)

// Source supplies structured content. Implementations are read-only and safe
// for concurrent use.
type Source interface {
	Timetable(uc profile.UserContext) content.Timetable
	Exams(uc profile.UserContext) content.ExamSet
	Materials() content.MaterialList
}
