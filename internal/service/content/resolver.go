package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
	"github.com/gcet-assistant/backend/internal/model/content"
	"github.com/gcet-assistant/backend/internal/model/profile"
)

var (
	upcomingPattern = regexp.MustCompile(`(?i)upcoming|dates|schedule`)
	previousPattern = regexp.MustCompile(`(?i)previous|paper`)
	paperPattern    = regexp.MustCompile(`(?i)exam|paper`)
)

// KnownSubjects are the subject names recognised in a notes qualifier,
// matched case-insensitively.
var KnownSubjects = []string{"web technology", "dsa", "operating systems", "database", "computer networks"}

// Resolver maps a clarified intent and its qualifier onto content.
type Resolver struct {
	source Source
}

// NewResolver returns a Resolver reading from source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve selects content for tag. The qualifier narrows the result where a
// sub-case applies; every tag has a default for unrecognised qualifiers.
func (r *Resolver) Resolve(tag intent.Tag, qualifier string, uc profile.UserContext) (content.StructuredContent, error) {
	switch tag {
	case intent.Timetable:
		// "today" and "this week" both return the full week.
		return r.source.Timetable(uc), nil
	case intent.Exam:
		return r.resolveExam(qualifier, uc), nil
	case intent.Notes:
		return r.resolveNotes(qualifier), nil
	default:
		return nil, fmt.Errorf("resolve: unknown intent %q", tag)
	}
}

func (r *Resolver) resolveExam(qualifier string, uc profile.UserContext) content.StructuredContent {
	switch {
	case upcomingPattern.MatchString(qualifier):
		return r.source.Exams(uc)
	case previousPattern.MatchString(qualifier):
		return filterMaterials(r.source.Materials(), func(m content.Material) bool {
			return paperPattern.MatchString(m.Subject) || paperPattern.MatchString(m.Title)
		})
	default:
		return r.source.Exams(uc)
	}
}

func (r *Resolver) resolveNotes(qualifier string) content.StructuredContent {
	all := r.source.Materials()
	subject := SubjectIn(qualifier)
	if subject == "" {
		return all
	}
	return filterMaterials(all, func(m content.Material) bool {
		return strings.Contains(strings.ToLower(m.Subject), subject)
	})
}

// SubjectIn returns the first known subject mentioned in text, lower-cased,
// or "" when none is.
func SubjectIn(text string) string {
	lower := strings.ToLower(text)
	for _, s := range KnownSubjects {
		if strings.Contains(lower, s) {
			return s
		}
	}
	return ""
}

func filterMaterials(list content.MaterialList, keep func(content.Material) bool) content.MaterialList {
	out := content.MaterialList{Items: []content.Material{}}
	for _, m := range list.Items {
		if keep(m) {
			out.Items = append(out.Items, m)
		}
	}
	return out
}
