package intent

import "regexp"

// Tag is a coarse category of user need.
type Tag string

const (
	None      Tag = ""
	Timetable Tag = "timetable"
	Exam      Tag = "exam"
	Notes     Tag = "notes"
)

type rule struct {
	tag     Tag
	pattern *regexp.Regexp
}

// Checked in order; the first match wins.
var rules = []rule{
	{tag: Timetable, pattern: regexp.MustCompile(`(?i)timetable|schedule`)},
	{tag: Exam, pattern: regexp.MustCompile(`(?i)exam`)},
	{tag: Notes, pattern: regexp.MustCompile(`(?i)notes?|material|study|pdf`)},
}

var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi+|hello+|hey+|hlo|helo|namaste|good\s+(morning|afternoon|evening))\b`)

// Classify maps free text to an intent tag, or None when nothing matches.
// It is pure and total: any string, including the empty one, is accepted.
func Classify(text string) Tag {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.tag
		}
	}
	return None
}

// IsGreeting reports whether text opens with a greeting word.
func IsGreeting(text string) bool {
	return greetingPattern.MatchString(text)
}

// Valid reports whether tag is one of the recognised intents.
func Valid(tag Tag) bool {
	switch tag {
	case Timetable, Exam, Notes:
		return true
	default:
		return false
	}
}
