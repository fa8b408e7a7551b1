package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid profile")

var batchPattern = regexp.MustCompile(`^\d{4}$`)

// UserContext personalises content requests. Zero values mean "not set".
type UserContext struct {
	Branch   string `json:"branch,omitempty"`
	Semester int    `json:"semester,omitempty"`
	Batch    string `json:"batch,omitempty"`
}

// Validate requires every field, as the profile form does.
func (u UserContext) Validate() error {
	var problems []string
	if strings.TrimSpace(u.Branch) == "" {
		problems = append(problems, "branch is required")
	}
	if u.Semester < 1 || u.Semester > 8 {
		problems = append(problems, "semester must be between 1 and 8")
	}
	if !batchPattern.MatchString(strings.TrimSpace(u.Batch)) {
		problems = append(problems, "batch must be a four digit year")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(problems, "; "))
	}
	return nil
}

// Normalize trims whitespace and upper-cases the branch code.
func (u UserContext) Normalize() UserContext {
	return UserContext{
		Branch:   strings.ToUpper(strings.TrimSpace(u.Branch)),
		Semester: u.Semester,
		Batch:    strings.TrimSpace(u.Batch),
	}
}

// WithDefaults fills every unset field from defaults.
func (u UserContext) WithDefaults(defaults UserContext) UserContext {
	if strings.TrimSpace(u.Branch) == "" {
		u.Branch = defaults.Branch
	}
	if u.Semester == 0 {
		u.Semester = defaults.Semester
	}
	if strings.TrimSpace(u.Batch) == "" {
		u.Batch = defaults.Batch
	}
	return u
}

// Complete reports whether all three fields are present.
func (u UserContext) Complete() bool {
	return u.Branch != "" && u.Semester != 0 && u.Batch != ""
}

// UnmarshalJSON accepts the semester as a number or a numeric string, since
// older clients stored the raw form value.
func (u *UserContext) UnmarshalJSON(data []byte) error {
	var raw struct {
		Branch   string          `json:"branch"`
		Semester json.RawMessage `json:"semester"`
		Batch    json.RawMessage `json:"batch"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	semester, err := looseString(raw.Semester)
	if err != nil {
		return fmt.Errorf("semester: %w", err)
	}
	batch, err := looseString(raw.Batch)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	u.Branch = raw.Branch
	if semester != "" {
		n, err := strconv.Atoi(semester)
		if err != nil {
			return fmt.Errorf("semester: %w", err)
		}
		u.Semester = n
	} else {
		u.Semester = 0
	}
	u.Batch = batch
	return nil
}

func looseString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
