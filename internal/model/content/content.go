// Package content defines the structured academic content the assistant can
// render: weekly timetables, exam schedules and study material lists.
package content

import "time"

// Kind discriminates the StructuredContent variants.
type Kind string

const (
	KindTimetable Kind = "timetable"
	KindExams     Kind = "exam"
	KindMaterials Kind = "materials"
)

// StructuredContent is implemented by Timetable, ExamSet and MaterialList.
type StructuredContent interface {
	Kind() Kind
}

// Period is one class slot within a day.
type Period struct {
	Time    string `json:"time" yaml:"time"`
	Subject string `json:"subject" yaml:"subject"`
	Teacher string `json:"teacher,omitempty" yaml:"teacher,omitempty"`
	Room    string `json:"room,omitempty" yaml:"room,omitempty"`
}

// Day holds the ordered periods of one weekday.
type Day struct {
	Day     string   `json:"day" yaml:"day"`
	Periods []Period `json:"periods" yaml:"periods"`
}

// Timetable is the weekly class schedule for a branch, semester and batch.
type Timetable struct {
	Branch   string `json:"branch" yaml:"branch"`
	Semester int    `json:"semester" yaml:"semester"`
	Batch    string `json:"batch" yaml:"batch"`
	Days     []Day  `json:"days" yaml:"days"`
}

func (Timetable) Kind() Kind { return KindTimetable }

// Exam is one scheduled paper.
type Exam struct {
	Subject string `json:"subject" yaml:"subject"`
	Date    string `json:"date" yaml:"date"`
	Venue   string `json:"venue,omitempty" yaml:"venue,omitempty"`
}

// ExamSet lists the exams for a branch, semester and batch.
type ExamSet struct {
	Branch   string `json:"branch" yaml:"branch"`
	Semester int    `json:"semester" yaml:"semester"`
	Batch    string `json:"batch" yaml:"batch"`
	Exams    []Exam `json:"exams" yaml:"exams"`
}

func (ExamSet) Kind() Kind { return KindExams }

// Material is a downloadable study resource.
type Material struct {
	Title      string     `json:"title" yaml:"title"`
	Subject    string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	Semester   int        `json:"semester,omitempty" yaml:"semester,omitempty"`
	FileRef    string     `json:"fileRef,omitempty" yaml:"fileRef,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty" yaml:"uploadedAt,omitempty"`
}

// MaterialList is an ordered set of study materials.
type MaterialList struct {
	Items []Material `json:"items" yaml:"items"`
}

func (MaterialList) Kind() Kind { return KindMaterials }
