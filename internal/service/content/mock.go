package content

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gcet-assistant/backend/internal/model/content"
	"github.com/gcet-assistant/backend/internal/model/profile"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var periodTimes = []string{
	"09:00 - 09:50",
	"09:50 - 10:40",
	"11:00 - 11:50",
	"11:50 - 12:40",
	"13:30 - 14:20",
	"14:20 - 15:10",
}

var faculty = []string{"Dr. Sharma", "Prof. Verma", "Dr. Iyer", "Prof. Nair", "Dr. Gupta", "Prof. Rao"}

var subjectsByBranch = map[string][]string{
	"CSE":   {"Web Technology", "DSA", "Operating Systems", "Database Management Systems", "Computer Networks", "Software Engineering"},
	"IT":    {"Web Technology", "DSA", "Database Management Systems", "Computer Networks", "Cloud Computing", "Software Engineering"},
	"ECE":   {"Digital Electronics", "Signals and Systems", "Analog Circuits", "Microprocessors", "Communication Systems", "Electromagnetics"},
	"EEE":   {"Power Systems", "Electrical Machines", "Control Systems", "Power Electronics", "Measurements", "Network Analysis"},
	"MECH":  {"Thermodynamics", "Fluid Mechanics", "Machine Design", "Manufacturing Processes", "Strength of Materials", "Heat Transfer"},
	"CIVIL": {"Structural Analysis", "Surveying", "Geotechnical Engineering", "Concrete Technology", "Hydraulics", "Transportation Engineering"},
}

// MockSource generates plausible content deterministically from the profile,
// standing in for a real data source.
type MockSource struct {
	materials []content.Material
}

// NewMockSource returns a MockSource with the built-in material list.
func NewMockSource() *MockSource {
	return &MockSource{materials: seedMaterials()}
}

func subjectsFor(branch string) []string {
	if subjects, ok := subjectsByBranch[branch]; ok {
		return subjects
	}
	return subjectsByBranch["CSE"]
}

// Timetable builds a Monday to Saturday schedule with six periods a day.
func (m *MockSource) Timetable(uc profile.UserContext) content.Timetable {
	subjects := subjectsFor(uc.Branch)
	offset := uc.Semester

	days := make([]content.Day, 0, len(weekdays))
	for d, name := range weekdays {
		periods := make([]content.Period, 0, len(periodTimes))
		for p, slot := range periodTimes {
			idx := (d + p + offset) % len(subjects)
			periods = append(periods, content.Period{
				Time:    slot,
				Subject: subjects[idx],
				Teacher: faculty[idx%len(faculty)],
				Room:    fmt.Sprintf("%s-%d%02d", uc.Branch, uc.Semester, idx+1),
			})
		}
		days = append(days, content.Day{Day: name, Periods: periods})
	}

	return content.Timetable{
		Branch:   uc.Branch,
		Semester: uc.Semester,
		Batch:    uc.Batch,
		Days:     days,
	}
}

// Exams schedules one paper per subject, three days apart.
func (m *MockSource) Exams(uc profile.UserContext) content.ExamSet {
	subjects := subjectsFor(uc.Branch)
	base := examStart(uc)

	exams := make([]content.Exam, 0, len(subjects))
	for i, subject := range subjects {
		date := base.AddDate(0, 0, 3*i)
		exams = append(exams, content.Exam{
			Subject: subject,
			Date:    date.Format("Mon, 02 Jan 2006"),
			Venue:   fmt.Sprintf("Exam Hall %d", i%3+1),
		})
	}

	return content.ExamSet{
		Branch:   uc.Branch,
		Semester: uc.Semester,
		Batch:    uc.Batch,
		Exams:    exams,
	}
}

// examStart places odd semesters in late November and even ones in late
// April of the matching academic year, counted from the batch year.
func examStart(uc profile.UserContext) time.Time {
	year, err := strconv.Atoi(uc.Batch)
	if err != nil {
		year = 2025
	}
	sem := uc.Semester
	if sem < 1 {
		sem = 1
	}
	if sem%2 == 1 {
		return time.Date(year+(sem-1)/2, time.November, 24, 9, 30, 0, 0, time.UTC)
	}
	return time.Date(year+sem/2, time.April, 21, 9, 30, 0, 0, time.UTC)
}

// Materials returns every known study material.
func (m *MockSource) Materials() content.MaterialList {
	return content.MaterialList{Items: append([]content.Material(nil), m.materials...)}
}

func seedMaterials() []content.Material {
	uploaded := func(month time.Month, day int) *time.Time {
		t := time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return []content.Material{
		{Title: "HTML, CSS and JavaScript Basics", Subject: "Web Technology", Semester: 5, FileRef: "web-tech-unit-1.pdf", UploadedAt: uploaded(time.July, 14)},
		{Title: "React and REST APIs", Subject: "Web Technology", Semester: 5, FileRef: "web-tech-unit-2.pdf", UploadedAt: uploaded(time.August, 2)},
		{Title: "Arrays, Stacks and Queues", Subject: "DSA", Semester: 3, FileRef: "dsa-unit-1.pdf", UploadedAt: uploaded(time.July, 20)},
		{Title: "Trees and Graphs", Subject: "DSA", Semester: 3, FileRef: "dsa-unit-2.pdf", UploadedAt: uploaded(time.August, 9)},
		{Title: "Process Scheduling", Subject: "Operating Systems", Semester: 4, FileRef: "os-scheduling.pdf", UploadedAt: uploaded(time.July, 28)},
		{Title: "Memory Management", Subject: "Operating Systems", Semester: 4, FileRef: "os-memory.pdf", UploadedAt: uploaded(time.August, 16)},
		{Title: "Normalization and SQL", Subject: "Database Management Systems", Semester: 5, FileRef: "dbms-sql.pdf", UploadedAt: uploaded(time.August, 5)},
		{Title: "OSI and TCP/IP Models", Subject: "Computer Networks", Semester: 5, FileRef: "cn-models.pdf", UploadedAt: uploaded(time.August, 21)},
		{Title: "DSA Previous Year Paper 2024", Subject: "Exam Papers", Semester: 3, FileRef: "pyq-dsa-2024.pdf", UploadedAt: uploaded(time.June, 3)},
		{Title: "Operating Systems Previous Year Paper 2024", Subject: "Exam Papers", Semester: 4, FileRef: "pyq-os-2024.pdf", UploadedAt: uploaded(time.June, 3)},
		{Title: "Computer Networks Mid-Sem Exam 2023", Subject: "Computer Networks", Semester: 5, FileRef: "cn-midsem-2023.pdf", UploadedAt: uploaded(time.June, 10)},
	}
}
