package profile

// Branch is one selectable programme of study.
type Branch struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Options lists the values offered by the profile form.
type Options struct {
	Branches  []Branch `json:"branches"`
	Semesters []int    `json:"semesters"`
	Batches   []string `json:"batches"`
}

// Seed returns the option catalog for the college.
func Seed() Options {
	return Options{
		Branches: []Branch{
			{Code: "CSE", Name: "Computer Science & Engineering"},
			{Code: "ECE", Name: "Electronics & Communication"},
			{Code: "EEE", Name: "Electrical & Electronics"},
			{Code: "MECH", Name: "Mechanical Engineering"},
			{Code: "CIVIL", Name: "Civil Engineering"},
			{Code: "IT", Name: "Information Technology"},
		},
		Semesters: []int{1, 2, 3, 4, 5, 6, 7, 8},
		Batches:   []string{"2020", "2021", "2022", "2023", "2024", "2025"},
	}
}

// BranchName returns the display name for code, or code itself when unknown.
func (o Options) BranchName(code string) string {
	for _, b := range o.Branches {
		if b.Code == code {
			return b.Name
		}
	}
	return code
}
