package content

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gcet-assistant/backend/internal/model/content"
	"github.com/gcet-assistant/backend/internal/model/profile"
)

// catalogFile is the YAML layout read by LoadCatalog.
type catalogFile struct {
	Timetables []content.Timetable `yaml:"timetables"`
	Exams      []content.ExamSet   `yaml:"exams"`
	Materials  []content.Material  `yaml:"materials"`
}

// CatalogSource serves content from a YAML catalog. Anything the catalog does
// not cover is delegated to the fallback source.
type CatalogSource struct {
	catalog  catalogFile
	fallback Source
}

// LoadCatalog reads path and returns a CatalogSource backed by fallback.
func LoadCatalog(path string, fallback Source) (*CatalogSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data, fallback)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte, fallback Source) (*CatalogSource, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if fallback == nil {
		fallback = NewMockSource()
	}
	return &CatalogSource{catalog: cf, fallback: fallback}, nil
}

// matches treats an empty catalog field as a wildcard.
func matches(branch string, semester int, batch string, uc profile.UserContext) bool {
	if branch != "" && !strings.EqualFold(branch, uc.Branch) {
		return false
	}
	if semester != 0 && semester != uc.Semester {
		return false
	}
	if batch != "" && batch != uc.Batch {
		return false
	}
	return true
}

func (c *CatalogSource) Timetable(uc profile.UserContext) content.Timetable {
	for _, tt := range c.catalog.Timetables {
		if matches(tt.Branch, tt.Semester, tt.Batch, uc) {
			tt.Branch, tt.Semester, tt.Batch = uc.Branch, uc.Semester, uc.Batch
			return tt
		}
	}
	return c.fallback.Timetable(uc)
}

func (c *CatalogSource) Exams(uc profile.UserContext) content.ExamSet {
	for _, set := range c.catalog.Exams {
		if matches(set.Branch, set.Semester, set.Batch, uc) {
			set.Branch, set.Semester, set.Batch = uc.Branch, uc.Semester, uc.Batch
			return set
		}
	}
	return c.fallback.Exams(uc)
}

func (c *CatalogSource) Materials() content.MaterialList {
	if len(c.catalog.Materials) == 0 {
		return c.fallback.Materials()
	}
	return content.MaterialList{Items: append([]content.Material(nil), c.catalog.Materials...)}
}
