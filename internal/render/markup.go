// Package render turns structured content into display markup and reduces
// that markup back to terminal text.
//
// Markup never carries scripts. Interactive parts are described with
// data-action attributes and element ids; the renderer that paints the
// transcript owns the behaviour behind them.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gcet-assistant/backend/internal/model/content"
)

const (
	// ActionToggleSection expands or collapses the element named by data-target.
	ActionToggleSection = "toggle-section"
	// ActionPreview opens the document named by data-ref.
	ActionPreview = "preview"
)

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var timetableTmpl = template.Must(template.New("timetable").Funcs(funcs).Parse(
	`<div class="timetable">` +
		`<h3>📅 Timetable: {{.Branch}} · Semester {{.Semester}} · Batch {{.Batch}}</h3>` +
		`{{range $i, $d := .Days}}` +
		`<section class="day">` +
		`<button type="button" data-action="toggle-section" data-target="day-{{inc $i}}">{{$d.Day}}</button>` +
		`<div id="day-{{inc $i}}" class="day-periods" hidden>` +
		`<ul>{{range $d.Periods}}<li><strong>{{.Time}}</strong> {{.Subject}}` +
		`{{if .Teacher}} <em>({{.Teacher}})</em>{{end}}{{if .Room}} · Room {{.Room}}{{end}}</li>{{end}}</ul>` +
		`</div></section>` +
		`{{end}}</div>`))

var examsTmpl = template.Must(template.New("exams").Parse(
	`<div class="exams">` +
		`<h3>📝 Exam schedule: {{.Branch}} · Semester {{.Semester}} · Batch {{.Batch}}</h3>` +
		`{{if .Exams}}<ul>{{range .Exams}}<li><strong>{{.Subject}}</strong> {{.Date}}` +
		`{{if .Venue}} · {{.Venue}}{{end}}</li>{{end}}</ul>` +
		`{{else}}<p>No exams are scheduled.</p>{{end}}</div>`))

var materialsTmpl = template.Must(template.New("materials").Parse(
	`<div class="materials">` +
		`<h3>📚 Study materials</h3>` +
		`{{if .Items}}<ul>{{range .Items}}<li>` +
		`{{if .FileRef}}<a href="#" data-action="preview" data-ref="{{.FileRef}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}` +
		`{{if .Subject}} · {{.Subject}}{{end}}{{if .Semester}} · Sem {{.Semester}}{{end}}` +
		`{{if .UploadedAt}} · {{.UploadedAt.Format "02 Jan 2006"}}{{end}}` +
		`</li>{{end}}</ul>` +
		`{{else}}<p>No materials found.</p>{{end}}</div>`))

// Markup renders c as escaped HTML. Every interpolated string is escaped by
// html/template, so content-source values cannot inject markup.
func Markup(c content.StructuredContent) (string, error) {
	var tmpl *template.Template
	switch c.(type) {
	case content.Timetable, *content.Timetable:
		tmpl = timetableTmpl
	case content.ExamSet, *content.ExamSet:
		tmpl = examsTmpl
	case content.MaterialList, *content.MaterialList:
		tmpl = materialsTmpl
	default:
		return "", fmt.Errorf("render: unsupported content %T", c)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("render %s: %w", c.Kind(), err)
	}
	return buf.String(), nil
}
