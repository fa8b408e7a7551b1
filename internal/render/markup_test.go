package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcet-assistant/backend/internal/model/content"
)

func TestMarkupEscapesContent(t *testing.T) {
	out, err := Markup(content.MaterialList{Items: []content.Material{
		{Title: `<script>alert("x")</script>`, Subject: "DSA", FileRef: `notes.pdf" onclick="x`},
	}})
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `onclick="x"`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `data-action="preview"`)
}

func TestMarkupTimetableSections(t *testing.T) {
	tt := content.Timetable{
		Branch: "CSE", Semester: 5, Batch: "2025",
		Days: []content.Day{
			{Day: "Monday", Periods: []content.Period{{Time: "09:00", Subject: "DSA", Room: "A1"}}},
			{Day: "Tuesday", Periods: []content.Period{{Time: "10:00", Subject: "Database Management Systems"}}},
		},
	}
	out, err := Markup(tt)
	require.NoError(t, err)

	assert.Contains(t, out, `id="day-1"`)
	assert.Contains(t, out, `id="day-2"`)
	assert.Contains(t, out, `data-target="day-2"`)
	assert.Equal(t, 2, strings.Count(out, `data-action="toggle-section"`))
	assert.NotContains(t, out, "onclick")
}

func TestMarkupEmptyExams(t *testing.T) {
	out, err := Markup(content.ExamSet{Branch: "ECE", Semester: 3, Batch: "2024"})
	require.NoError(t, err)
	assert.Contains(t, out, "No exams are scheduled.")
}

func TestPlainText(t *testing.T) {
	uploaded := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	out, err := Markup(content.MaterialList{Items: []content.Material{
		{Title: "DSA Unit 1", Subject: "DSA", FileRef: "dsa-1.pdf", UploadedAt: &uploaded},
		{Title: "R&D notes", Subject: "Web Technology"},
	}})
	require.NoError(t, err)

	text := PlainText(out)
	assert.Equal(t, strings.Join([]string{
		"📚 Study materials",
		"  • DSA Unit 1 · DSA · 10 Jan 2025",
		"  • R&D notes · Web Technology",
	}, "\n"), text)
}

func TestPlainTextOfPlainInput(t *testing.T) {
	assert.Equal(t, "hello there", PlainText("hello there"))
	assert.Equal(t, "", PlainText(""))
}
