package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) (*Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := filestore.New(dir, "/files")
	require.NoError(t, err)
	return New(store, DefaultConfig()), dir
}

func sampleItems() []models.WorksheetItem {
	return []models.WorksheetItem{
		{Type: models.ItemMCQ, Q: "What is 2+2?", Options: []string{"3", "4", "5"}, Answer: "4"},
		{Type: models.ItemShort, Q: "Explain photosynthesis.", Rubric: "mentions light and chlorophyll"},
		{Type: models.ItemDiagram, Q: "Draw the water cycle."},
	}
}

func TestWorksheetPDF(t *testing.T) {
	r, dir := newTestRenderer(t)

	path, err := r.Worksheet(sampleItems(), Params{
		Prefix: "worksheet", Difficulty: "easy", SetIndex: 0, Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "worksheet_easy_set1_en.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestWorksheetDeterministicOverwrite(t *testing.T) {
	r, dir := newTestRenderer(t)
	p := Params{Prefix: "worksheet", Difficulty: "balanced", SetIndex: 1, Language: "en"}

	first, err := r.Worksheet(sampleItems(), p)
	require.NoError(t, err)
	second, err := r.Worksheet(sampleItems(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWorksheetTextFallback(t *testing.T) {
	r, _ := newTestRenderer(t)

	path, err := r.Worksheet(sampleItems(), Params{
		Prefix: "worksheet", Difficulty: "easy", SetIndex: 0, Language: "hi",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "worksheet_easy_set1_hi.txt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "1. What is 2+2?")
	assert.Contains(t, text, "A. 3")
	assert.Contains(t, text, "Answer Key")
}

func TestWorksheetManyItemsPaginates(t *testing.T) {
	r, _ := newTestRenderer(t)

	items := make([]models.WorksheetItem, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, models.WorksheetItem{
			Type: models.ItemShort, Q: "Describe one property of prime numbers in detail.",
		})
	}
	path, err := r.Worksheet(items, Params{Prefix: "worksheet", Difficulty: "hard", SetIndex: 0, Language: "en"})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlanPDF(t *testing.T) {
	r, _ := newTestRenderer(t)

	weeks := []models.WeeklyItem{
		{Week: 1, Topics: []string{"Fractions"}, Outcomes: []string{"Add fractions"}, Checks: []string{"Quiz"}},
		{Week: 2, Topics: []string{"Decimals"}},
	}
	path, err := r.Plan("Eight weeks of arithmetic.", weeks, Params{Prefix: "plan", SetIndex: 0, Language: "en"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "plan_set1_en.pdf"))
}

func TestPlanTextFallback(t *testing.T) {
	r, _ := newTestRenderer(t)

	weeks := []models.WeeklyItem{{Week: 1, Topics: []string{"अंश"}}}
	path, err := r.Plan("overview", weeks, Params{Prefix: "plan", SetIndex: 0, Language: "hi"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "plan_set1_hi.txt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Week 1")
	assert.Contains(t, string(data), "अंश")
}

func TestPDFSupported(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"en", true},
		{"es", true},
		{"fr", true},
		{"id", true},
		{"hi", false},
		{"ar", false},
		{"zh", false},
		{"ja", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pdfSupported(tt.lang), "lang %s", tt.lang)
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "worksheet_easy_set1_en", baseName(Params{Prefix: "worksheet", Difficulty: "easy", SetIndex: 0, Language: "en"}))
	assert.Equal(t, "plan_set3_sw", baseName(Params{Prefix: "plan", SetIndex: 2, Language: "sw"}))
}
