package services

import (
	"strings"
	"testing"
	"time"

	"seo_content_automation_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewArticle() *models.Article {
	return &models.Article{
		Keyword:         "plant care basics",
		Title:           "Plant Care Basics for Beginners",
		MetaDescription: "Everything a beginner needs to keep houseplants alive.",
		HTMLBody:        "<h1>Plant Care Basics for Beginners</h1>\n<p>Water &amp; light matter most.</p>\n",
		WordCount:       1200,
		GeneratedAt:     time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestExportService_RenderReviewHTML(t *testing.T) {
	es := NewExportService()
	refs := []string{
		"Smith, J. (2024). Watering Schedules. Journal of Botany. https://doi.org/10.1000/x",
		"Lee, K. (2023). Light Requirements. https://example.edu/light",
	}

	page, err := es.RenderReviewHTML(reviewArticle(), refs)
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Plant Care Basics for Beginners</title>")
	assert.Contains(t, page, "Keyword: plant care basics")
	assert.Contains(t, page, "1200 words")
	assert.Contains(t, page, "2 sources")
	// The article body passes through untouched.
	assert.Contains(t, page, "<p>Water &amp; light matter most.</p>")
	// References are escaped by the template.
	assert.Contains(t, page, "<li>Smith, J. (2024). Watering Schedules. Journal of Botany. https://doi.org/10.1000/x</li>")
	assert.Contains(t, page, "<h2>References</h2>")
}

func TestExportService_RenderReviewHTML_NoReferences(t *testing.T) {
	es := NewExportService()

	page, err := es.RenderReviewHTML(reviewArticle(), nil)
	require.NoError(t, err)
	assert.NotContains(t, page, "References")
	assert.Contains(t, page, "0 sources")
}

func TestExportService_ExportPDF(t *testing.T) {
	es := NewExportService()

	pdfBytes, err := es.ExportPDF(reviewArticle(), []string{"Smith, J. (2024). Watering Schedules."})
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"), "output should be a PDF document")
}

func TestStripHTML(t *testing.T) {
	body := "<h1>Title</h1>\n<p>First &amp; foremost.</p>\n<h2>Next</h2>\n<p>More &lt;text&gt;.</p>\n"
	got := stripHTML(body)

	assert.Contains(t, got, "First & foremost.")
	assert.Contains(t, got, "More <text>.")
	assert.NotContains(t, got, "<p>")
	assert.NotContains(t, got, "</h1>")
}
