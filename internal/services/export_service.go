package services

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"seo_content_automation_backend/internal/models"

	"github.com/jung-kurt/gofpdf"
)

const reviewTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Article.Title}}</title>
<meta name="description" content="{{.Article.MetaDescription}}">
</head>
<body>
<header>
<p class="keyword">Keyword: {{.Article.Keyword}}</p>
<p class="stats">{{.Article.WordCount}} words &middot; generated {{.GeneratedAt}} &middot; {{len .References}} sources</p>
</header>
<article>
{{.Body}}
</article>
{{if .References}}
<section class="references">
<h2>References</h2>
<ol>
{{range .References}}<li>{{.}}</li>
{{end}}</ol>
</section>
{{end}}
</body>
</html>
`

// ExportService renders articles for human review and download.
type ExportService struct {
	tmpl *template.Template
}

func NewExportService() *ExportService {
	return &ExportService{
		tmpl: template.Must(template.New("review").Parse(reviewTemplate)),
	}
}

// RenderReviewHTML produces the standalone review page for an article.
// The article body is trusted HTML assembled by the writer service.
func (es *ExportService) RenderReviewHTML(article *models.Article, references []string) (string, error) {
	var buf bytes.Buffer
	err := es.tmpl.Execute(&buf, struct {
		Article     *models.Article
		Body        template.HTML
		References  []string
		GeneratedAt string
	}{
		Article:     article,
		Body:        template.HTML(article.HTMLBody),
		References:  references,
		GeneratedAt: article.GeneratedAt.Format("2006-01-02 15:04 MST"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render review page: %w", err)
	}
	return buf.String(), nil
}

// ExportPDF renders the article as a downloadable PDF.
func (es *ExportService) ExportPDF(article *models.Article, references []string) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(article.Title, true)
	doc.AddPage()

	doc.SetFont("Arial", "B", 18)
	doc.MultiCell(0, 9, article.Title, "", "L", false)
	doc.Ln(2)

	doc.SetFont("Arial", "I", 10)
	doc.MultiCell(0, 5, article.MetaDescription, "", "L", false)
	doc.Ln(4)

	doc.SetFont("Arial", "", 11)
	doc.MultiCell(0, 5, stripHTML(article.HTMLBody), "", "L", false)

	if len(references) > 0 {
		doc.Ln(6)
		doc.SetFont("Arial", "B", 13)
		doc.MultiCell(0, 7, "References", "", "L", false)
		doc.SetFont("Arial", "", 10)
		for i, ref := range references {
			doc.MultiCell(0, 5, fmt.Sprintf("%d. %s", i+1, ref), "", "L", false)
			doc.Ln(1)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	headingPattern = regexp.MustCompile(`</h[1-6]>`)
)

func stripHTML(body string) string {
	// Keep heading boundaries as blank lines before dropping tags.
	body = headingPattern.ReplaceAllString(body, "\n\n")
	body = strings.ReplaceAll(body, "</p>", "\n\n")
	body = tagPattern.ReplaceAllString(body, "")
	body = strings.ReplaceAll(body, "&amp;", "&")
	body = strings.ReplaceAll(body, "&lt;", "<")
	body = strings.ReplaceAll(body, "&gt;", ">")
	body = strings.ReplaceAll(body, "&#34;", `"`)
	body = strings.ReplaceAll(body, "&#39;", "'")
	return strings.TrimSpace(body)
}
