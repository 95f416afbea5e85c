package citation

import (
	"regexp"
	"strings"

	"seo_content_automation_backend/internal/models"

	"github.com/nickng/bibtex"
)

var arxivPattern = regexp.MustCompile(`(?i)(?:arxiv:|https?://arxiv\.org/abs/)(\d{4}\.\d{4,5})`)

// ParseBibTeX reads a .bib payload and converts every entry into an
// AcademicSource so user-supplied bibliographies can flow through the same
// research pipeline as web and arXiv hits.
func ParseBibTeX(content string) ([]models.AcademicSource, error) {
	bib, err := bibtex.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var sources []models.AcademicSource
	for _, entry := range bib.Entries {
		sources = append(sources, sourceFromEntry(entry))
	}
	return sources, nil
}

func sourceFromEntry(entry *bibtex.BibEntry) models.AcademicSource {
	getField := func(key string) string {
		if field, ok := entry.Fields[key]; ok && field != nil {
			return strings.TrimSpace(field.String())
		}
		return ""
	}

	journal := getField("journal")
	if journal == "" {
		journal = getField("booktitle")
	}

	src := models.AcademicSource{
		Title:   getField("title"),
		Authors: splitBibAuthors(getField("author")),
		Journal: journal,
		Year:    getField("year"),
		DOI:     getField("doi"),
		URL:     getField("url"),
		Kind:    models.SourceKindBibtex,
	}

	for _, field := range []string{"journal", "title", "url", "doi"} {
		if m := arxivPattern.FindStringSubmatch(getField(field)); m != nil {
			src.ArxivID = m[1]
			break
		}
	}

	return src
}

// splitBibAuthors turns BibTeX "A and B and C" author fields into the
// "; "-joined form AcademicSource stores.
func splitBibAuthors(field string) string {
	field = strings.ReplaceAll(field, "{", "")
	field = strings.ReplaceAll(field, "}", "")
	parts := strings.Split(field, " and ")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return strings.Join(authors, "; ")
}
