package models

import (
	"strings"

	"gorm.io/gorm"
)

type SourceKind string

const (
	SourceKindWeb    SourceKind = "web"
	SourceKindArxiv  SourceKind = "arxiv"
	SourceKindPDF    SourceKind = "pdf"
	SourceKindBibtex SourceKind = "bibtex"
)

// AcademicSource is a single source backing an article or research record.
type AcademicSource struct {
	gorm.Model
	ArticleID        uint `gorm:"index"`
	ResearchRecordID uint `gorm:"index"`
	Title            string
	URL              string `gorm:"index"`
	Authors          string // "; "-separated, each "Last, First" or a plain display name
	Journal          string
	Year             string
	DOI              string
	ArxivID          string `gorm:"type:varchar(20)"`
	Excerpt          string `gorm:"type:text"`
	CredibilityScore float64
	Kind             SourceKind `gorm:"type:varchar(10)"`
}

// AuthorList splits the stored author string back into individual names.
func (s *AcademicSource) AuthorList() []string {
	if strings.TrimSpace(s.Authors) == "" {
		return nil
	}
	parts := strings.Split(s.Authors, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
