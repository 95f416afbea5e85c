package services

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"seo_content_automation_backend/internal/models"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfExtractor is swapped for a mock in tests.
type pdfExtractor interface {
	extractTextFromPDF(path string) (string, error)
}

// SourceLoader pulls full-text and metadata for research sources: arXiv
// papers, remote PDFs, and user-uploaded PDFs.
type SourceLoader struct {
	arxivBaseURL string
	arxivAPIURL  string
	pdfProcessor pdfExtractor
}

func NewSourceLoader(arxivBaseURL string) *SourceLoader {
	sl := &SourceLoader{
		arxivBaseURL: arxivBaseURL,
		arxivAPIURL:  "http://export.arxiv.org/api/query",
	}
	sl.pdfProcessor = sl
	return sl
}

// LoadArxivSource fetches metadata and full text for one arXiv paper.
func (sl *SourceLoader) LoadArxivSource(arxivID string) (*models.AcademicSource, string, error) {
	metadata, err := sl.GetArxivMetadata(arxivID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch metadata for paper with ID: %s: %v", arxivID, err)
	}

	text, err := sl.processRemotePDF(fmt.Sprintf("%s%s.pdf", sl.arxivBaseURL, arxivID))
	if err != nil {
		return nil, "", fmt.Errorf("failed to process arXiv paper %s: %v", arxivID, err)
	}

	year := ""
	if d := metadata["published_date"]; len(d) >= 4 {
		year = d[:4]
	}

	source := &models.AcademicSource{
		Title:            metadata["title"],
		Authors:          metadata["authors"],
		URL:              metadata["abstract_url"],
		Journal:          "arXiv preprint",
		Year:             year,
		ArxivID:          arxivID,
		Excerpt:          firstNRunes(metadata["abstract"], 500),
		CredibilityScore: arxivCredibility,
		Kind:             models.SourceKindArxiv,
	}

	return source, text, nil
}

// LoadUserPDF validates and extracts an uploaded PDF as a research source.
func (sl *SourceLoader) LoadUserPDF(path, displayName string) (*models.AcademicSource, string, error) {
	if err := pdfapi.ValidateFile(path, nil); err != nil {
		return nil, "", fmt.Errorf("invalid PDF %s: %v", displayName, err)
	}

	text, err := sl.pdfProcessor.extractTextFromPDF(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract text from PDF %s: %v", displayName, err)
	}

	source := &models.AcademicSource{
		Title:            displayName,
		Excerpt:          firstNRunes(text, 500),
		CredibilityScore: userPDFCredibility,
		Kind:             models.SourceKindPDF,
	}
	return source, text, nil
}

func (sl *SourceLoader) processRemotePDF(pdfURL string) (string, error) {
	resp, err := http.Get(pdfURL)
	if err != nil {
		return "", fmt.Errorf("failed to download PDF: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code when downloading PDF: %d", resp.StatusCode)
	}

	tempFile, err := os.CreateTemp("", "source-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if _, err = io.Copy(tempFile, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save PDF content: %v", err)
	}

	if err := pdfapi.ValidateFile(tempFile.Name(), nil); err != nil {
		return "", fmt.Errorf("downloaded PDF failed validation: %v", err)
	}

	return sl.pdfProcessor.extractTextFromPDF(tempFile.Name())
}

func (sl *SourceLoader) extractTextFromPDF(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %v", err)
	}
	defer f.Close()

	var content strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		content.WriteString(text)
		content.WriteString("\n\n")
	}

	if content.Len() == 0 {
		return "", fmt.Errorf("no text content extracted from PDF")
	}

	return content.String(), nil
}

// ArxivEntry represents the structure of an entry in the arXiv API response
type ArxivEntry struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href string `xml:"href,attr"`
		Rel  string `xml:"rel,attr"`
		Type string `xml:"type,attr"`
	} `xml:"link"`
}

// ArxivFeed represents the structure of the arXiv API response
type ArxivFeed struct {
	Entry ArxivEntry `xml:"entry"`
}

func (sl *SourceLoader) GetArxivMetadata(arxivID string) (map[string]string, error) {
	url := fmt.Sprintf("%s?id_list=%s", sl.arxivAPIURL, arxivID)

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch arXiv metadata: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var feed ArxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse XML response: %v", err)
	}

	entry := feed.Entry

	var authors []string
	for _, author := range entry.Authors {
		authors = append(authors, author.Name)
	}

	abstractURL := ""
	for _, link := range entry.Links {
		if link.Rel == "alternate" {
			abstractURL = link.Href
			break
		}
	}

	// Authors are "; "-joined because names themselves contain commas.
	metadata := map[string]string{
		"title":          strings.TrimSpace(entry.Title),
		"authors":        strings.Join(authors, "; "),
		"abstract":       strings.TrimSpace(entry.Summary),
		"abstract_url":   abstractURL,
		"published_date": entry.Published,
		"last_updated":   entry.Updated,
	}

	return metadata, nil
}

func firstNRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
