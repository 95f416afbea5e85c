package citation

import (
	"fmt"
	"sort"
	"strings"

	"seo_content_automation_backend/internal/models"
)

// maxListedAuthors is the APA cutoff before collapsing to "et al.".
const maxListedAuthors = 20

// FormatAuthorEntry abbreviates a single author name for an APA reference.
// "Smith, John" becomes "Smith, J.". Names without a comma pass through
// unchanged. A trailing comma with nothing after it ("Smith," or "Jones, ")
// yields the last name alone.
func FormatAuthorEntry(author string) string {
	if !strings.Contains(author, ",") {
		return author
	}

	parts := strings.SplitN(author, ",", 2)
	lastName := strings.TrimSpace(parts[0])
	remainder := strings.TrimSpace(parts[1])
	if remainder == "" {
		return lastName
	}

	initial := []rune(remainder)[0]
	return fmt.Sprintf("%s, %c.", lastName, initial)
}

// FormatAuthors renders an author list for a reference entry: formatted
// entries joined with commas, an ampersand before the final author, and
// "et al." once the list exceeds the APA cutoff.
func FormatAuthors(authors []string) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		formatted = append(formatted, FormatAuthorEntry(a))
	}

	switch len(formatted) {
	case 0:
		return ""
	case 1:
		return formatted[0]
	}

	if len(formatted) > maxListedAuthors {
		return strings.Join(formatted[:maxListedAuthors-1], ", ") + ", et al."
	}

	head := strings.Join(formatted[:len(formatted)-1], ", ")
	return head + ", & " + formatted[len(formatted)-1]
}

// FormatCitation renders a full APA-style reference line for a source.
func FormatCitation(src models.AcademicSource) string {
	var b strings.Builder

	authors := FormatAuthors(src.AuthorList())
	if authors == "" {
		authors = "Unknown Author"
	}
	b.WriteString(authors)

	year := strings.TrimSpace(src.Year)
	if year == "" {
		year = "n.d."
	}
	b.WriteString(fmt.Sprintf(" (%s). ", year))

	title := strings.TrimSpace(src.Title)
	if title == "" {
		title = "Untitled"
	}
	b.WriteString(title)
	if !strings.HasSuffix(title, ".") {
		b.WriteString(".")
	}

	if journal := strings.TrimSpace(src.Journal); journal != "" {
		b.WriteString(" ")
		b.WriteString(journal)
		b.WriteString(".")
	}

	if doi := strings.TrimSpace(src.DOI); doi != "" {
		b.WriteString(fmt.Sprintf(" https://doi.org/%s", strings.TrimPrefix(doi, "https://doi.org/")))
	} else if url := strings.TrimSpace(src.URL); url != "" {
		b.WriteString(" ")
		b.WriteString(url)
	}

	return b.String()
}

// ReferenceList formats every source, deduplicates by URL (falling back to
// title when the URL is empty), and sorts alphabetically.
func ReferenceList(sources []models.AcademicSource) []string {
	seen := make(map[string]bool, len(sources))
	entries := make([]string, 0, len(sources))
	for _, src := range sources {
		key := strings.ToLower(strings.TrimSpace(src.URL))
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(src.Title))
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, FormatCitation(src))
	}
	sort.Strings(entries)
	return entries
}
