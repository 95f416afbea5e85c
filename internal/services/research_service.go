package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"seo_content_automation_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
)

var arxivURLPattern = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5})`)

// ResearchService is the research agent: it searches the web for academic
// sources on a keyword, enriches arXiv hits with full metadata, and distills
// the corpus into findings with the Gemini model.
type ResearchService struct {
	search     *SearchClient
	loader     *SourceLoader
	model      GenerativeModel
	maxSources int
}

func NewResearchService(search *SearchClient, loader *SourceLoader, model GenerativeModel, maxSources int) *ResearchService {
	return &ResearchService{
		search:     search,
		loader:     loader,
		model:      model,
		maxSources: maxSources,
	}
}

func (s *ResearchService) Research(ctx context.Context, keyword string, extraSources []models.AcademicSource) (*models.ResearchRecord, error) {
	results, err := s.search.Search(ctx, keyword+" research study", s.maxSources*2)
	if err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", keyword, err)
	}

	sources := s.selectSources(results)
	sources = append(sources, extraSources...)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no credible sources found for %q", keyword)
	}

	summary, findings, statistics, err := s.summarize(ctx, keyword, sources)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize research for %q: %w", keyword, err)
	}

	record := &models.ResearchRecord{
		Keyword:       keyword,
		Summary:       summary,
		MainFindings:  strings.Join(findings, "\n"),
		KeyStatistics: strings.Join(statistics, "\n"),
		Sources:       sources,
		SourceCount:   len(sources),
		CompletedAt:   time.Now(),
	}
	return record, nil
}

// selectSources converts raw search hits into scored sources, keeps the most
// credible, and upgrades arXiv links to full metadata.
func (s *ResearchService) selectSources(results []SearchResult) []models.AcademicSource {
	var sources []models.AcademicSource
	for _, r := range results {
		score := credibilityScore(r.URL)
		if score < 0.5 {
			continue
		}

		src := models.AcademicSource{
			Title:            r.Title,
			URL:              r.URL,
			Excerpt:          firstNRunes(r.Content, 500),
			CredibilityScore: score,
			Kind:             models.SourceKindWeb,
		}

		if m := arxivURLPattern.FindStringSubmatch(r.URL); m != nil {
			if enriched, _, err := s.loader.LoadArxivSource(m[1]); err == nil {
				enriched.URL = r.URL
				src = *enriched
			} else {
				log.Warn().Err(err).Str("arxiv_id", m[1]).Msg("failed to enrich arXiv source, keeping search hit")
				src.ArxivID = m[1]
				src.Kind = models.SourceKindArxiv
			}
		}

		sources = append(sources, src)
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].CredibilityScore > sources[j].CredibilityScore
	})
	if len(sources) > s.maxSources {
		sources = sources[:s.maxSources]
	}
	return sources
}

type researchSummary struct {
	Summary       string   `json:"summary"`
	MainFindings  []string `json:"main_findings"`
	KeyStatistics []string `json:"key_statistics"`
}

func (s *ResearchService) summarize(ctx context.Context, keyword string, sources []models.AcademicSource) (string, []string, []string, error) {
	prompt := buildSummaryPrompt(keyword, sources)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", nil, nil, err
	}

	raw := responseText(resp)
	var parsed researchSummary
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return "", nil, nil, fmt.Errorf("model returned malformed research summary: %v", err)
	}
	if parsed.Summary == "" {
		return "", nil, nil, fmt.Errorf("model returned empty research summary")
	}

	return parsed.Summary, parsed.MainFindings, parsed.KeyStatistics, nil
}

func buildSummaryPrompt(keyword string, sources []models.AcademicSource) string {
	var b strings.Builder
	b.WriteString("You are a research assistant preparing notes for an SEO article.\n")
	b.WriteString(fmt.Sprintf("Topic keyword: %q\n\n", keyword))
	b.WriteString("Sources:\n")
	for i, src := range sources {
		b.WriteString(fmt.Sprintf("<Source %d>\nTitle: %s\nURL: %s\n%s\n</Source %d>\n", i+1, src.Title, src.URL, src.Excerpt, i+1))
	}
	b.WriteString("\nRespond with JSON only, no markdown fences, in the form:\n")
	b.WriteString(`{"summary": "...", "main_findings": ["..."], "key_statistics": ["..."]}`)
	return b.String()
}
