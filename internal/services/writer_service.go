package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"seo_content_automation_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
)

// WriterService is the writer agent: it turns a research record into an
// SEO-optimized article draft with the Gemini model.
type WriterService struct {
	model        GenerativeModel
	minWordCount int
	retries      int
}

func NewWriterService(model GenerativeModel, minWordCount, retries int) *WriterService {
	return &WriterService{
		model:        model,
		minWordCount: minWordCount,
		retries:      retries,
	}
}

type articleDraft struct {
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Introduction    string `json:"introduction"`
	Sections        []struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	} `json:"sections"`
	Conclusion string `json:"conclusion"`
}

func (ws *WriterService) WriteArticle(ctx context.Context, keyword string, record *models.ResearchRecord) (*models.Article, error) {
	prompt := ws.BuildPrompt(keyword, record)

	var lastErr error
	for attempt := 0; attempt <= ws.retries; attempt++ {
		if attempt > 0 {
			log.Warn().Err(lastErr).Str("keyword", keyword).Int("attempt", attempt).Msg("retrying article generation")
		}

		resp, err := ws.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = fmt.Errorf("generation request failed: %w", err)
			continue
		}

		article, err := ws.articleFromResponse(keyword, resp)
		if err != nil {
			lastErr = err
			continue
		}
		return article, nil
	}
	return nil, lastErr
}

// StreamDraft returns the raw streaming iterator so callers can relay tokens
// over SSE or a websocket as they arrive.
func (ws *WriterService) StreamDraft(ctx context.Context, keyword string, record *models.ResearchRecord) *genai.GenerateContentResponseIterator {
	return ws.model.GenerateContentStream(ctx, genai.Text(ws.BuildPrompt(keyword, record)))
}

func (ws *WriterService) BuildPrompt(keyword string, record *models.ResearchRecord) string {
	var b strings.Builder
	b.WriteString("You are an expert SEO content writer.\n")
	b.WriteString(fmt.Sprintf("Write a long-form article targeting the keyword %q.\n\n", keyword))
	b.WriteString("Research summary:\n")
	b.WriteString(record.Summary)
	b.WriteString("\n\nMain findings:\n")
	b.WriteString(record.MainFindings)
	if record.KeyStatistics != "" {
		b.WriteString("\n\nKey statistics to cite:\n")
		b.WriteString(record.KeyStatistics)
	}
	b.WriteString("\n\nConstraints:\n")
	b.WriteString("- Title must include the keyword and stay at or under 60 characters.\n")
	b.WriteString("- Meta description between 120 and 160 characters.\n")
	b.WriteString(fmt.Sprintf("- At least %d words across introduction, sections and conclusion.\n", ws.minWordCount))
	b.WriteString("- Mention the keyword in the introduction.\n")
	b.WriteString("\nRespond with JSON only, no markdown fences, in the form:\n")
	b.WriteString(`{"title": "...", "meta_description": "...", "introduction": "...", "sections": [{"heading": "...", "body": "..."}], "conclusion": "..."}`)
	return b.String()
}

func (ws *WriterService) articleFromResponse(keyword string, resp *genai.GenerateContentResponse) (*models.Article, error) {
	raw := responseText(resp)
	var draft articleDraft
	if err := json.Unmarshal([]byte(extractJSON(raw)), &draft); err != nil {
		return nil, fmt.Errorf("model returned malformed article draft: %v", err)
	}
	if draft.Title == "" || draft.Introduction == "" {
		return nil, fmt.Errorf("model returned incomplete article draft")
	}

	body := renderDraftHTML(&draft)
	article := &models.Article{
		Keyword:         keyword,
		Slug:            Slugify(keyword),
		Title:           draft.Title,
		MetaDescription: draft.MetaDescription,
		HTMLBody:        body,
		WordCount:       countWords(&draft),
		Status:          models.ArticleStatusDraft,
		GeneratedAt:     time.Now(),
	}
	if resp.UsageMetadata != nil {
		article.TokensUsed = resp.UsageMetadata.TotalTokenCount
	}
	return article, nil
}

// ValidateSEO checks the constraints the prompt asked for and returns every
// violation found, empty when the article passes.
func (ws *WriterService) ValidateSEO(article *models.Article, keyword string) []string {
	var violations []string

	if l := len([]rune(article.Title)); l > 60 {
		violations = append(violations, fmt.Sprintf("title is %d characters, limit is 60", l))
	}
	if !strings.Contains(strings.ToLower(article.Title), strings.ToLower(keyword)) {
		violations = append(violations, "title does not contain the keyword")
	}

	if l := len([]rune(article.MetaDescription)); l < 120 || l > 160 {
		violations = append(violations, fmt.Sprintf("meta description is %d characters, want 120-160", l))
	}

	if article.WordCount < ws.minWordCount {
		violations = append(violations, fmt.Sprintf("article is %d words, minimum is %d", article.WordCount, ws.minWordCount))
	}

	intro := firstParagraph(article.HTMLBody)
	if !strings.Contains(strings.ToLower(intro), strings.ToLower(keyword)) {
		violations = append(violations, "introduction does not mention the keyword")
	}

	return violations
}

func renderDraftHTML(draft *articleDraft) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(draft.Title)))
	writeParagraphs(&b, draft.Introduction)
	for _, section := range draft.Sections {
		b.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(section.Heading)))
		writeParagraphs(&b, section.Body)
	}
	if draft.Conclusion != "" {
		b.WriteString("<h2>Conclusion</h2>\n")
		writeParagraphs(&b, draft.Conclusion)
	}
	return b.String()
}

func writeParagraphs(b *strings.Builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(para)))
	}
}

func countWords(draft *articleDraft) int {
	total := len(strings.Fields(draft.Introduction)) + len(strings.Fields(draft.Conclusion))
	for _, s := range draft.Sections {
		total += len(strings.Fields(s.Body))
	}
	return total
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a keyword.
func Slugify(keyword string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(keyword), "-")
	return strings.Trim(slug, "-")
}

var firstParagraphPattern = regexp.MustCompile(`(?s)<p>(.*?)</p>`)

func firstParagraph(htmlBody string) string {
	if m := firstParagraphPattern.FindStringSubmatch(htmlBody); m != nil {
		return m[1]
	}
	return ""
}

// responseText concatenates the text parts of a generation response.
func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.Text:
				b.WriteString(string(p))
			case *genai.Text:
				b.WriteString(string(*p))
			}
		}
	}
	return b.String()
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON output despite instructions.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		return strings.TrimSpace(trimmed)
	}
	// Fall back to the outermost braces.
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}
