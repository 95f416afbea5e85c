package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seo_content_automation_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel feeds canned responses to the services that drive Gemini.
type fakeModel struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if text, ok := p.(genai.Text); ok {
			f.prompts = append(f.prompts, string(text))
		}
	}
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func (f *fakeModel) GenerateContentStream(ctx context.Context, parts ...genai.Part) *genai.GenerateContentResponseIterator {
	return nil
}

func textResponse(text string, tokens int32) *genai.GenerateContentResponse {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
	if tokens > 0 {
		resp.UsageMetadata = &genai.UsageMetadata{TotalTokenCount: tokens}
	}
	return resp
}

const validDraftJSON = `{
  "title": "Plant Care Basics for Beginners",
  "meta_description": "Learn plant care basics for beginners: watering schedules, light requirements, soil choices, and the common mistakes that kill houseplants fastest.",
  "introduction": "Plant care does not have to be hard. This guide walks through plant care basics step by step.",
  "sections": [
    {"heading": "Watering", "body": "Water deeply but infrequently.\n\nLet the topsoil dry out between waterings."},
    {"heading": "Light", "body": "Most houseplants prefer bright indirect light."}
  ],
  "conclusion": "Start simple and observe your plants."
}`

func TestWriterService_WriteArticle(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{textResponse(validDraftJSON, 2048)}}
	ws := NewWriterService(model, 10, 1)

	record := &models.ResearchRecord{
		Keyword:      "plant care basics",
		Summary:      "Plants need water and light.",
		MainFindings: "Overwatering is the top killer.",
	}

	article, err := ws.WriteArticle(context.Background(), "plant care basics", record)
	require.NoError(t, err)

	assert.Equal(t, "Plant Care Basics for Beginners", article.Title)
	assert.Equal(t, "plant-care-basics", article.Slug)
	assert.Equal(t, models.ArticleStatusDraft, article.Status)
	assert.Equal(t, int32(2048), article.TokensUsed)
	assert.Contains(t, article.HTMLBody, "<h1>Plant Care Basics for Beginners</h1>")
	assert.Contains(t, article.HTMLBody, "<h2>Watering</h2>")
	assert.Contains(t, article.HTMLBody, "<h2>Conclusion</h2>")
	assert.Contains(t, article.HTMLBody, "<p>Water deeply but infrequently.</p>")
	assert.Greater(t, article.WordCount, 10)

	// The prompt carries the research through to the model.
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Overwatering is the top killer.")
	assert.Contains(t, model.prompts[0], `"plant care basics"`)
}

func TestWriterService_WriteArticle_RetriesOnMalformedDraft(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("sorry, here is prose instead of JSON", 0),
		textResponse(validDraftJSON, 100),
	}}
	ws := NewWriterService(model, 10, 1)

	article, err := ws.WriteArticle(context.Background(), "plant care basics", &models.ResearchRecord{Summary: "s"})
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls)
	assert.Equal(t, "Plant Care Basics for Beginners", article.Title)
}

func TestWriterService_WriteArticle_GivesUpAfterRetries(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("backend unavailable"), errors.New("backend unavailable")}}
	ws := NewWriterService(model, 10, 1)

	_, err := ws.WriteArticle(context.Background(), "plant care basics", &models.ResearchRecord{Summary: "s"})
	require.Error(t, err)
	assert.Equal(t, 2, model.calls)
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestWriterService_WriteArticle_AcceptsFencedJSON(t *testing.T) {
	fenced := "```json\n" + validDraftJSON + "\n```"
	model := &fakeModel{responses: []*genai.GenerateContentResponse{textResponse(fenced, 0)}}
	ws := NewWriterService(model, 10, 0)

	article, err := ws.WriteArticle(context.Background(), "plant care basics", &models.ResearchRecord{Summary: "s"})
	require.NoError(t, err)
	assert.Equal(t, "Plant Care Basics for Beginners", article.Title)
}

func TestWriterService_ValidateSEO(t *testing.T) {
	ws := NewWriterService(nil, 1000, 0)

	article := &models.Article{
		Title:           "Plant Care Basics for Beginners",
		MetaDescription: strings.Repeat("x", 140),
		HTMLBody:        "<h1>t</h1>\n<p>All about plant care basics.</p>\n",
		WordCount:       1200,
	}
	assert.Empty(t, ws.ValidateSEO(article, "plant care basics"))
}

func TestWriterService_ValidateSEO_CollectsAllViolations(t *testing.T) {
	ws := NewWriterService(nil, 1000, 0)

	article := &models.Article{
		Title:           strings.Repeat("Very Long Title About Gardening ", 4),
		MetaDescription: "too short",
		HTMLBody:        "<h1>t</h1>\n<p>An intro that never mentions the topic.</p>\n",
		WordCount:       312,
	}
	violations := ws.ValidateSEO(article, "plant care basics")
	assert.Len(t, violations, 5)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "plant-care-basics", Slugify("Plant Care Basics"))
	assert.Equal(t, "seo-in-2025", Slugify("  SEO in 2025! "))
	assert.Equal(t, "a-b", Slugify("a___b"))
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("Here you go: {\"a\":1} hope that helps"))
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
}
