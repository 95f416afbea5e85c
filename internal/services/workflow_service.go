package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seo_content_automation_backend/internal/broker"
	"seo_content_automation_backend/internal/citation"
	"seo_content_automation_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WorkflowService orchestrates one article generation end to end:
// cache lookup, research, writing, citation formatting, persistence and
// publication, with progress events on the broker.
type WorkflowService struct {
	research   Researcher
	cache      ResearchCacheManager
	writer     ArticleWriter
	articles   ArticleServiceDB
	jobs       JobServiceDB
	exporter   *ExportService
	storage    CloudStorageManager
	events     *broker.Broker
	bucketName string
}

func NewWorkflowService(
	research Researcher,
	cache ResearchCacheManager,
	writer ArticleWriter,
	articles ArticleServiceDB,
	jobs JobServiceDB,
	exporter *ExportService,
	storage CloudStorageManager,
	events *broker.Broker,
	bucketName string,
) *WorkflowService {
	return &WorkflowService{
		research:   research,
		cache:      cache,
		writer:     writer,
		articles:   articles,
		jobs:       jobs,
		exporter:   exporter,
		storage:    storage,
		events:     events,
		bucketName: bucketName,
	}
}

// JobTopic is the broker topic progress events for a job are published on.
func JobTopic(jobID string) string {
	return "job_" + jobID
}

// StartGeneration registers a job and runs the pipeline in the background.
func (s *WorkflowService) StartGeneration(ctx context.Context, user *models.User, keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", fmt.Errorf("keyword must not be empty")
	}

	jobID := uuid.New().String()
	job := &models.GenerationJob{
		JobID:     jobID,
		UserID:    user.ID,
		Keyword:   keyword,
		Status:    models.JobStatusPending,
		StartedAt: time.Now(),
	}
	if err := s.jobs.CreateJobDB(job); err != nil {
		return "", fmt.Errorf("failed to create generation job: %w", err)
	}

	// The job outlives the HTTP request that started it.
	go s.runJob(context.Background(), jobID, user.ID, keyword)

	return jobID, nil
}

func (s *WorkflowService) runJob(ctx context.Context, jobID string, userID uuid.UUID, keyword string) {
	started := time.Now()

	s.setStatus(jobID, models.JobStatusResearching)
	s.publish(jobID, "researching", fmt.Sprintf("Researching %q", keyword), 10)

	record, cacheHit, err := s.ResearchKeyword(ctx, keyword, nil, false)
	if err != nil {
		s.failJob(jobID, "researching", err)
		return
	}
	if cacheHit {
		s.publish(jobID, "researching", "Reused cached research", 30)
	} else {
		s.publish(jobID, "researching", fmt.Sprintf("Collected %d sources", record.SourceCount), 30)
	}

	s.setStatus(jobID, models.JobStatusWriting)
	s.publish(jobID, "writing", "Drafting article", 40)

	article, err := s.writer.WriteArticle(ctx, keyword, record)
	if err != nil {
		s.failJob(jobID, "writing", err)
		return
	}
	article.UserID = userID
	article.JobID = jobID

	s.setStatus(jobID, models.JobStatusFormatting)
	s.publish(jobID, "formatting", "Formatting citations", 70)

	references := citation.ReferenceList(record.Sources)
	attachSources(article, record.Sources)

	if violations := s.writer.ValidateSEO(article, keyword); len(violations) > 0 {
		// The draft is still worth reviewing; surface the problems instead
		// of discarding a full generation run.
		log.Warn().Str("job_id", jobID).Strs("violations", violations).Msg("article failed SEO validation")
		s.publish(jobID, "warning", strings.Join(violations, "; "), 75)
	}

	article.GenerationSecs = time.Since(started).Seconds()
	if err := s.articles.SaveArticleToDB(article); err != nil {
		s.failJob(jobID, "formatting", fmt.Errorf("failed to save article: %w", err))
		return
	}
	s.publish(jobID, "formatting", "Article saved", 85)

	s.publishArticle(ctx, jobID, article, references)

	if err := s.jobs.FinishJobDB(jobID, article.ID, cacheHit, article.TokensUsed, time.Now()); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to record job completion")
	}
	s.publish(jobID, "complete", fmt.Sprintf("Article %d ready", article.ID), 100)
}

// publishArticle uploads the review page to the bucket. Publication is best
// effort: a storage outage leaves a reviewable draft, not a failed job.
func (s *WorkflowService) publishArticle(ctx context.Context, jobID string, article *models.Article, references []string) {
	html, err := s.exporter.RenderReviewHTML(article, references)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to render review page")
		return
	}

	url, err := PublishArticleHTML(ctx, s.storage, s.bucketName, article.Slug, html)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to publish article")
		s.publish(jobID, "warning", "Publishing failed, article kept as draft", 90)
		return
	}

	if err := s.articles.UpdateArticleStatusDB(article.ID, models.ArticleStatusPublished, url); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to mark article published")
		return
	}
	article.Status = models.ArticleStatusPublished
	article.PublishedURL = url
	s.publish(jobID, "publishing", url, 95)
}

// ResearchKeyword returns research for a keyword, consulting the cache first
// unless bypassCache is set. Fresh results are cached on the way out.
func (s *WorkflowService) ResearchKeyword(ctx context.Context, keyword string, extraSources []models.AcademicSource, bypassCache bool) (*models.ResearchRecord, bool, error) {
	if !bypassCache && len(extraSources) == 0 {
		record, hit, err := s.cache.Lookup(ctx, keyword)
		if err != nil {
			log.Warn().Err(err).Str("keyword", keyword).Msg("cache lookup failed, researching from scratch")
		} else if hit {
			return record, true, nil
		}
	}

	record, err := s.research.Research(ctx, keyword, extraSources)
	if err != nil {
		return nil, false, err
	}

	if len(extraSources) == 0 {
		if err := s.cache.Store(ctx, keyword, record); err != nil {
			log.Warn().Err(err).Str("keyword", keyword).Msg("failed to cache research record")
		}
	}
	return record, false, nil
}

// StreamDraft researches (or reuses) a keyword and returns the writer's
// streaming iterator for SSE/websocket relay.
func (s *WorkflowService) StreamDraft(ctx context.Context, keyword string) (*genai.GenerateContentResponseIterator, error) {
	record, _, err := s.ResearchKeyword(ctx, keyword, nil, false)
	if err != nil {
		return nil, err
	}
	return s.writer.StreamDraft(ctx, keyword, record), nil
}

func (s *WorkflowService) GetJob(jobID string) (*models.GenerationJob, error) {
	return s.jobs.GetJobDB(jobID)
}

func (s *WorkflowService) GetUserJobs(userID uuid.UUID) ([]models.GenerationJob, error) {
	return s.jobs.GetJobsByUserIDFromDB(userID)
}

func (s *WorkflowService) GetUserArticles(userID uuid.UUID) ([]models.Article, error) {
	return s.articles.GetArticlesByUserIDFromDB(userID)
}

func (s *WorkflowService) GetArticle(id uint) (*models.Article, error) {
	return s.articles.GetArticleByIDFromDB(id)
}

func (s *WorkflowService) ExportArticlePDF(id uint) ([]byte, error) {
	article, err := s.articles.GetArticleByIDFromDB(id)
	if err != nil {
		return nil, err
	}
	return s.exporter.ExportPDF(article, citation.ReferenceList(article.Sources))
}

// ValidateArticleSEO re-runs the SEO checks against a stored article.
func (s *WorkflowService) ValidateArticleSEO(id uint) ([]string, error) {
	article, err := s.articles.GetArticleByIDFromDB(id)
	if err != nil {
		return nil, err
	}
	return s.writer.ValidateSEO(article, article.Keyword), nil
}

func (s *WorkflowService) RenderArticleHTML(id uint) (string, error) {
	article, err := s.articles.GetArticleByIDFromDB(id)
	if err != nil {
		return "", err
	}
	return s.exporter.RenderReviewHTML(article, citation.ReferenceList(article.Sources))
}

func (s *WorkflowService) setStatus(jobID string, status models.JobStatus) {
	if err := s.jobs.UpdateJobStatusDB(jobID, status, ""); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to update job status")
	}
}

func (s *WorkflowService) failJob(jobID, stage string, cause error) {
	log.Error().Err(cause).Str("job_id", jobID).Str("stage", stage).Msg("generation job failed")
	if err := s.jobs.UpdateJobStatusDB(jobID, models.JobStatusFailed, cause.Error()); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to record job failure")
	}
	s.publish(jobID, "failed", cause.Error(), 100)
}

func (s *WorkflowService) publish(jobID, stage, message string, percent int) {
	s.events.Publish(JobTopic(jobID), broker.ProgressEvent{
		JobID:   jobID,
		Stage:   stage,
		Message: message,
		Percent: percent,
	})
}

// attachSources copies the research sources onto the article so the rows
// survive independent of the cached research record.
func attachSources(article *models.Article, sources []models.AcademicSource) {
	article.Sources = make([]models.AcademicSource, len(sources))
	for i, src := range sources {
		copied := src
		copied.ID = 0
		copied.CreatedAt = time.Time{}
		copied.UpdatedAt = time.Time{}
		copied.ResearchRecordID = 0
		article.Sources[i] = copied
	}
}
