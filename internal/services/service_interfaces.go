package services

import (
	"context"
	"io"
	"time"

	"seo_content_automation_backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// GenerativeModel is the slice of *genai.GenerativeModel the research and
// writer services actually call, so tests can stand in a fake.
type GenerativeModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, parts ...genai.Part) *genai.GenerateContentResponseIterator
}

type Researcher interface {
	Research(ctx context.Context, keyword string, extraSources []models.AcademicSource) (*models.ResearchRecord, error)
}

type ResearchCacheManager interface {
	Lookup(ctx context.Context, keyword string) (*models.ResearchRecord, bool, error)
	Store(ctx context.Context, keyword string, record *models.ResearchRecord) error
	Extend(ctx context.Context, keyword string) error
	PurgeExpired(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (CacheStats, error)
}

type ArticleWriter interface {
	WriteArticle(ctx context.Context, keyword string, record *models.ResearchRecord) (*models.Article, error)
	StreamDraft(ctx context.Context, keyword string, record *models.ResearchRecord) *genai.GenerateContentResponseIterator
	ValidateSEO(article *models.Article, keyword string) []string
}

type CloudStorageManager interface {
	UploadFile(ctx context.Context, bucketName, objectName string, contentType string, content io.Reader) error
	DownloadFile(ctx context.Context, bucketName, objectName string) ([]byte, error)
	DeleteFile(ctx context.Context, bucketName, objectName string) error
	ListFiles(ctx context.Context, bucketName, prefix string) ([]string, error)
}

type ArticleServiceDB interface {
	SaveArticleToDB(article *models.Article) error
	GetArticleByIDFromDB(id uint) (*models.Article, error)
	GetArticleBySlugFromDB(slug string) (*models.Article, error)
	GetArticlesByUserIDFromDB(userID uuid.UUID) ([]models.Article, error)
	UpdateArticleStatusDB(id uint, status models.ArticleStatus, publishedURL string) error
	DeleteArticleFromDB(id uint) error
}

type JobServiceDB interface {
	CreateJobDB(job *models.GenerationJob) error
	GetJobDB(jobID string) (*models.GenerationJob, error)
	UpdateJobStatusDB(jobID string, status models.JobStatus, errorMessage string) error
	FinishJobDB(jobID string, articleID uint, cacheHit bool, tokensUsed int32, finishedAt time.Time) error
	GetJobsByUserIDFromDB(userID uuid.UUID) ([]models.GenerationJob, error)
}
