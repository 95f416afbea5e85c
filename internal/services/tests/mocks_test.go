package services_test

import (
	"context"
	"io"
	"time"

	"seo_content_automation_backend/internal/models"
	"seo_content_automation_backend/internal/services"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockResearcher struct {
	mock.Mock
}

func (m *MockResearcher) Research(ctx context.Context, keyword string, extraSources []models.AcademicSource) (*models.ResearchRecord, error) {
	args := m.Called(ctx, keyword, extraSources)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResearchRecord), args.Error(1)
}

type MockCacheManager struct {
	mock.Mock
}

func (m *MockCacheManager) Lookup(ctx context.Context, keyword string) (*models.ResearchRecord, bool, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.ResearchRecord), args.Bool(1), args.Error(2)
}

func (m *MockCacheManager) Store(ctx context.Context, keyword string, record *models.ResearchRecord) error {
	args := m.Called(ctx, keyword, record)
	return args.Error(0)
}

func (m *MockCacheManager) Extend(ctx context.Context, keyword string) error {
	args := m.Called(ctx, keyword)
	return args.Error(0)
}

func (m *MockCacheManager) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheManager) Stats(ctx context.Context) (services.CacheStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.CacheStats), args.Error(1)
}

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteArticle(ctx context.Context, keyword string, record *models.ResearchRecord) (*models.Article, error) {
	args := m.Called(ctx, keyword, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockWriter) StreamDraft(ctx context.Context, keyword string, record *models.ResearchRecord) *genai.GenerateContentResponseIterator {
	args := m.Called(ctx, keyword, record)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*genai.GenerateContentResponseIterator)
}

func (m *MockWriter) ValidateSEO(article *models.Article, keyword string) []string {
	args := m.Called(article, keyword)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

type MockArticleDB struct {
	mock.Mock
}

func (m *MockArticleDB) SaveArticleToDB(article *models.Article) error {
	args := m.Called(article)
	return args.Error(0)
}

func (m *MockArticleDB) GetArticleByIDFromDB(id uint) (*models.Article, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleDB) GetArticleBySlugFromDB(slug string) (*models.Article, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleDB) GetArticlesByUserIDFromDB(userID uuid.UUID) ([]models.Article, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockArticleDB) UpdateArticleStatusDB(id uint, status models.ArticleStatus, publishedURL string) error {
	args := m.Called(id, status, publishedURL)
	return args.Error(0)
}

func (m *MockArticleDB) DeleteArticleFromDB(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockJobDB struct {
	mock.Mock
}

func (m *MockJobDB) CreateJobDB(job *models.GenerationJob) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *MockJobDB) GetJobDB(jobID string) (*models.GenerationJob, error) {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerationJob), args.Error(1)
}

func (m *MockJobDB) UpdateJobStatusDB(jobID string, status models.JobStatus, errorMessage string) error {
	args := m.Called(jobID, status, errorMessage)
	return args.Error(0)
}

func (m *MockJobDB) FinishJobDB(jobID string, articleID uint, cacheHit bool, tokensUsed int32, finishedAt time.Time) error {
	args := m.Called(jobID, articleID, cacheHit, tokensUsed, finishedAt)
	return args.Error(0)
}

func (m *MockJobDB) GetJobsByUserIDFromDB(userID uuid.UUID) ([]models.GenerationJob, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GenerationJob), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(ctx context.Context, bucketName, objectName, contentType string, content io.Reader) error {
	args := m.Called(ctx, bucketName, objectName, contentType, content)
	return args.Error(0)
}

func (m *MockStorage) DownloadFile(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	args := m.Called(ctx, bucketName, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockStorage) ListFiles(ctx context.Context, bucketName, prefix string) ([]string, error) {
	args := m.Called(ctx, bucketName, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
