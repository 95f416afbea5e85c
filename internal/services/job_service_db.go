package services

import (
	"time"

	"seo_content_automation_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultJobService implements JobServiceDB on GORM.
type DefaultJobService struct {
	db *gorm.DB
}

func NewJobServiceDB(db *gorm.DB) JobServiceDB {
	return &DefaultJobService{db: db}
}

func (s *DefaultJobService) CreateJobDB(job *models.GenerationJob) error {
	return s.db.Create(job).Error
}

func (s *DefaultJobService) GetJobDB(jobID string) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := s.db.Where("job_id = ?", jobID).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *DefaultJobService) UpdateJobStatusDB(jobID string, status models.JobStatus, errorMessage string) error {
	updates := map[string]interface{}{"status": status}
	if errorMessage != "" {
		updates["error_message"] = errorMessage
	}
	return s.db.Model(&models.GenerationJob{}).Where("job_id = ?", jobID).Updates(updates).Error
}

func (s *DefaultJobService) FinishJobDB(jobID string, articleID uint, cacheHit bool, tokensUsed int32, finishedAt time.Time) error {
	var job models.GenerationJob
	if err := s.db.Where("job_id = ?", jobID).First(&job).Error; err != nil {
		return err
	}
	return s.db.Model(&job).Updates(map[string]interface{}{
		"status":        models.JobStatusComplete,
		"article_id":    articleID,
		"cache_hit":     cacheHit,
		"tokens_used":   tokensUsed,
		"finished_at":   finishedAt,
		"duration_secs": finishedAt.Sub(job.StartedAt).Seconds(),
	}).Error
}

func (s *DefaultJobService) GetJobsByUserIDFromDB(userID uuid.UUID) ([]models.GenerationJob, error) {
	var jobs []models.GenerationJob
	result := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}
