package services

import (
	"seo_content_automation_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultArticleService implements ArticleServiceDB on GORM.
type DefaultArticleService struct {
	db *gorm.DB
}

func NewArticleServiceDB(db *gorm.DB) ArticleServiceDB {
	return &DefaultArticleService{db: db}
}

func (s *DefaultArticleService) SaveArticleToDB(article *models.Article) error {
	if article.ID != 0 {
		return s.db.Save(article).Error
	}
	return s.db.Create(article).Error
}

func (s *DefaultArticleService) GetArticleByIDFromDB(id uint) (*models.Article, error) {
	var article models.Article
	result := s.db.Preload("Sources").First(&article, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &article, nil
}

func (s *DefaultArticleService) GetArticleBySlugFromDB(slug string) (*models.Article, error) {
	var article models.Article
	result := s.db.Preload("Sources").Where("slug = ?", slug).First(&article)
	if result.Error != nil {
		return nil, result.Error
	}
	return &article, nil
}

func (s *DefaultArticleService) GetArticlesByUserIDFromDB(userID uuid.UUID) ([]models.Article, error) {
	var articles []models.Article
	result := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&articles)
	if result.Error != nil {
		return nil, result.Error
	}
	return articles, nil
}

func (s *DefaultArticleService) UpdateArticleStatusDB(id uint, status models.ArticleStatus, publishedURL string) error {
	updates := map[string]interface{}{"status": status}
	if publishedURL != "" {
		updates["published_url"] = publishedURL
	}
	return s.db.Model(&models.Article{}).Where("id = ?", id).Updates(updates).Error
}

func (s *DefaultArticleService) DeleteArticleFromDB(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.AcademicSource{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
}
