package services

import (
	"time"

	"seo_content_automation_backend/internal/models"

	"gorm.io/gorm"
)

type ResearchCacheDB interface {
	CreateRecordDB(record *models.ResearchRecord) error
	GetRecordDB(id uint) (*models.ResearchRecord, error)
	CreateEntryDB(keyword string, recordID uint, expiresAt time.Time) error
	GetEntryDB(keyword string) (*models.ResearchCacheEntry, error)
	IncrementHitDB(keyword string) error
	UpdateExpiryDB(keyword string, expiresAt time.Time) error
	DeleteEntryDB(keyword string) error
	DeleteExpiredDB(now time.Time) (int64, error)
	CountEntriesDB() (int64, error)
	SumHitsDB() (int64, error)
}

type DefaultResearchCacheDB struct {
	db *gorm.DB
}

func NewResearchCacheDB(db *gorm.DB) ResearchCacheDB {
	return &DefaultResearchCacheDB{db: db}
}

func (s *DefaultResearchCacheDB) CreateRecordDB(record *models.ResearchRecord) error {
	return s.db.Create(record).Error
}

func (s *DefaultResearchCacheDB) GetRecordDB(id uint) (*models.ResearchRecord, error) {
	var record models.ResearchRecord
	err := s.db.Preload("Sources").First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *DefaultResearchCacheDB) CreateEntryDB(keyword string, recordID uint, expiresAt time.Time) error {
	entry := &models.ResearchCacheEntry{
		Keyword:          keyword,
		ResearchRecordID: recordID,
		ExpiresAt:        expiresAt,
	}
	return s.db.Where(models.ResearchCacheEntry{Keyword: keyword}).Assign(entry).FirstOrCreate(entry).Error
}

func (s *DefaultResearchCacheDB) GetEntryDB(keyword string) (*models.ResearchCacheEntry, error) {
	var entry models.ResearchCacheEntry
	err := s.db.Where("keyword = ?", keyword).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *DefaultResearchCacheDB) IncrementHitDB(keyword string) error {
	return s.db.Model(&models.ResearchCacheEntry{}).Where("keyword = ?", keyword).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}

func (s *DefaultResearchCacheDB) UpdateExpiryDB(keyword string, expiresAt time.Time) error {
	return s.db.Model(&models.ResearchCacheEntry{}).Where("keyword = ?", keyword).
		Update("expires_at", expiresAt).Error
}

func (s *DefaultResearchCacheDB) DeleteEntryDB(keyword string) error {
	return s.db.Where("keyword = ?", keyword).Delete(&models.ResearchCacheEntry{}).Error
}

func (s *DefaultResearchCacheDB) DeleteExpiredDB(now time.Time) (int64, error) {
	result := s.db.Where("expires_at < ?", now).Delete(&models.ResearchCacheEntry{})
	return result.RowsAffected, result.Error
}

func (s *DefaultResearchCacheDB) CountEntriesDB() (int64, error) {
	var count int64
	err := s.db.Model(&models.ResearchCacheEntry{}).Count(&count).Error
	return count, err
}

func (s *DefaultResearchCacheDB) SumHitsDB() (int64, error) {
	var total int64
	err := s.db.Model(&models.ResearchCacheEntry{}).
		Select("COALESCE(SUM(hit_count), 0)").Scan(&total).Error
	return total, err
}
