package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusReviewed  ArticleStatus = "reviewed"
	ArticleStatusPublished ArticleStatus = "published"
)

type Article struct {
	gorm.Model
	UserID          uuid.UUID `gorm:"type:uuid;index"`
	JobID           string    `gorm:"index"`
	Keyword         string    `gorm:"index"`
	Slug            string    `gorm:"index;unique"`
	Title           string
	MetaDescription string
	HTMLBody        string `gorm:"type:text"`
	WordCount       int
	Status          ArticleStatus `gorm:"type:varchar(20);default:'draft'"`
	Sources         []AcademicSource
	PublishedURL    string
	GeneratedAt     time.Time
	GenerationSecs  float64
	TokensUsed      int32
}
