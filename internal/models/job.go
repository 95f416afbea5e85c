package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusPending     JobStatus = "pending"
	JobStatusResearching JobStatus = "researching"
	JobStatusWriting     JobStatus = "writing"
	JobStatusFormatting  JobStatus = "formatting"
	JobStatusComplete    JobStatus = "complete"
	JobStatusFailed      JobStatus = "failed"
)

// GenerationJob tracks one article generation run end to end.
type GenerationJob struct {
	gorm.Model
	JobID        string    `gorm:"index;unique"`
	UserID       uuid.UUID `gorm:"type:uuid;index"`
	Keyword      string
	Status       JobStatus `gorm:"type:varchar(20);index"`
	ErrorMessage string
	ArticleID    uint
	CacheHit     bool
	StartedAt    time.Time
	FinishedAt   time.Time
	DurationSecs float64
	TokensUsed   int32
}
