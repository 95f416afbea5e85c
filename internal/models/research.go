package models

import (
	"time"

	"gorm.io/gorm"
)

// ResearchRecord is the persisted output of one research run for a keyword.
type ResearchRecord struct {
	gorm.Model
	Keyword       string `gorm:"index"`
	Summary       string `gorm:"type:text"`
	MainFindings  string `gorm:"type:text"` // newline-separated findings
	KeyStatistics string `gorm:"type:text"` // newline-separated statistics
	Sources       []AcademicSource
	SourceCount   int
	CompletedAt   time.Time
}

// ResearchCacheEntry keys a ResearchRecord by normalized keyword with a TTL.
type ResearchCacheEntry struct {
	gorm.Model
	Keyword          string `gorm:"index;unique"`
	ResearchRecordID uint
	ExpiresAt        time.Time `gorm:"index"`
	HitCount         int64
}

func (e *ResearchCacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
