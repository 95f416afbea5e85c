package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seo_content_automation_backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CacheStats summarizes the research cache for the ops endpoints.
type CacheStats struct {
	Entries   int64 `json:"entries"`
	TotalHits int64 `json:"total_hits"`
}

// ResearchCacheService keys research records by normalized keyword with a
// TTL, so repeat generations for the same keyword skip the research stage.
type ResearchCacheService struct {
	cacheDB      ResearchCacheDB
	ttl          time.Duration
	extendPeriod time.Duration
}

func NewResearchCacheService(cacheDB ResearchCacheDB, ttl, extendPeriod time.Duration) *ResearchCacheService {
	return &ResearchCacheService{
		cacheDB:      cacheDB,
		ttl:          ttl,
		extendPeriod: extendPeriod,
	}
}

// Lookup returns the cached research record for a keyword. Expired entries
// are treated as misses and removed.
func (cs *ResearchCacheService) Lookup(ctx context.Context, keyword string) (*models.ResearchRecord, bool, error) {
	key := NormalizeKeyword(keyword)

	entry, err := cs.cacheDB.GetEntryDB(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up research cache: %w", err)
	}

	if entry.Expired(time.Now()) {
		if err := cs.cacheDB.DeleteEntryDB(key); err != nil {
			log.Warn().Err(err).Str("keyword", key).Msg("failed to drop expired cache entry")
		}
		return nil, false, nil
	}

	record, err := cs.cacheDB.GetRecordDB(entry.ResearchRecordID)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry points at missing research record: %w", err)
	}

	if err := cs.cacheDB.IncrementHitDB(key); err != nil {
		log.Warn().Err(err).Str("keyword", key).Msg("failed to bump cache hit count")
	}

	return record, true, nil
}

// Store persists a fresh research record and indexes it under the keyword.
func (cs *ResearchCacheService) Store(ctx context.Context, keyword string, record *models.ResearchRecord) error {
	if record.ID == 0 {
		if err := cs.cacheDB.CreateRecordDB(record); err != nil {
			return fmt.Errorf("failed to save research record: %w", err)
		}
	}
	key := NormalizeKeyword(keyword)
	if err := cs.cacheDB.CreateEntryDB(key, record.ID, time.Now().Add(cs.ttl)); err != nil {
		return fmt.Errorf("failed to index research record under %q: %w", key, err)
	}
	return nil
}

// Extend pushes a cached keyword's expiry out by the configured period.
func (cs *ResearchCacheService) Extend(ctx context.Context, keyword string) error {
	key := NormalizeKeyword(keyword)
	entry, err := cs.cacheDB.GetEntryDB(key)
	if err != nil {
		return fmt.Errorf("failed to extend cache entry: %w", err)
	}
	return cs.cacheDB.UpdateExpiryDB(key, entry.ExpiresAt.Add(cs.extendPeriod))
}

// PurgeExpired removes every lapsed entry and reports how many went.
func (cs *ResearchCacheService) PurgeExpired(ctx context.Context) (int64, error) {
	return cs.cacheDB.DeleteExpiredDB(time.Now())
}

func (cs *ResearchCacheService) Stats(ctx context.Context) (CacheStats, error) {
	entries, err := cs.cacheDB.CountEntriesDB()
	if err != nil {
		return CacheStats{}, err
	}
	hits, err := cs.cacheDB.SumHitsDB()
	if err != nil {
		return CacheStats{}, err
	}
	return CacheStats{Entries: entries, TotalHits: hits}, nil
}

// NormalizeKeyword lowercases and collapses whitespace so "Plant  Care" and
// "plant care" share a cache entry.
func NormalizeKeyword(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), " ")
}
