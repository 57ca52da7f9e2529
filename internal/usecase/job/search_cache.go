package job

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"
)

const (
	searchKeyPrefix = "jobs:search:"

	// SearchCachePattern matches every cached keyword search.
	SearchCachePattern = searchKeyPrefix + "*"
)

// SearchInvalidator drops cached searches. Writers whose data is embedded in
// cached jobs (applications, companies) call it after a successful write.
type SearchInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

func InvalidateSearches(ctx context.Context, c SearchInvalidator, logger *log.Logger) {
	if c == nil {
		return
	}
	if err := c.DeleteByPattern(ctx, SearchCachePattern); err != nil && logger != nil {
		logger.Printf("[Jobs] Cache invalidate failed: %v", err)
	}
}

type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type searchCacheKeyInput struct {
	Keyword string `json:"keyword"`
}

func normalizeKeyword(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func SearchCacheKey(keyword string) string {
	b, _ := json.Marshal(searchCacheKeyInput{Keyword: normalizeKeyword(keyword)})
	sum := sha256.Sum256(b)
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}

func SearchLockKey(searchKey string) string {
	return "jobs:lock:" + strings.TrimPrefix(strings.TrimSpace(searchKey), searchKeyPrefix)
}
