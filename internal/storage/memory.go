// Package storage holds the front-end's in-memory caches. Nothing here
// outlives the process.
package storage

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

// ErrNotFound is returned when a domain has no cached analysis.
var ErrNotFound = errors.New("analysis not found")

type cachedAnalysis struct {
	record   model.AnalysisRecord
	storedAt time.Time
}

// AnalysisCache keeps one AnalysisRecord per requested domain so the detail
// view can switch tabs without asking the API again.
type AnalysisCache struct {
	mu      sync.RWMutex
	records map[string]cachedAnalysis
	now     func() time.Time
}

// NewAnalysisCache constructs an empty cache.
func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{
		records: make(map[string]cachedAnalysis),
		now:     time.Now,
	}
}

func cacheKey(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// Save inserts or replaces the record looked up as domain. The key is the
// domain the caller asked for, not rec.Domain, which the API may normalise.
func (c *AnalysisCache) Save(domain string, rec *model.AnalysisRecord) {
	entry := cachedAnalysis{record: rec.Clone(), storedAt: c.now().UTC()}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[cacheKey(domain)] = entry
}

// Get returns a deep copy of the cached record for domain and when it was
// stored.
func (c *AnalysisCache) Get(domain string) (*model.AnalysisRecord, time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.records[cacheKey(domain)]
	if !ok {
		return nil, time.Time{}, ErrNotFound
	}
	rec := entry.record.Clone()
	return &rec, entry.storedAt, nil
}
