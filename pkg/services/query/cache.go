package query

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	result  *Result
	fetched time.Time
}

type cachedExecutor struct {
	inner Executor
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCachedExecutor wraps inner so that identical queries issued within ttl
// are served from memory. A non-positive ttl disables caching and returns
// inner unchanged. Cached results are shared between callers, which must not
// mutate returned rows.
func NewCachedExecutor(inner Executor, ttl time.Duration) Executor {
	if ttl <= 0 {
		return inner
	}
	return &cachedExecutor{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *cachedExecutor) Execute(
	ctx context.Context,
	siteID string,
	startDate, endDate string,
	metrics string,
	opts map[string]string,
) (*Result, error) {
	key := cacheKey(siteID, startDate, endDate, metrics, opts)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.fetched) < c.ttl {
		return entry.result, nil
	}

	result, err := c.inner.Execute(ctx, siteID, startDate, endDate, metrics, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, fetched: c.now()}
	c.mu.Unlock()

	return result, nil
}

func cacheKey(siteID, startDate, endDate, metrics string, opts map[string]string) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(siteID)
	sb.WriteByte('|')
	sb.WriteString(startDate)
	sb.WriteByte('|')
	sb.WriteString(endDate)
	sb.WriteByte('|')
	sb.WriteString(metrics)
	for _, k := range keys {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(opts[k])
	}
	return sb.String()
}
