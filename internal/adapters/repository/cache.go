package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/visitas/internal/domain/derive"
	"github.com/okian/visitas/pkg/logger"
	"github.com/okian/visitas/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a loaded dataset is served before a reload.
const DefaultTTL = 5 * time.Minute

const loadKey = "dataset"

// Cache serves one immutable Dataset and reloads it from the source once it
// is older than the TTL. Concurrent callers that find it stale share one
// load. A failed load is returned to every waiter and drops the cached
// dataset, so the next call tries the source again.
type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time
	log logger.Logger

	group singleflight.Group

	mu      sync.RWMutex
	current *Dataset
	expires time.Time
	gen     uint64

	loads    atomic.Int64
	failures atomic.Int64
	hits     atomic.Int64
}

// CacheStats is a point-in-time view of the cache.
type CacheStats struct {
	Loads         int64     `json:"loads"`
	LoadFailures  int64     `json:"load_failures"`
	Hits          int64     `json:"hits"`
	Cached        bool      `json:"cached"`
	LoadedAt      time.Time `json:"loaded_at,omitzero"`
	Records       int       `json:"records"`
	RejectedTotal int       `json:"rejected"`
	TTLSeconds    float64   `json:"ttl_seconds"`
}

// NewCache wraps src with a TTL cache.
func NewCache(src Source, opts ...CacheOption) *Cache {
	c := &Cache{
		src: src,
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("cache")
	}
	return c
}

// Dataset returns the cached dataset, loading it first when it is missing
// or stale.
func (c *Cache) Dataset(ctx context.Context) (*Dataset, error) {
	if ds := c.fresh(); ds != nil {
		c.hits.Add(1)
		metrics.RecordCacheHit()
		return ds, nil
	}
	metrics.RecordCacheMiss()

	// The load outlives any single caller; one cancelled request must not
	// fail the others waiting on it.
	v, err, _ := c.group.Do(loadKey, func() (any, error) {
		if ds := c.fresh(); ds != nil {
			return ds, nil
		}
		return c.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate marks the cached dataset stale; the next call reloads. A load
// already in flight still answers its waiters but is not kept fresh.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.expires = time.Time{}
	c.gen++
	c.mu.Unlock()
	metrics.RecordCacheInvalidation()
}

// Stats reports load counters and the cached snapshot, if any.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	ds := c.current
	c.mu.RUnlock()

	st := CacheStats{
		Loads:        c.loads.Load(),
		LoadFailures: c.failures.Load(),
		Hits:         c.hits.Load(),
		TTLSeconds:   c.ttl.Seconds(),
	}
	if ds != nil {
		st.Cached = true
		st.LoadedAt = ds.LoadedAt
		st.Records = ds.Len()
		st.RejectedTotal = ds.RejectedTotal
	}
	return st
}

func (c *Cache) fresh() *Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil || !c.now().Before(c.expires) {
		return nil
	}
	return c.current
}

func (c *Cache) load(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	c.loads.Add(1)

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	rows, err := c.src.Rows(ctx)
	latencyMs := float64(time.Since(start).Nanoseconds()) / 1e6
	metrics.RecordDatasetLoad(err == nil, latencyMs)
	if err != nil {
		c.failures.Add(1)
		c.mu.Lock()
		c.current = nil
		c.expires = time.Time{}
		c.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "load")
		c.log.Error(ctx, "dataset load failed", logger.Error(err))
		return nil, err
	}

	now := c.now()
	ds := BuildDataset(rows, now)

	c.mu.Lock()
	c.current = ds
	if c.gen == gen {
		c.expires = now.Add(c.ttl)
	} else {
		c.expires = time.Time{}
	}
	c.mu.Unlock()

	metrics.UpdateDatasetRecords(ds.Len())
	for _, reason := range []derive.Rejection{
		derive.RejectMissingField,
		derive.RejectBadDate,
		derive.RejectUnknownPerson,
		derive.RejectYearOutOfRange,
	} {
		metrics.UpdateDatasetRejected(reason.String(), ds.Rejected[reason.String()])
	}

	c.log.Info(ctx, "dataset loaded",
		logger.Int("rows", ds.RowsRead),
		logger.Int("records", ds.Len()),
		logger.Int("rejected", ds.RejectedTotal),
		logger.Int("centers", ds.DistinctCenters),
		logger.Float64("latency_ms", latencyMs),
	)
	return ds, nil
}
