package repository

import (
	"time"

	"github.com/okian/visitas/pkg/logger"
)

// Option applies a configuration option to the XLSXSource.
type Option func(*XLSXSource)

// WithSheet selects the worksheet to read.
func WithSheet(sheet string) Option {
	return func(s *XLSXSource) {
		if sheet != "" {
			s.sheet = sheet
		}
	}
}

// WithSchema replaces the header aliases used to bind columns.
func WithSchema(schema Schema) Option {
	return func(s *XLSXSource) {
		if schema.aliases != nil {
			s.schema = schema
		}
	}
}

// WithSourceLogger sets the logger used by the source.
func WithSourceLogger(l logger.Logger) Option {
	return func(s *XLSXSource) {
		if l != nil {
			s.log = l
		}
	}
}

// CacheOption applies a configuration option to the Cache.
type CacheOption func(*Cache)

// WithTTL sets how long a loaded dataset stays fresh.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheLogger sets the logger used by the cache.
func WithCacheLogger(l logger.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}
