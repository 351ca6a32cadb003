// Package service provides the dashboard service behind the HTTP API. It
// wires the spreadsheet source, the dataset cache and the session store, and
// runs every interaction as one synchronous filter and aggregate pass.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/visitas/internal/adapters/repository"
	"github.com/okian/visitas/internal/adapters/session"
	"github.com/okian/visitas/pkg/logger"
)

// Service implements the API dependencies for the visits dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	source   repository.Source
	cache    *repository.Cache
	sessions *session.Store
	watcher  *repository.Watcher

	// Configuration
	sourcePath  string
	sheet       string
	schema      map[string][]string
	cacheTTL    time.Duration
	watchSource bool
	sessionTTL  time.Duration
	maxSessions int

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSourcePath sets the workbook read by the default source.
func WithSourcePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sourcePath = path
		}
	}
}

// WithSheet sets the worksheet read by the default source.
func WithSheet(sheet string) Option {
	return func(s *Service) {
		if sheet != "" {
			s.sheet = sheet
		}
	}
}

// WithSchema overrides header aliases per field.
func WithSchema(aliases map[string][]string) Option {
	return func(s *Service) {
		s.schema = aliases
	}
}

// WithSource replaces the workbook source entirely.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithCacheTTL sets how long a loaded dataset is served.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithWatchSource invalidates the cache when the workbook changes on disk.
func WithWatchSource(enabled bool) Option {
	return func(s *Service) {
		s.watchSource = enabled
	}
}

// WithSessionTTL sets the idle time after which sessions expire.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sourcePath:  "visitas_FROCA.xlsx",
		sheet:       repository.DefaultSheet,
		cacheTTL:    repository.DefaultTTL,
		sessionTTL:  session.DefaultTTL,
		maxSessions: session.DefaultMaxSessions,
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and warms the dataset cache. A
// failed warm-up is logged only; the error resurfaces on the first render.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	if s.source == nil {
		schema, err := repository.NewSchema(s.schema)
		if err != nil {
			return err
		}
		s.source = repository.NewXLSXSource(s.sourcePath,
			repository.WithSheet(s.sheet),
			repository.WithSchema(schema),
			repository.WithSourceLogger(s.logger.Named("xlsx")),
		)
	}
	s.cache = repository.NewCache(s.source,
		repository.WithTTL(s.cacheTTL),
		repository.WithCacheLogger(s.logger.Named("cache")),
	)
	s.sessions = session.New(
		session.WithTTL(s.sessionTTL),
		session.WithMaxSessions(s.maxSessions),
		session.WithLogger(s.logger.Named("session")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.sessions.Run(runCtx)

	if s.watchSource {
		w, err := repository.WatchFile(runCtx, s.sourcePath, s.cache.Invalidate, s.logger.Named("watch"))
		if err != nil {
			s.logger.Warn(ctx, "source watch disabled", logger.String("path", s.sourcePath), logger.Error(err))
		} else {
			s.watcher = w
		}
	}

	if ds, err := s.cache.Dataset(ctx); err != nil {
		s.logger.Warn(ctx, "initial dataset load failed", logger.Error(err))
	} else {
		s.logger.Info(ctx, "initial dataset loaded", logger.Int("records", ds.Len()))
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "dashboard service started",
		logger.String("source", s.sourcePath),
		logger.String("sheet", s.sheet),
		logger.Duration("cacheTTL", s.cacheTTL),
		logger.Duration("sessionTTL", s.sessionTTL),
		logger.Bool("watch", s.watcher != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close source watch", logger.Error(err))
		}
		s.watcher = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.sessions.Wait()
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Stats is the service snapshot served on /stats.
type Stats struct {
	Started       bool                  `json:"started"`
	UptimeSeconds float64               `json:"uptime_seconds"`
	Source        string                `json:"source"`
	Sheet         string                `json:"sheet"`
	Watching      bool                  `json:"watching"`
	Cache         repository.CacheStats `json:"cache"`
	Sessions      session.Stats         `json:"sessions"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:  s.started,
		Source:   s.sourcePath,
		Sheet:    s.sheet,
		Watching: s.watcher != nil,
	}
	if s.started {
		st.UptimeSeconds = time.Since(s.startedAt).Seconds()
		st.Cache = s.cache.Stats()
		st.Sessions = s.sessions.Stats()
	}
	return st
}

// components returns the live cache and session store.
func (s *Service) components() (*repository.Cache, *session.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.cache, s.sessions, nil
}
