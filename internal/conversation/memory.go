package conversation

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

type thread struct {
	messages []models.Message
	touched  time.Time
}

// MemoryStore is a process-local Store. Threads idle for longer than the TTL
// are dropped by Sweep; a zero TTL keeps threads forever.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*thread
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*MemoryStore)

func WithTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		threads: make(map[string]*thread),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, threadID string) ([]models.Message, error) {
	if threadID == "" {
		return nil, ErrEmptyThreadID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[threadID]
	if !ok {
		return []models.Message{}, nil
	}
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, threadID string, role models.Role, content string) error {
	if threadID == "" {
		return ErrEmptyThreadID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t, ok := s.threads[threadID]
	if !ok {
		t = &thread{
			messages: []models.Message{{Role: models.RoleSystem, Content: SystemPrompt, Timestamp: now}},
		}
		s.threads[threadID] = t
	}
	t.messages = append(t.messages, models.Message{Role: role, Content: content, Timestamp: now})
	t.touched = now
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, threadID string) error {
	if threadID == "" {
		return ErrEmptyThreadID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, threadID)
	return nil
}

func (s *MemoryStore) ListThreads(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Sweep evicts idle threads and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, t := range s.threads {
		if t.touched.Before(cutoff) {
			delete(s.threads, id)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Sweep on the given cron schedule (for example "@every 5m").
// The returned function stops the schedule.
func (s *MemoryStore) StartJanitor(schedule string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := s.Sweep(); n > 0 {
			s.logger.Info("evicted idle conversations", "count", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
