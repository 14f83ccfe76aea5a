// Package history owns the accumulated race outcomes for one process. The
// in-memory slice is the single owning copy; persistence happens only on an
// explicit Save, which rewrites the whole collection.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/racing-predictor/internal/models"
)

// Store abstracts a persistence backend. Save replaces the persisted
// collection wholesale; concurrent writers get last-writer-wins semantics.
type Store interface {
	Load(ctx context.Context) ([]models.HistoryRecord, error)
	Save(ctx context.Context, records []models.HistoryRecord) error
}

// Session holds the owning in-memory copy of the history with an explicit
// load-at-start / save-on-demand lifecycle. The mutex serializes writers
// when several sessions share one store.
type Session struct {
	store  Store
	logger *logrus.Logger

	mu      sync.RWMutex
	records []models.HistoryRecord
}

// NewSession creates an empty session bound to a store
func NewSession(store Store, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{store: store, logger: logger}
}

// Load replaces the in-memory set with the persisted one. A missing or
// unreadable store is not fatal: the session starts empty and the failure
// is logged as an informational notice.
func (s *Session) Load(ctx context.Context) {
	records, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Info("No usable persisted history, starting empty")
		records = nil
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// Append adds one confirmed outcome. Records are validated on the way in
// and never mutated afterwards.
func (s *Session) Append(rec models.HistoryRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid history record: %w", err)
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return nil
}

// Replace swaps the whole in-memory set, used by imports
func (s *Session) Replace(records []models.HistoryRecord) {
	copied := make([]models.HistoryRecord, len(records))
	copy(copied, records)

	s.mu.Lock()
	s.records = copied
	s.mu.Unlock()
}

// Records returns a snapshot copy of the accumulated history
func (s *Session) Records() []models.HistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HistoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of accumulated records
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Save persists the current collection. On failure the in-memory records
// stay untouched, so the caller can retry by saving again.
func (s *Session) Save(ctx context.Context) error {
	snapshot := s.Records()
	if err := s.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}
