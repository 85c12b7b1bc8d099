package memory

import (
	"sync"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
)

// SnapshotStore keeps the current snapshot. Replace swaps it as a whole so
// readers see either the old or the new snapshot.
type SnapshotStore interface {
	Current() *models.Snapshot
	Replace(snapshot *models.Snapshot)
	FingerprintMatches(fp string) bool
	MarkFetched(at time.Time)
	LastFetch() *time.Time
}

type snapshotStore struct {
	mu        sync.RWMutex
	current   *models.Snapshot
	lastFetch time.Time
}

func NewSnapshotStore() SnapshotStore {
	return &snapshotStore{}
}

func (s *snapshotStore) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *snapshotStore) Replace(snapshot *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snapshot
	if snapshot != nil && snapshot.CapturedAt.After(s.lastFetch) {
		s.lastFetch = snapshot.CapturedAt
	}
}

func (s *snapshotStore) FingerprintMatches(fp string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && fp != "" && s.current.Fingerprint == fp
}

func (s *snapshotStore) MarkFetched(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at.After(s.lastFetch) {
		s.lastFetch = at
	}
}

func (s *snapshotStore) LastFetch() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastFetch.IsZero() {
		return nil
	}
	t := s.lastFetch
	return &t
}
