package memory

import (
	"sync"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
)

const DefaultHistoryCapacity = 100

// ChangeHistory is a bounded ring of change logs. The oldest log is evicted
// once capacity is reached.
type ChangeHistory interface {
	Append(log models.ChangeLog)
	// Recent returns logs newer than now-within, newest first.
	Recent(within time.Duration) []models.ChangeLog
	// All returns every retained log, newest first.
	All() []models.ChangeLog
	Len() int
	Clear()
}

type changeHistory struct {
	mu    sync.RWMutex
	logs  []models.ChangeLog
	start int
	size  int
	now   func() time.Time
}

type HistoryOption func(*changeHistory)

func WithClock(now func() time.Time) HistoryOption {
	return func(h *changeHistory) {
		h.now = now
	}
}

func NewChangeHistory(capacity int, opts ...HistoryOption) ChangeHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	h := &changeHistory{
		logs: make([]models.ChangeLog, capacity),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *changeHistory) Append(log models.ChangeLog) {
	h.mu.Lock()
	defer h.mu.Unlock()

	capacity := len(h.logs)
	if h.size < capacity {
		h.logs[(h.start+h.size)%capacity] = log
		h.size++
		return
	}
	h.logs[h.start] = log
	h.start = (h.start + 1) % capacity
}

func (h *changeHistory) Recent(within time.Duration) []models.ChangeLog {
	cutoff := h.now().Add(-within)
	return h.collect(func(l models.ChangeLog) bool {
		return !l.Timestamp.Before(cutoff)
	})
}

func (h *changeHistory) All() []models.ChangeLog {
	return h.collect(func(models.ChangeLog) bool { return true })
}

func (h *changeHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

func (h *changeHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logs = make([]models.ChangeLog, len(h.logs))
	h.start, h.size = 0, 0
}

func (h *changeHistory) collect(keep func(models.ChangeLog) bool) []models.ChangeLog {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.ChangeLog, 0, h.size)
	for i := h.size - 1; i >= 0; i-- {
		l := h.logs[(h.start+i)%len(h.logs)]
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// Significant keeps the logs whose summary counts anything.
func Significant(logs []models.ChangeLog) []models.ChangeLog {
	out := make([]models.ChangeLog, 0, len(logs))
	for _, l := range logs {
		if l.IsSignificant() {
			out = append(out, l)
		}
	}
	return out
}
