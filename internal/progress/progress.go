// Package progress holds the process-wide progress-id -> ProgressRecord
// mapping a translation request's executor workers write to and an
// external status endpoint reads from. Records linger for a grace
// period after the request that owns them ends, then are garbage
// collected by a background sweep.
package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// entry wraps a request's counters plus the bookkeeping the cleanup
// sweep needs: a done flag and the timestamp it was marked done at.
type entry struct {
	total     atomic.Int64
	completed atomic.Int64
	errored   atomic.Bool

	mu       sync.Mutex
	done     bool
	doneAt   time.Time
}

// Store is a concurrent-safe progress-id -> ProgressRecord mapping.
// Writers are executor workers (IncrementCompleted) and the request
// entry point (Start, SetError, Done); readers are the status endpoint
// (Get).
type Store struct {
	entries sync.Map // map[string]*entry
	linger  time.Duration
	stop    chan struct{}
}

// New creates a Store whose records are garbage collected linger after
// the request that owns them calls Done. A background sweep runs on
// cleanupInterval; call Stop on shutdown.
func New(linger, cleanupInterval time.Duration) *Store {
	s := &Store{linger: linger, stop: make(chan struct{})}
	go s.cleanup(cleanupInterval)
	return s
}

// Stop terminates the background cleanup goroutine.
func (s *Store) Stop() {
	close(s.stop)
}

// Start registers a new progress-id with its total batch count.
func (s *Store) Start(id string, totalBatches int) {
	e := &entry{}
	e.total.Store(int64(totalBatches))
	s.entries.Store(id, e)
}

// IncrementCompleted atomically advances the completed-batch counter for
// id. A call against an unknown id is a no-op: the executor never races
// Start, but defends against it anyway rather than panicking mid-request.
func (s *Store) IncrementCompleted(id string) {
	if e, ok := s.load(id); ok {
		e.completed.Add(1)
	}
}

// SetError marks id's record with the catastrophic-failure flag (loader,
// planner, or serializer errors only — per-batch failures do not set this).
func (s *Store) SetError(id string) {
	if e, ok := s.load(id); ok {
		e.errored.Store(true)
	}
}

// Done marks id as finished; its record becomes eligible for garbage
// collection after the configured linger period elapses.
func (s *Store) Done(id string) {
	e, ok := s.load(id)
	if !ok {
		return
	}
	e.mu.Lock()
	e.done = true
	e.doneAt = time.Now()
	e.mu.Unlock()
}

// Get returns the current snapshot for id, and whether id is known.
func (s *Store) Get(id string) (domain.ProgressRecord, bool) {
	e, ok := s.load(id)
	if !ok {
		return domain.ProgressRecord{}, false
	}
	return domain.ProgressRecord{
		TotalBatches:     int(e.total.Load()),
		CompletedBatches: int(e.completed.Load()),
		Error:            e.errored.Load(),
	}, true
}

func (s *Store) load(id string) (*entry, bool) {
	v, ok := s.entries.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

func (s *Store) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.entries.Range(func(key, value any) bool {
				e := value.(*entry)
				e.mu.Lock()
				expired := e.done && now.Sub(e.doneAt) > s.linger
				e.mu.Unlock()
				if expired {
					s.entries.Delete(key)
				}
				return true
			})
		}
	}
}
