package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the process-wide session collection. Sessions live in memory
// only; a restart drops them all.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	timeout  time.Duration
	logger   *slog.Logger
}

// NewStore creates a Store that considers sessions idle after timeout.
func NewStore(timeout time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		logger:   slog.Default(),
	}
}

// Create registers a new active session with an empty ProcessRecord.
// Employee name and division are optional and may be refined later by
// extraction.
func (st *Store) Create(employeeName, division string, now time.Time) *Session {
	s := &Session{
		ID:           uuid.New().String(),
		EmployeeName: employeeName,
		Division:     division,
		CreatedAt:    now,
		LastActivity: now,
		Status:       StatusActive,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session for id, or ErrNotFound if it is unknown or was
// evicted by the sweep.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session for id. Missing ids are a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions whose last activity is older than the timeout
// window and returns how many were removed. A session whose lock is held is
// mid-request and is skipped; it will be re-examined on the next tick.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, s := range st.sessions {
		if !s.TryLock() {
			continue
		}
		idle := now.Sub(s.LastActivity)
		s.Unlock()

		if idle > st.timeout {
			delete(st.sessions, id)
			evicted++
			st.logger.Info("session expired due to inactivity", "session_id", id, "idle", idle)
		}
	}
	return evicted
}

// Run sweeps at the given interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(time.Now())
		}
	}
}
