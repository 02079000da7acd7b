package session

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when a session id is unknown or already evicted.
var ErrNotFound = errors.New("session not found")

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Immutable once appended.
type Message struct {
	Role    Role
	Content string
}

// Status is the session lifecycle state.
type Status string

const (
	StatusActive     Status = "active"
	StatusComplete   Status = "complete"
	StatusEndedEarly Status = "ended_early"
	StatusSubmitted  Status = "submitted"
)

// Session is one employee's interview interaction. All mutation happens
// under the session's own lock; callers acquire it via Lock/Unlock for the
// duration of an operation so concurrent requests against the same session
// serialize.
type Session struct {
	mu sync.Mutex

	ID           string
	EmployeeName string
	Division     string
	Messages     []Message
	MessageCount int
	Record       ProcessRecord
	CreatedAt    time.Time
	LastActivity time.Time
	Status       Status
}

func (s *Session) Lock()         { s.mu.Lock() }
func (s *Session) Unlock()       { s.mu.Unlock() }
func (s *Session) TryLock() bool { return s.mu.TryLock() }

// Append records a message and advances the message count. The count only
// ever grows; it always equals len(s.Messages).
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
	s.MessageCount++
}

// Touch updates the last-activity timestamp used by the eviction sweep.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// Transition moves the session to the next lifecycle state, enforcing
// active -> complete | ended_early -> submitted. StatusSubmitted is terminal.
func (s *Session) Transition(next Status) error {
	allowed := false
	switch next {
	case StatusComplete, StatusEndedEarly:
		allowed = s.Status == StatusActive
	case StatusSubmitted:
		allowed = s.Status == StatusComplete || s.Status == StatusEndedEarly
	}
	if !allowed {
		return fmt.Errorf("invalid session transition %s -> %s", s.Status, next)
	}
	s.Status = next
	return nil
}

// IsDraft reports whether a document produced from this session should be
// marked as an incomplete draft.
func (s *Session) IsDraft() bool {
	return s.Status == StatusEndedEarly
}
