/*
Package session manages per-user chat sessions. A session carries the
rolling conversation history that the agent feeds to the fallback channel
and uses to correlate feedback with recent interactions.

Sessions live in a bounded pool. When the pool is full, the session idle
the longest is evicted to make room.
*/
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/askdeck/askdeck/internal/llm"
)

const (
	// DefaultPoolSize bounds concurrently tracked sessions.
	DefaultPoolSize = 100
	// historyCap bounds the turns kept per session.
	historyCap = 40
)

// Session is one user's active conversation. History and LastSeen are
// guarded by the session's own mutex so concurrent turns and pool eviction
// never race.
type Session struct {
	ID      string
	UserID  string
	Started time.Time

	mu       sync.Mutex
	LastSeen time.Time
	history  []llm.Message
}

// History returns a copy of the session's conversation turns.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// UserQueries returns the user-side turns of the history, oldest first.
func (s *Session) UserQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.history {
		if m.Role == "user" {
			out = append(out, m.Content)
		}
	}
	return out
}

// Append records one user/assistant exchange, trimming the oldest turns
// once the cap is exceeded.
func (s *Session) Append(userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		llm.Message{Role: "user", Content: userText},
		llm.Message{Role: "assistant", Content: assistantText},
	)
	if len(s.history) > historyCap {
		s.history = s.history[len(s.history)-historyCap:]
	}
	s.LastSeen = time.Now()
}

// touch refreshes the idle clock.
func (s *Session) touch() {
	s.mu.Lock()
	s.LastSeen = time.Now()
	s.mu.Unlock()
}

// idleSince reads the idle clock.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastSeen
}

// Pool tracks active sessions up to a fixed size.
type Pool struct {
	maxSize  int
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewPool creates a session pool with the given maximum size.
func NewPool(maxSize int) *Pool {
	if maxSize <= 0 {
		maxSize = DefaultPoolSize
	}
	return &Pool{
		maxSize:  maxSize,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session with the given id, or nil if not tracked.
func (p *Pool) Get(sessionID string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[sessionID]
	if !ok {
		return nil
	}
	s.touch()
	return s
}

// GetOrCreate returns the session with the given id, creating it if needed.
// A blank sessionID gets a fresh generated id.
func (p *Pool) GetOrCreate(sessionID, userID string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sessionID != "" {
		if s, ok := p.sessions[sessionID]; ok {
			s.touch()
			return s
		}
	} else {
		sessionID = uuid.NewString()
	}

	if len(p.sessions) >= p.maxSize {
		p.evictIdleLocked()
	}

	now := time.Now()
	s := &Session{
		ID:       sessionID,
		UserID:   userID,
		Started:  now,
		LastSeen: now,
	}
	p.sessions[sessionID] = s
	return s
}

// Remove drops a session from the pool.
func (p *Pool) Remove(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, sessionID)
}

// Size returns the number of tracked sessions.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// evictIdleLocked removes the session with the oldest LastSeen. Caller
// must hold the lock.
func (p *Pool) evictIdleLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range p.sessions {
		seen := s.idleSince()
		if oldestID == "" || seen.Before(oldest) {
			oldestID = id
			oldest = seen
		}
	}
	if oldestID != "" {
		delete(p.sessions, oldestID)
	}
}

// Describe returns a short human-readable summary of pool state.
func (p *Pool) Describe() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("%d/%d sessions active", len(p.sessions), p.maxSize)
}
