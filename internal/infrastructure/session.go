package infrastructure

import (
	"sync"
	"time"

	"papelariabot/internal/entities"
)

// Session is the per-sender conversational state. Dispatch serializes all
// work for a sender; field writes additionally go through SessionStore.Update
// so they cannot race the TTL sweep.
type Session struct {
	SenderID         string
	State            entities.ConversationState
	LastIntent       entities.Intent
	AwaitingFeedback bool
	LastServiceCode  int
	UpdatedAt        time.Time
}

// SessionStore manages sessions keyed by sender ID. Idle sessions are
// swept after the configured TTL; losing one is harmless, the next message
// simply starts from Idle.
type SessionStore struct {
	sessions map[string]*Session
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewSessionStore creates a store sweeping idle sessions after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// GetOrCreate returns the live session for senderID, creating it on the
// sender's first message.
func (s *SessionStore) GetOrCreate(senderID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(senderID)
}

func (s *SessionStore) getOrCreateLocked(senderID string) *Session {
	session, ok := s.sessions[senderID]
	if !ok {
		session = &Session{SenderID: senderID, UpdatedAt: time.Now()}
		s.sessions[senderID] = session
	}
	return session
}

// Update runs fn on senderID's live session under the store lock, creating
// the session when the sweep removed it mid-conversation. All session field
// writes go through here so they never race the sweep.
func (s *SessionStore) Update(senderID string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.getOrCreateLocked(senderID))
}

// AwaitingFeedback reports whether senderID has a pending feedback prompt,
// creating the session on first contact.
func (s *SessionStore) AwaitingFeedback(senderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(senderID).AwaitingFeedback
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run sweeps idle sessions every interval until done is closed.
func (s *SessionStore) Run(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *SessionStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if now.Sub(session.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
