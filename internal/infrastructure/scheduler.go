package infrastructure

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// NotificationScheduler fires one-shot "order ready" messages after a lead
// time. Delivery is at-most-once per handle; a new schedule for the same
// sender cancels the pending one, and the access filter is re-checked at
// fire time so a sender blocked after scheduling is never messaged.
type NotificationScheduler struct {
	send    func(senderID, payload string) error
	allowed func(senderID string) bool
	log     *slog.Logger

	mu       sync.Mutex
	seq      int64
	jobs     map[int64]*notification
	bySender map[string]int64
}

type notification struct {
	id       int64
	senderID string
	fireAt   time.Time
	payload  string
}

// NewNotificationScheduler wires delivery and the fire-time access check.
func NewNotificationScheduler(send func(senderID, payload string) error, allowed func(senderID string) bool, log *slog.Logger) *NotificationScheduler {
	return &NotificationScheduler{
		send:     send,
		allowed:  allowed,
		log:      log,
		jobs:     make(map[int64]*notification),
		bySender: make(map[string]int64),
	}
}

// Schedule enqueues payload for senderID after delay and returns a handle.
func (s *NotificationScheduler) Schedule(senderID string, delay time.Duration, payload string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.bySender[senderID]; ok {
		delete(s.jobs, prev)
		s.log.Info("superseding pending notification", "sender", senderID, "handle", prev)
	}

	s.seq++
	n := &notification{
		id:       s.seq,
		senderID: senderID,
		fireAt:   time.Now().Add(delay),
		payload:  payload,
	}
	s.jobs[n.id] = n
	s.bySender[senderID] = n.id
	s.log.Info("notification scheduled", "sender", senderID, "handle", n.id, "fire_at", n.fireAt)
	return n.id
}

// Cancel drops a pending notification. Returns false if it already fired
// or was superseded.
func (s *NotificationScheduler) Cancel(handle int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.jobs[handle]
	if !ok {
		return false
	}
	delete(s.jobs, handle)
	if s.bySender[n.senderID] == handle {
		delete(s.bySender, n.senderID)
	}
	return true
}

// Pending returns the number of notifications waiting to fire.
func (s *NotificationScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Run ticks until ctx is cancelled, delivering due notifications.
func (s *NotificationScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.FireDue(time.Now())
		}
	}
}

// FireDue delivers every notification due at now. Exposed so tests can
// advance time explicitly.
func (s *NotificationScheduler) FireDue(now time.Time) {
	s.mu.Lock()
	var due []*notification
	for _, n := range s.jobs {
		if !n.fireAt.After(now) {
			due = append(due, n)
		}
	}
	for _, n := range due {
		delete(s.jobs, n.id)
		if s.bySender[n.senderID] == n.id {
			delete(s.bySender, n.senderID)
		}
	}
	s.mu.Unlock()

	for _, n := range due {
		if !s.allowed(n.senderID) {
			s.log.Warn("notification suppressed, sender no longer accepted", "sender", n.senderID, "handle", n.id)
			continue
		}
		if err := s.send(n.senderID, n.payload); err != nil {
			s.log.Error("notification delivery failed", "sender", n.senderID, "handle", n.id, "err", err)
			continue
		}
		s.log.Info("notification delivered", "sender", n.senderID, "handle", n.id)
	}
}
