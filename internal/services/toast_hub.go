package services

import (
	"sync"
	"time"
)

const toastHubSweepInterval = time.Minute

type sessionQueue struct {
	queue     *ToastQueue
	expiresAt time.Time
}

// ToastHub owns one ToastQueue per session id. Queues of sessions whose token
// has expired are closed lazily by later Open calls.
type ToastHub struct {
	mu        sync.Mutex
	lifetime  time.Duration
	scheduler ToastScheduler
	sessions  map[string]*sessionQueue
	lastSweep time.Time
}

func NewToastHub(lifetime time.Duration, scheduler ToastScheduler) *ToastHub {
	return &ToastHub{
		lifetime:  lifetime,
		scheduler: scheduler,
		sessions:  make(map[string]*sessionQueue),
	}
}

// Open returns the queue of sessionID, creating it when missing, and records
// when the session's token expires.
func (hub *ToastHub) Open(sessionID string, expiresAt time.Time, now time.Time) *ToastQueue {
	hub.mu.Lock()
	expired := hub.sweepLocked(now)

	session, ok := hub.sessions[sessionID]
	if !ok {
		session = &sessionQueue{queue: NewToastQueue(hub.lifetime, hub.scheduler)}
		hub.sessions[sessionID] = session
	}
	if expiresAt.After(session.expiresAt) {
		session.expiresAt = expiresAt
	}
	hub.mu.Unlock()

	for _, queue := range expired {
		queue.Close()
	}
	return session.queue
}

func (hub *ToastHub) sweepLocked(now time.Time) []*ToastQueue {
	if now.Sub(hub.lastSweep) < toastHubSweepInterval {
		return nil
	}
	hub.lastSweep = now

	var expired []*ToastQueue
	for sessionID, session := range hub.sessions {
		if !session.expiresAt.After(now) {
			expired = append(expired, session.queue)
			delete(hub.sessions, sessionID)
		}
	}
	return expired
}

// Queue returns nil when the session has no open queue.
func (hub *ToastHub) Queue(sessionID string) *ToastQueue {
	if hub == nil || sessionID == "" {
		return nil
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if session, ok := hub.sessions[sessionID]; ok {
		return session.queue
	}
	return nil
}

func (hub *ToastHub) Close(sessionID string) {
	hub.mu.Lock()
	session, ok := hub.sessions[sessionID]
	delete(hub.sessions, sessionID)
	hub.mu.Unlock()

	if ok {
		session.queue.Close()
	}
}

func (hub *ToastHub) Len() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.sessions)
}
