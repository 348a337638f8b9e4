package bargain

import "sync"

// sessionLocks serializes mutations per session id. Two concurrent
// submissions for the same session must not both pass the turn-limit or
// price checks on stale state; operations on different sessions run in
// parallel.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given session id, creating it on first
// use. The caller must call the returned unlock func when done.
func (l *sessionLocks) Lock(sessionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
