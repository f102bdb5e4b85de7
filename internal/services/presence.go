package services

import "sync"

// Presence tracks which conversation each connected user is currently
// viewing. One slot per user: {not viewing, viewing match ID}. While a
// match is being viewed, its unread contribution is reported as zero and
// push delivery for it is suppressed.
type Presence struct {
	mu      sync.RWMutex
	viewing map[string]string // userID -> matchID
}

// NewPresence creates an empty presence tracker
func NewPresence() *Presence {
	return &Presence{
		viewing: make(map[string]string),
	}
}

// StartViewing records that userID is viewing matchID and returns the
// previously viewed match ID, if any. A second conversation opened without
// leaving the first replaces the slot; the caller is expected to flush the
// replaced match as if the user had left it.
func (p *Presence) StartViewing(userID, matchID string) (previous string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	previous = p.viewing[userID]
	p.viewing[userID] = matchID
	if previous == matchID {
		return ""
	}
	return previous
}

// StopViewing clears the viewing slot for userID and returns the match ID
// that was being viewed, or "" if none.
func (p *Presence) StopViewing(userID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	matchID := p.viewing[userID]
	delete(p.viewing, userID)
	return matchID
}

// Viewing returns the match currently viewed by userID
func (p *Presence) Viewing(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	matchID, ok := p.viewing[userID]
	return matchID, ok
}

// IsViewing reports whether userID is currently viewing matchID
func (p *Presence) IsViewing(userID, matchID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.viewing[userID] == matchID
}
