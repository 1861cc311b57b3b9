package client

import "sync"

// Guard is the local one-shot latch for timer-driven transitions: repeated
// render ticks on one device fire a transition exactly once per key. It
// does nothing about two different devices racing the same transition;
// the version token on the write path covers that.
type Guard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewGuard() *Guard {
	return &Guard{seen: make(map[string]bool)}
}

// Once reports true the first time key is seen.
func (g *Guard) Once(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[key] {
		return false
	}
	g.seen[key] = true
	return true
}

// Reset forgets a key so the same transition can fire again next phase.
func (g *Guard) Reset(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, key)
}
