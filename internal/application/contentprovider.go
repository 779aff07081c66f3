package application

import "sync"

// ContentProvider holds the current content snapshot and allows it to be
// replaced at runtime. Requests read one snapshot and use it throughout, so
// a replacement never changes content mid-render.
type ContentProvider struct {
	mu       sync.RWMutex
	snapshot *ContentSnapshot
}

// NewContentProvider creates a provider serving snapshot.
func NewContentProvider(snapshot *ContentSnapshot) *ContentProvider {
	return &ContentProvider{snapshot: snapshot}
}

// Get returns the current snapshot.
func (p *ContentProvider) Get() *ContentSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Replace swaps in a new snapshot. Nil is ignored.
func (p *ContentProvider) Replace(snapshot *ContentSnapshot) {
	if snapshot == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = snapshot
}
