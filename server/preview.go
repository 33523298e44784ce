package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/hrdocs/report"
)

// DefaultPreviewTTL is how long an unreleased preview stays retrievable.
const DefaultPreviewTTL = 15 * time.Minute

type preview struct {
	out     *report.Output
	expires time.Time
}

// PreviewStore holds preview documents under random references until the
// caller releases them or they expire.
type PreviewStore struct {
	mu    sync.Mutex
	items map[string]preview
	ttl   time.Duration
	now   func() time.Time
}

// NewPreviewStore returns an empty store. A non-positive ttl selects
// DefaultPreviewTTL.
func NewPreviewStore(ttl time.Duration) *PreviewStore {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewStore{items: make(map[string]preview), ttl: ttl, now: time.Now}
}

// Put stores out and returns its reference.
func (p *PreviewStore) Put(out *report.Output) string {
	id := uuid.NewString()
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	p.sweep(now)
	p.items[id] = preview{out: out, expires: now.Add(p.ttl)}
	return id
}

// Get returns the preview stored under id.
func (p *PreviewStore) Get(id string) (*report.Output, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	it, ok := p.items[id]
	if !ok {
		return nil, false
	}
	if !p.now().Before(it.expires) {
		delete(p.items, id)
		return nil, false
	}
	return it.out, true
}

// Delete releases id and reports whether it was present.
func (p *PreviewStore) Delete(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.items[id]
	delete(p.items, id)
	return ok
}

// Len is the number of stored previews, expired ones included until the
// next sweep.
func (p *PreviewStore) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// sweep drops expired previews. The caller holds mu.
func (p *PreviewStore) sweep(now time.Time) {
	for id, it := range p.items {
		if !now.Before(it.expires) {
			delete(p.items, id)
		}
	}
}
