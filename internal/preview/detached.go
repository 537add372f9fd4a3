package preview

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDetachedTTL is how long an unopened detached document is kept.
const DefaultDetachedTTL = time.Minute

// maxDetached bounds the registry; the oldest entry is evicted first.
const maxDetached = 64

type detachedEntry struct {
	doc     string
	created time.Time
}

// Detached holds documents written once into a new top-level context. Each
// document can be taken exactly once.
type Detached struct {
	mu      sync.Mutex
	entries map[string]detachedEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewDetached creates a registry whose entries expire after ttl.
func NewDetached(ttl time.Duration) *Detached {
	if ttl <= 0 {
		ttl = DefaultDetachedTTL
	}
	return &Detached{
		entries: make(map[string]detachedEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores doc and returns the id it can be taken with.
func (d *Detached) Put(doc string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.pruneLocked(now)
	if len(d.entries) >= maxDetached {
		d.evictOldestLocked()
	}

	id := uuid.New().String()
	d.entries[id] = detachedEntry{doc: doc, created: now}
	return id
}

// Take returns the document stored under id and forgets it.
func (d *Detached) Take(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pruneLocked(d.now())
	e, ok := d.entries[id]
	if !ok {
		return "", false
	}
	delete(d.entries, id)
	return e.doc, true
}

// Len returns the number of documents waiting to be opened.
func (d *Detached) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(d.now())
	return len(d.entries)
}

func (d *Detached) pruneLocked(now time.Time) {
	for id, e := range d.entries {
		if now.Sub(e.created) > d.ttl {
			delete(d.entries, id)
		}
	}
}

func (d *Detached) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range d.entries {
		if oldestID == "" || e.created.Before(oldest) {
			oldestID, oldest = id, e.created
		}
	}
	delete(d.entries, oldestID)
}
