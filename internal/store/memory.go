package store

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// Subscribers receive snapshots via buffered channels. Sends are
// non-blocking; if a subscriber's buffer is full the snapshot is dropped for
// that subscriber. Every snapshot is complete, so a dropped one is
// superseded by the next.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time

	subMu       sync.RWMutex
	subscribers map[chan Snapshot]struct{}
}

// NewMemoryStore creates a new, empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshot:    Snapshot{Entries: []string{}},
		now:         time.Now,
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Replace stores a copy of entries as the new contents and notifies all
// subscribers. A nil slice clears the store. Replace never fails.
func (m *MemoryStore) Replace(entries []string) error {
	m.mu.Lock()
	m.snapshot = Snapshot{
		Entries:   copyStrings(entries),
		UpdatedAt: m.now(),
		Version:   m.snapshot.Version + 1,
	}
	snap := m.snapshot.clone()
	m.mu.Unlock()

	m.notifySubscribers(snap)
	return nil
}

// Snapshot returns a copy of the current contents.
func (m *MemoryStore) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot.clone()
}

// Subscribe creates a new subscription and returns a channel for receiving
// snapshots.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the snapshot to all active subscribers without
// blocking.
func (m *MemoryStore) notifySubscribers(snap Snapshot) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- snap.clone():
		default:
			// subscriber is slow, drop the message
		}
	}
}

func (s Snapshot) clone() Snapshot {
	s.Entries = copyStrings(s.Entries)
	return s
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
