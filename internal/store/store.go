package store

import "time"

// Snapshot is the content of a display container at one point in time.
//
// Snapshot is the storage representation of a rendered poll cycle, shaped
// for JSON serialization (used by the REST API and SSE).
type Snapshot struct {
	// Entries are the rendered display strings, in feed order.
	Entries []string `json:"entries"`

	// UpdatedAt is when the entries were last replaced.
	// Zero until the first successful poll.
	UpdatedAt time.Time `json:"updated_at"`

	// Version increases by one on every replace. Zero means nothing has
	// been rendered yet.
	Version uint64 `json:"version"`
}

// Store defines the interface for holding the current display contents and
// subscribing to changes.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Replace discards every current entry and stores entries in their
	// place, then notifies subscribers.
	Replace(entries []string) error

	// Snapshot returns the current contents. The returned value is a copy.
	Snapshot() Snapshot

	// Subscribe returns a channel that receives a snapshot after each replace.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Snapshot

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Snapshot)
}
