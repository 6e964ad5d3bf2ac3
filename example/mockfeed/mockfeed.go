// Package mockfeed serves a fake repository events feed for demos.
//
// Every few seconds a random push, pull request or merge is prepended to the
// feed. /events/latest returns the newest events first; /events/text returns
// the same events as pre-rendered text records.
package mockfeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const maxEvents = 10

var (
	authors  = []string{"alice", "bob", "carol", "dave"}
	branches = []string{"feature-login", "fix-cache", "docs-update", "refactor-db"}
	types    = []string{"push", "pull_request", "merge"}
)

type event struct {
	EventType  string `json:"event_type"`
	Author     string `json:"author"`
	FromBranch string `json:"from_branch,omitempty"`
	ToBranch   string `json:"to_branch"`
	Timestamp  string `json:"timestamp"`
}

type textEvent struct {
	Text    string `json:"text"`
	Summary string `json:"summary,omitempty"`
}

// Feed holds the generated events.
type Feed struct {
	mu     sync.Mutex
	events []event
	next   time.Time
	rng    *rand.Rand
}

// New creates a feed seeded with a few events.
func New() *Feed {
	f := &Feed{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for i := 0; i < 3; i++ {
		f.generate(time.Now().Add(-time.Duration(3-i) * time.Minute))
	}
	f.next = time.Now().Add(f.gap())
	return f
}

// Paths served by [Feed].
const (
	StructuredPath = "/events/latest"
	TextPath       = "/events/text"
)

// ServeHTTP serves GET [StructuredPath] and GET [TextPath].
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != StructuredPath && r.URL.Path != TextPath {
		http.NotFound(w, r)
		return
	}

	// simulate small latency variance
	time.Sleep(time.Duration(50+rand.Intn(150)) * time.Millisecond)

	f.mu.Lock()
	if time.Now().After(f.next) {
		f.generate(time.Now())
		f.next = time.Now().Add(f.gap())
	}
	events := append([]event(nil), f.events...)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == TextPath {
		_ = json.NewEncoder(w).Encode(asText(events))
		return
	}
	_ = json.NewEncoder(w).Encode(events)
}

// generate prepends one random event. Caller holds f.mu or owns f.
func (f *Feed) generate(at time.Time) {
	e := event{
		EventType: types[f.rng.Intn(len(types))],
		Author:    authors[f.rng.Intn(len(authors))],
		ToBranch:  "main",
		Timestamp: at.UTC().Format(time.RFC3339),
	}
	if e.EventType != "push" {
		e.FromBranch = branches[f.rng.Intn(len(branches))]
	}

	f.events = append([]event{e}, f.events...)
	if len(f.events) > maxEvents {
		f.events = f.events[:maxEvents]
	}
	slog.Info("event generated", "event_type", e.EventType, "author", e.Author)
}

func (f *Feed) gap() time.Duration {
	return time.Duration(5+f.rng.Intn(11)) * time.Second
}

func asText(events []event) []textEvent {
	out := make([]textEvent, len(events))
	for i, e := range events {
		switch e.EventType {
		case "push":
			out[i] = textEvent{Text: fmt.Sprintf("%s pushed to %s", e.Author, e.ToBranch)}
		default:
			out[i] = textEvent{
				Text:    fmt.Sprintf("%s: %s → %s", e.Author, e.FromBranch, e.ToBranch),
				Summary: e.EventType,
			}
		}
	}
	return out
}
