// Package ratelimit implements the per-identity request-rate governor.
//
// The governor uses a fixed window: each identity gets a counter that resets
// when the window elapses. Fixed windows keep state O(1) per identity at the
// cost of the standard boundary-burst property (up to 2x the nominal limit can
// pass across a window edge). That trade-off is accepted and covered by tests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of a single admission check.
type Decision struct {
	// Admitted reports whether the request was admitted.
	Admitted bool
	// Limit is the configured number of requests per window.
	Limit int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// Reset is the instant the current window ends and the counter restarts.
	Reset time.Time
	// RetryAfter is how long the caller should wait before retrying.
	// Zero when admitted.
	RetryAfter time.Duration
}

// WindowStatus describes one identity's current window, for administrative
// inspection.
type WindowStatus struct {
	Identity    string    `json:"identity"`
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
	Reset       time.Time `json:"reset"`
}

// windowEntry holds one identity's counter. All reads and writes of start and
// count happen under mu, making the read-increment-compare sequence atomic per
// identity. Unrelated identities use unrelated entries and never contend.
type windowEntry struct {
	mu         sync.Mutex
	start      time.Time
	count      int
	lastAccess time.Time
}

// Governor tracks request counts per identity within a fixed time window.
type Governor struct {
	limit   int
	window  time.Duration
	entries sync.Map // map[string]*windowEntry
}

// NewGovernor creates a Governor admitting limit requests per identity per
// window. Call StartCleanup to bound memory for long-running processes.
func NewGovernor(limit int, window time.Duration) *Governor {
	return &Governor{
		limit:  limit,
		window: window,
	}
}

// Limit returns the configured per-window request limit.
func (g *Governor) Limit() int { return g.limit }

// Window returns the configured window length.
func (g *Governor) Window() time.Duration { return g.window }

// Allow performs one admission check for the identity at the given instant.
//
// Admission counts against the quota even if the request later fails
// validation or execution; counting admission rather than success prevents
// probing the quota with deliberately invalid queries. The stored count is
// capped at limit+1 so rejected requests stay visible in snapshots without
// growing the counter unboundedly.
func (g *Governor) Allow(identity string, now time.Time) Decision {
	entry := g.getEntry(identity, now)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.lastAccess = now

	// Reset the window when the current instant has passed its end.
	if !now.Before(entry.start.Add(g.window)) {
		entry.start = now
		entry.count = 0
	}

	reset := entry.start.Add(g.window)

	entry.count++
	if entry.count > g.limit {
		entry.count = g.limit + 1
		return Decision{
			Admitted:   false,
			Limit:      g.limit,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: reset.Sub(now),
		}
	}

	return Decision{
		Admitted:  true,
		Limit:     g.limit,
		Remaining: g.limit - entry.count,
		Reset:     reset,
	}
}

// Snapshot returns the current window state for every tracked identity.
func (g *Governor) Snapshot() []WindowStatus {
	var statuses []WindowStatus
	g.entries.Range(func(key, value any) bool {
		entry := value.(*windowEntry)
		entry.mu.Lock()
		statuses = append(statuses, WindowStatus{
			Identity:    key.(string),
			Count:       entry.count,
			WindowStart: entry.start,
			Reset:       entry.start.Add(g.window),
		})
		entry.mu.Unlock()
		return true
	})
	return statuses
}

// Clear removes the identity's window state, granting it a fresh window on its
// next request. Returns true if state existed.
func (g *Governor) Clear(identity string) bool {
	_, existed := g.entries.LoadAndDelete(identity)
	return existed
}

// StartCleanup launches a background loop that drops windows idle for longer
// than one full window plus an hour. Stops when the context is cancelled.
func (g *Governor) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				threshold := time.Now().Add(-(g.window + time.Hour))
				g.entries.Range(func(key, value any) bool {
					entry := value.(*windowEntry)
					entry.mu.Lock()
					stale := entry.lastAccess.Before(threshold)
					entry.mu.Unlock()

					if stale {
						g.entries.Delete(key)
					}
					return true
				})
			}
		}
	}()
}

// getEntry loads or creates the identity's window entry.
func (g *Governor) getEntry(identity string, now time.Time) *windowEntry {
	if value, ok := g.entries.Load(identity); ok {
		return value.(*windowEntry)
	}

	entry := &windowEntry{start: now, lastAccess: now}
	actual, _ := g.entries.LoadOrStore(identity, entry)
	return actual.(*windowEntry)
}
