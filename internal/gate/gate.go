// Package gate enforces the dispatch policy: a minimum delay between
// consecutive sends and a hard cap on sends per run. The delay avoids
// spam-flagging; the cap bounds the blast radius of a misconfigured run.
package gate

import "time"

// Decision is the result of polling the gate for one record.
type Decision struct {
	// Admitted is true when a send may be attempted now.
	Admitted bool
	// RetryAfter is how long until the interval constraint clears. Only
	// meaningful when the record was refused for timing, not for the cap.
	RetryAfter time.Duration
	// CapExhausted is true when the per-run send budget is spent; no record
	// will be admitted again this run.
	CapExhausted bool
}

// Gate tracks the last send time and the number of sends this run. It is not
// safe for concurrent use; the orchestrator is strictly sequential.
type Gate struct {
	minInterval time.Duration
	maxSends    int
	clock       Clock

	lastSend time.Time
	sent     int
}

// New creates a Gate. A nil clock falls back to the system clock.
func New(minInterval time.Duration, maxSends int, clock Clock) *Gate {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Gate{minInterval: minInterval, maxSends: maxSends, clock: clock}
}

// Admit decides whether a send may be attempted now. It does not consume the
// admission; the orchestrator calls Consume once it commits to the attempt.
func (g *Gate) Admit(now time.Time) Decision {
	if g.sent >= g.maxSends {
		return Decision{CapExhausted: true}
	}
	if !g.lastSend.IsZero() {
		if wait := g.minInterval - now.Sub(g.lastSend); wait > 0 {
			return Decision{RetryAfter: wait}
		}
	}
	return Decision{Admitted: true}
}

// Consume marks an admitted send attempt. It is called whether the attempt
// subsequently succeeds or fails, which keeps the send timing strictly
// regular.
func (g *Gate) Consume() {
	g.sent++
	g.lastSend = g.clock.Now()
}

// Sent reports how many sends were consumed this run.
func (g *Gate) Sent() int {
	return g.sent
}
