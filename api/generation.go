package api

import "sync/atomic"

// Generation hands out increasing tickets so a store can ignore responses
// to fetches that a newer fetch has superseded.
type Generation struct {
	latest atomic.Uint64
}

// Next issues a ticket and makes it the latest.
func (g *Generation) Next() uint64 {
	return g.latest.Add(1)
}

// IsLatest reports whether ticket is still the most recent one issued.
func (g *Generation) IsLatest(ticket uint64) bool {
	return g.latest.Load() == ticket
}
