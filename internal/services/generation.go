package services

import "sync/atomic"

// Generation is a process-wide counter of stock mutations. Every
// increment/decrement bumps it; snapshots are stamped with the value
// they were built against so later actions can detect staleness.
type Generation struct{ n atomic.Uint64 }

func (g *Generation) Current() uint64 { return g.n.Load() }
func (g *Generation) Bump() uint64    { return g.n.Add(1) }
