package testutil

import (
	"fmt"
	"sync"
)

// FixedOrderIDs generates sequential order IDs ("order-0001",
// "order-0002", ...) for deterministic test execution and golden
// snapshot comparison. The same scenario with the same generator
// produces byte-identical traces.
//
// Implements game.IDGenerator.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedOrderIDs struct {
	mu sync.Mutex
	n  int
}

// NewFixedOrderIDs creates a generator starting at order-0001.
func NewFixedOrderIDs() *FixedOrderIDs {
	return &FixedOrderIDs{}
}

// NewID returns the next sequential ID.
func (g *FixedOrderIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("order-%04d", g.n)
}

// Count returns how many IDs have been handed out.
func (g *FixedOrderIDs) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
