package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator produces deterministic identifiers for offers and companies.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewIDGenerator yields "<prefix>-1", "<prefix>-2", ... An empty prefix means "id".
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc exposes Next for matching.WithIDGenerator.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Reset restarts the sequence at 1.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	g.counter = 0
	g.mu.Unlock()
}

// NationalIDs yields distinct 8-digit candidate identifiers starting at base.
type NationalIDs struct {
	mu   sync.Mutex
	next uint32
}

// NewNationalIDs starts the sequence at base, which must leave room below 10^8.
func NewNationalIDs(base uint32) *NationalIDs {
	return &NationalIDs{next: base}
}

// Next returns the next identifier, zero-padded to 8 digits.
func (n *NationalIDs) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := fmt.Sprintf("%08d", n.next)
	n.next++
	return id
}
