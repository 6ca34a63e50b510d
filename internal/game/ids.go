package game

import "github.com/google/uuid"

// IDGenerator generates unique order identifiers.
// Implemented by UUIDv7Generator (production) and testutil.FixedOrderIDs
// (deterministic tests).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 order IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, making IDs
// sortable by spawn time, which is convenient when reading traces.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
