package stableopts

// Cell is the single mutable holder of the current snapshot. Every wrapper
// built by a Cache closes over its Cache's Cell and re-reads it per call, so
// even wrappers captured by long-lived consumers dispatch against the newest
// data.
//
// A Cell is owned by exactly one Cache and shared with that Cache's wrappers;
// it is deliberately not a package-level singleton so independent Cache
// instances can coexist. Access is unsynchronized: the update/invoke contract
// is single-caller, synchronous (see Cache).
type Cell struct {
	value any
}

// NewCell constructs a Cell seeded with value.
func NewCell(value any) *Cell {
	return &Cell{value: value}
}

// Load returns the current snapshot.
func (c *Cell) Load() any {
	if c == nil {
		return nil
	}
	return c.value
}

// Store replaces the current snapshot.
func (c *Cell) Store(value any) {
	if c == nil {
		return
	}
	c.value = value
}
