package engine

import "fmt"

// IsAnimating reports whether a batch of animations is being drawn
func (b *Board) IsAnimating() bool {
	return len(b.active) > 0
}

// Animations returns a copy of the active batch
func (b *Board) Animations() []Animation {
	if len(b.active) == 0 {
		return nil
	}
	out := make([]Animation, len(b.active))
	copy(out, b.active)
	return out
}

// StaticTiles lists occupied cells that no active MoveTile is carrying away,
// in row-major order
func (b *Board) StaticTiles() []Location {
	moving := make(map[Location]bool)
	for _, a := range b.active {
		if m, ok := a.(MoveTile); ok {
			moving[m.From] = true
		}
	}

	var static []Location
	for _, loc := range b.grid.occupiedLocations() {
		if !moving[loc] {
			static = append(static, loc)
		}
	}
	return static
}

// ResolveAnimations commits the active batch to the grid and promotes the
// events it produced. Committing moves yields a MergeTile for every
// occupied destination and, when anything moved, one spawn.
func (b *Board) ResolveAnimations() error {
	moved := false
	var fault error

	for _, a := range b.active {
		switch a := a.(type) {
		case MoveTile:
			moved = true
			if b.grid.at(a.To) != 0 {
				b.pending = append(b.pending, MergeTile{At: a.To})
			}
			b.grid.set(a.To, b.grid.at(a.From))
			b.grid.set(a.From, 0)
		case NewTile:
			if b.grid.at(a.At) != 0 {
				fault = fmt.Errorf("spawn at (%d,%d) on occupied cell: %w", a.At.Row, a.At.Col, ErrInvariantViolation)
				continue
			}
			b.grid.set(a.At, a.Value)
		case MergeTile:
			doubled := b.grid.at(a.At) * 2
			b.grid.set(a.At, doubled)
			b.score += doubled
		}
	}
	b.active = nil

	if moved && fault == nil {
		fault = b.QueueSpawn()
	}

	b.active = b.pending
	b.pending = nil
	return fault
}

// QueueSpawn queues a NewTile on a random empty cell. The tile lands on the
// committed grid when its batch is resolved.
func (b *Board) QueueSpawn() error {
	tile, err := b.spawnTile()
	if err != nil {
		return err
	}
	b.pending = append(b.pending, tile)
	return nil
}

// spawnTile picks a uniform empty cell, skipping cells already claimed by a
// queued spawn, and a value of 4 with probability fourChance, else 2.
func (b *Board) spawnTile() (NewTile, error) {
	claimed := make(map[Location]bool)
	for _, a := range b.pending {
		if n, ok := a.(NewTile); ok {
			claimed[n.At] = true
		}
	}

	var empty []Location
	for _, loc := range b.grid.emptyLocations() {
		if !claimed[loc] {
			empty = append(empty, loc)
		}
	}
	if len(empty) == 0 {
		return NewTile{}, fmt.Errorf("no empty cell to spawn on: %w", ErrInvariantViolation)
	}

	at := empty[b.rng.IntN(len(empty))]
	value := 2
	if b.rng.Float64() < b.fourChance {
		value = 4
	}
	return NewTile{At: at, Value: value}, nil
}

// Frames returns the active batch in wire form, with the value each
// animation draws taken from the committed grid
func (b *Board) Frames() []Frame {
	frames := make([]Frame, 0, len(b.active))
	for _, a := range b.active {
		value := 0
		switch a := a.(type) {
		case MoveTile:
			value = b.grid.at(a.From)
		case MergeTile:
			value = b.grid.at(a.At) * 2
		}
		frames = append(frames, FrameOf(a, value))
	}
	return frames
}

// Settle resolves until nothing animates and returns every batch that was
// active, in order. A move settles in at most two batches.
func (b *Board) Settle() ([][]Frame, error) {
	var batches [][]Frame
	for i := 0; b.IsAnimating() && i < 2*Size; i++ {
		batches = append(batches, b.Frames())
		if err := b.ResolveAnimations(); err != nil {
			return batches, err
		}
	}
	return batches, nil
}
