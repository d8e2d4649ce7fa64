package engine

import "fmt"

// RandomSource supplies the randomness of spawns. *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// Board owns the committed grid and the two animation queues. It is not
// safe for concurrent use; one frame loop or one locked session drives it.
type Board struct {
	grid Grid

	// pending collects events of the current move or resolve cycle,
	// active holds the batch the renderer is drawing.
	pending []Animation
	active  []Animation

	rng        RandomSource
	fourChance float64
	target     int
	score      int
}

// BoardOption configures a Board
type BoardOption func(*Board)

// WithFourProbability sets the chance that a spawn is a 4 instead of a 2
func WithFourProbability(p float64) BoardOption {
	return func(b *Board) {
		b.fourChance = p
	}
}

// WithTargetTile sets the tile value that wins the game
func WithTargetTile(target int) BoardOption {
	return func(b *Board) {
		b.target = target
	}
}

// NewBoard creates an empty board
func NewBoard(rng RandomSource, opts ...BoardOption) *Board {
	b := &Board{
		rng:        rng,
		fourChance: DefaultFourChance,
		target:     DefaultTargetTile,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBoardFromGrid creates a board whose committed grid starts as grid
func NewBoardFromGrid(grid Grid, rng RandomSource, opts ...BoardOption) (*Board, error) {
	for row := range grid {
		for col, v := range grid[row] {
			if v != 0 && !IsPowerOfTwo(v) {
				return nil, fmt.Errorf("tile (%d,%d) = %d is not a power of two: %w", row, col, v, ErrInvariantViolation)
			}
		}
	}
	b := NewBoard(rng, opts...)
	b.grid = grid
	return b, nil
}

// Tile returns the committed value at (row, col)
func (b *Board) Tile(row, col int) (int, error) {
	return b.grid.Tile(row, col)
}

// Grid returns a copy of the committed grid
func (b *Board) Grid() Grid {
	return b.grid
}

// Score returns the sum of all committed merge results
func (b *Board) Score() int {
	return b.score
}

// TargetTile returns the winning tile value
func (b *Board) TargetTile() int {
	return b.target
}

// PlayMove slides every tile toward dir and returns whether anything will
// animate. The grid itself changes only on the following ResolveAnimations
// calls.
func (b *Board) PlayMove(dir Direction) (bool, error) {
	if b.IsAnimating() {
		return false, ErrAnimationInProgress
	}

	moves, err := planMoves(&b.grid, dir)
	if err != nil {
		return false, err
	}
	for _, m := range moves {
		b.pending = append(b.pending, m)
	}

	if err := b.ResolveAnimations(); err != nil {
		return false, err
	}
	return b.IsAnimating(), nil
}

// CanMove reports whether a move toward dir would slide at least one tile
func (b *Board) CanMove(dir Direction) bool {
	moves, err := planMoves(&b.grid, dir)
	return err == nil && len(moves) > 0
}

// IsStuck reports whether no direction moves any tile
func (b *Board) IsStuck() bool {
	for _, dir := range Directions {
		if b.CanMove(dir) {
			return false
		}
	}
	return true
}

// HasWon reports whether a tile has reached the target value
func (b *Board) HasWon() bool {
	return b.grid.MaxTile() >= b.target
}

// HasGameEnded reports whether the game is over, won or stuck
func (b *Board) HasGameEnded() bool {
	return b.HasWon() || b.IsStuck()
}
