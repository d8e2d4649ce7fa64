package engine

import "fmt"

// Grid is the committed 4x4 matrix of tile values, 0 marks an empty cell
type Grid [Size][Size]int

// Tile returns the value at (row, col)
func (g Grid) Tile(row, col int) (int, error) {
	loc := Location{Row: row, Col: col}
	if !loc.Valid() {
		return 0, fmt.Errorf("tile (%d,%d): %w", row, col, ErrOutOfRange)
	}
	return g[row][col], nil
}

func (g Grid) at(loc Location) int {
	return g[loc.Row][loc.Col]
}

func (g *Grid) set(loc Location, value int) {
	g[loc.Row][loc.Col] = value
}

// emptyLocations lists empty cells in row-major order
func (g Grid) emptyLocations() []Location {
	var empty []Location
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] == 0 {
				empty = append(empty, Location{Row: row, Col: col})
			}
		}
	}
	return empty
}

// occupiedLocations lists non-empty cells in row-major order
func (g Grid) occupiedLocations() []Location {
	var occupied []Location
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] != 0 {
				occupied = append(occupied, Location{Row: row, Col: col})
			}
		}
	}
	return occupied
}

// Sum adds up every tile on the grid
func (g Grid) Sum() int {
	total := 0
	for _, row := range g {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// MaxTile returns the largest tile value, 0 on an empty grid
func (g Grid) MaxTile() int {
	best := 0
	for _, row := range g {
		for _, v := range row {
			if v > best {
				best = v
			}
		}
	}
	return best
}

// CountTiles counts occupied cells
func (g Grid) CountTiles() int {
	return len(g.occupiedLocations())
}

// IsPowerOfTwo reports whether v is a tile value (a power of two >= 2)
func IsPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
