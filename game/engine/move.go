package engine

import (
	"fmt"
	"strings"
)

// slide holds the walk parameters of one direction. Tiles are visited in
// scan order and travel by step until they reach wall.
type slide struct {
	vertical bool
	scan     [Size - 1]int
	step     int
	wall     int
}

var slides = map[Direction]slide{
	Down:  {vertical: true, scan: [Size - 1]int{2, 1, 0}, step: 1, wall: Size - 1},
	Up:    {vertical: true, scan: [Size - 1]int{1, 2, 3}, step: -1, wall: 0},
	Right: {vertical: false, scan: [Size - 1]int{2, 1, 0}, step: 1, wall: Size - 1},
	Left:  {vertical: false, scan: [Size - 1]int{1, 2, 3}, step: -1, wall: 0},
}

// location maps index i of line n back onto the grid
func (s slide) location(n, i int) Location {
	if s.vertical {
		return Location{Row: i, Col: n}
	}
	return Location{Row: n, Col: i}
}

// planMoves computes the MoveTile events of a move without touching the
// grid. Lines are visited in column (or row) order and, inside a line, in
// scan order, which fixes the order of the returned events.
func planMoves(g *Grid, dir Direction) ([]MoveTile, error) {
	s, ok := slides[dir]
	if !ok {
		return nil, fmt.Errorf("direction %d: %w", int(dir), ErrInvalidDirection)
	}

	var moves []MoveTile
	for n := 0; n < Size; n++ {
		var line [Size]int
		for i := range line {
			line[i] = g.at(s.location(n, i))
		}
		canMerge := [Size]bool{true, true, true, true}

		for _, start := range s.scan {
			value := line[start]
			if value == 0 {
				continue
			}
			if ahead := line[start+s.step]; ahead != 0 && ahead != value {
				continue
			}

			dest := start
			for {
				if dest != s.wall {
					next := dest + s.step
					if line[next] == value && canMerge[next] {
						moves = append(moves, MoveTile{From: s.location(n, start), To: s.location(n, next)})
						canMerge[next] = false
						line[next] = value
						line[start] = 0
						break
					}
				}
				if dest == s.wall || line[dest+s.step] != 0 {
					// dest == start is unreachable with the scan orders above
					if dest != start {
						moves = append(moves, MoveTile{From: s.location(n, start), To: s.location(n, dest)})
						line[dest] = value
						line[start] = 0
					}
					break
				}
				dest += s.step
			}
		}
	}
	return moves, nil
}

// ParseDirection maps wire names and WASD keys onto a Direction
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "down", "s":
		return Down, nil
	case "up", "w":
		return Up, nil
	case "right", "d":
		return Right, nil
	case "left", "a":
		return Left, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidDirection)
	}
}
