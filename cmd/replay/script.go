package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// ParseScript reads a move script: directions separated by spaces, commas
// or newlines, with "#" starting a comment. A direction may carry a repeat
// count, as in "left*3". Every direction is normalized to its wire name.
func ParseScript(r io.Reader) ([]string, error) {
	var moves []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		for _, field := range fields {
			parsed, err := parseStep(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			moves = append(moves, parsed...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return moves, nil
}

func parseStep(field string) ([]string, error) {
	name, count := field, 1
	if i := strings.IndexByte(field, '*'); i >= 0 {
		n, err := strconv.Atoi(field[i+1:])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad repeat count in %q", field)
		}
		name, count = field[:i], n
	}

	dir, err := engine.ParseDirection(name)
	if err != nil {
		return nil, err
	}
	steps := make([]string, count)
	for i := range steps {
		steps[i] = dir.String()
	}
	return steps, nil
}
