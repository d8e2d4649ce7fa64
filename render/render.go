package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// cellWidth fits the largest reachable tile, 131072
const cellWidth = 6

var printer = message.NewPrinter(language.English)

// Score formats n with grouped digits, e.g. 12,345
func Score(n int) string {
	return printer.Sprintf("%d", n)
}

// Tile returns the label drawn for a cell, "." when empty
func Tile(v int) string {
	if v == 0 {
		return "."
	}
	return strconv.Itoa(v)
}

// Board draws the grid as a boxed table with row 0 on top
func Board(g engine.Grid) string {
	var b strings.Builder
	border := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", engine.Size) + "\n"

	b.WriteString(border)
	for _, row := range g {
		b.WriteString("|")
		for _, v := range row {
			fmt.Fprintf(&b, "%*s|", cellWidth, Tile(v))
		}
		b.WriteString("\n")
		b.WriteString(border)
	}
	return b.String()
}

// State draws the header, the board and the end of game banner
func State(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score: %s | Best: %s | Target: %s | Moves: %d\n",
		Score(state.Score), Score(state.BestTile), Score(state.TargetTile), state.TotalMoves)
	b.WriteString(Board(state.Grid))

	if len(state.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(state.PossibleMoves, ","))
	}
	if state.GameOver {
		if state.Victory {
			b.WriteString("🎉 VICTORY!\n")
		} else {
			b.WriteString("💀 GAME OVER\n")
		}
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	return b.String()
}

// Frames lists animation batches in draw order
func Frames(batches [][]engine.Frame) string {
	if len(batches) == 0 {
		return ""
	}

	var b strings.Builder
	for i, batch := range batches {
		fmt.Fprintf(&b, "Batch %d:\n", i+1)
		for _, f := range batch {
			b.WriteString("  ")
			b.WriteString(Frame(f))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Frame describes a single animation
func Frame(f engine.Frame) string {
	switch f.Kind {
	case "move":
		if f.From != nil && f.To != nil {
			return fmt.Sprintf("move %s -> %s [%d]", loc(*f.From), loc(*f.To), f.Value)
		}
	case "merge":
		if f.At != nil {
			return fmt.Sprintf("merge %s = %d", loc(*f.At), f.Value)
		}
	case "new":
		if f.At != nil {
			return fmt.Sprintf("new %s = %d", loc(*f.At), f.Value)
		}
	}
	return f.Kind
}

func loc(l engine.Location) string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}
