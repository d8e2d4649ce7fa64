package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes holds informational lines; otherwise Errors
// holds what was found wrong.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check every rules file in the config directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			return validateDir(cmd.String("config-dir"), out)
		},
	}
}

// validateConfig loads one rules file and plays its opening to make sure a
// game can start on it
func validateConfig(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	rules, err := engine.LoadGameConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	eng, err := engine.NewEngine(rules, engine.NewRandom(1))
	if err == nil {
		_, err = eng.Settle()
	}
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Opening failed: %v", err))
		return result
	}
	if eng.GetBoard().IsStuck() {
		result.Valid = false
		result.Errors = append(result.Errors, "Opening board has no legal move")
		return result
	}

	layout := "random"
	if len(rules.Layout) > 0 {
		layout = "preset"
	}
	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ %s: target %d, four chance %.0f%%", rules.Name, rules.TargetTile, rules.FourProbability*100),
		fmt.Sprintf("✓ Opening: %d tiles (%s layout), moves: %s",
			eng.GetBoard().Grid().CountTiles(), layout, strings.Join(eng.GetPossibleMoves(), ",")),
	)
	return result
}

// validateDir validates every rules file in dir and reports to w. It fails
// when any file is invalid.
func validateDir(dir string, w io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			if !entry.IsDir() {
				files = append(files, entry.Name())
			}
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no rules files in %s", dir)
	}

	invalid := 0
	for _, file := range files {
		result := validateConfig(filepath.Join(dir, file))

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(w, "  "+note)
			}
			continue
		}

		invalid++
		fmt.Fprintln(w, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		fmt.Fprintln(w, "❌ Some configurations have errors")
		return fmt.Errorf("%d of %d rules files are invalid", invalid, len(files))
	}
	fmt.Fprintln(w, "✅ All configurations are valid!")
	return nil
}
