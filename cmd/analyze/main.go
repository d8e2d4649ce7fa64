// Command analyze prints quick, human-readable heuristics about rules files
// in the config directory. It summarizes the target, the spawn odds and any
// preset layout, and samples spawns from a seeded board to compare the
// observed share of 4s with the configured probability.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/render"
)

// SpawnSample counts the values of sampled spawns
type SpawnSample struct {
	Twos  int
	Fours int
}

// Total is the number of sampled spawns
func (s SpawnSample) Total() int {
	return s.Twos + s.Fours
}

// FourRatio is the observed share of 4s
func (s SpawnSample) FourRatio() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Fours) / float64(s.Total())
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Summarize rules files and sample their spawn odds",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "samples", Value: 10000, Usage: "Spawns to sample per rules file"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Random seed for sampling"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return analyzeDir(cmd.String("config-dir"), os.Stdout, cmd.Int("samples"), uint64(cmd.Int("seed")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func analyzeDir(dir string, w io.Writer, samples int, seed uint64) error {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(file, w, samples, seed); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	return nil
}

func analyzeConfig(path string, w io.Writer, samples int, seed uint64) error {
	rules, err := engine.LoadGameConfig(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", rules.Name)
	fmt.Fprintf(w, "Description: %s\n", rules.Description)
	fmt.Fprintf(w, "Target Tile: %s\n", render.Score(rules.TargetTile))
	fmt.Fprintf(w, "Four Probability: %.1f%%\n", rules.FourProbability*100)
	fmt.Fprintf(w, "Initial Tiles: %d\n", rules.InitialTiles)
	fmt.Fprintf(w, "Animation: %dms per batch\n", rules.AnimationDuration())
	fmt.Fprintf(w, "Minimum Score At Target: %s\n", render.Score(minimumScore(rules.TargetTile)))

	grid, err := engine.ParseLayout(rules.Layout)
	if err != nil {
		return err
	}
	if len(rules.Layout) > 0 {
		fmt.Fprintf(w, "Layout: %d preset tiles, best %d\n", grid.CountTiles(), grid.MaxTile())
		fmt.Fprint(w, render.Board(grid))
	} else {
		fmt.Fprintln(w, "Layout: random")
	}

	sample, err := sampleSpawns(rules.FourProbability, samples, seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Spawns: %d twos, %d fours (%.1f%% fours)\n", sample.Twos, sample.Fours, sample.FourRatio()*100)

	// Three standard deviations of the binomial share
	p := rules.FourProbability
	tolerance := 3 * math.Sqrt(p*(1-p)/float64(sample.Total()))
	if math.Abs(sample.FourRatio()-p) > tolerance {
		fmt.Fprintf(w, "⚠️  WARNING: observed share of fours is off by more than %.2f%%\n", tolerance*100)
	} else {
		fmt.Fprintf(w, "✅ Spawn odds match the configured probability\n")
	}
	return nil
}

// minimumScore is the score earned building one value tile from 2s only
func minimumScore(value int) int {
	if value < 4 {
		return 0
	}
	steps := int(math.Round(math.Log2(float64(value)))) - 1
	return value * steps
}

// sampleSpawns draws n spawns through a board, starting a fresh board
// whenever the grid fills up
func sampleSpawns(fourProbability float64, n int, seed uint64) (SpawnSample, error) {
	var sample SpawnSample
	if n <= 0 {
		return sample, fmt.Errorf("samples must be positive, got %d", n)
	}

	rng := engine.NewRandom(seed)
	board := engine.NewBoard(rng, engine.WithFourProbability(fourProbability))
	for sample.Total() < n {
		if board.Grid().CountTiles() == engine.Size*engine.Size {
			board = engine.NewBoard(rng, engine.WithFourProbability(fourProbability))
		}
		if err := board.QueueSpawn(); err != nil {
			return sample, err
		}
		// The first resolve activates the spawn, the second commits it
		if err := board.ResolveAnimations(); err != nil {
			return sample, err
		}
		for _, a := range board.Animations() {
			if tile, ok := a.(engine.NewTile); ok {
				if tile.Value == 4 {
					sample.Fours++
				} else {
					sample.Twos++
				}
			}
		}
		if err := board.ResolveAnimations(); err != nil {
			return sample, err
		}
	}
	return sample, nil
}
