package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/audio"
	"github.com/wricardo/mcp-training/tilemerge/game/config"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/terminal"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rules", Usage: "Rules file to play (defaults to classic)"},
			&cli.IntFlag{Name: "seed", Usage: "Random seed, 0 picks one"},
			&cli.FloatFlag{Name: "volume", Value: 0.5, Usage: "Sound volume from 0 to 1"},
			&cli.BoolFlag{Name: "mute", Usage: "Disable sound"},
			&cli.StringFlag{Name: "log-file", Usage: "Write logs to this file while playing"},
		},
		Action: runPlay,
	}
}

// loadRules picks the named rules file, the directory default, or the
// built-in classic rules when the directory is missing
func loadRules(dir, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		if name != "" {
			return nil, err
		}
		log.Printf("Using built-in rules: %v", err)
		return engine.DefaultGameConfig(), nil
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	// The screen owns stdout
	log.SetOutput(io.Discard)
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	rules, err := loadRules(cmd.String("config-dir"), cmd.String("rules"))
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	seed := uint64(cmd.Int("seed"))
	eng, err := engine.NewEngine(rules, engine.NewRandom(seed))
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	var opts []terminal.Option
	if !cmd.Bool("mute") {
		player := audio.NewPlayer(cmd.Float("volume"))
		if err := player.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v (continuing without audio)", err)
		} else {
			defer player.Close()
			opts = append(opts, terminal.WithSound(player))
		}
	}

	log.Printf("Playing %s (seed %d)", rules.Name, seed)
	return terminal.New(screen, eng, opts...).Run(ctx)
}
