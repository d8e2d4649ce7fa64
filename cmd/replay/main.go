// Command replay plays a scripted list of moves against a session on a
// running server, one request per move or in bulk-move batches. The session
// ID is kept in .session so a later run resumes it.
//
//	replay left up left*3
//	replay --file opening.txt --rules quick --reset
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/render"
)

const sessionFile = ".session"

// Options control one replay run
type Options struct {
	ConfigID    string
	Seed        uint64
	Continue    string
	SessionFile string
	Reset       bool
	Bulk        bool
	Delay       time.Duration
	Verbose     bool
}

// Outcome summarizes a run
type Outcome struct {
	SessionID string
	Played    int
	Moved     int
	Score     int
	BestTile  int
	GameOver  bool
	Victory   bool
	Grid      engine.Grid
}

func main() {
	cmd := &cli.Command{
		Name:      "replay",
		Usage:     "Play a move script through the REST API",
		ArgsUsage: "[moves...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "file", Usage: "Read the move script from a file (- for stdin)"},
			&cli.StringFlag{Name: "rules", Usage: "Rules for a new session (classic, quick, ...)"},
			&cli.IntFlag{Name: "seed", Usage: "Session seed, 0 lets the server pick"},
			&cli.StringFlag{Name: "continue", Usage: "Resume an existing session by ID"},
			&cli.BoolFlag{Name: "reset", Usage: "Reset the session before playing"},
			&cli.BoolFlag{Name: "bulk", Usage: "Send the script in bulk-move batches"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			moves, err := readScript(cmd.String("file"), cmd.Args().Slice(), os.Stdin)
			if err != nil {
				return err
			}
			if len(moves) == 0 {
				return fmt.Errorf("no moves to play")
			}

			log.Printf("Connecting to game server at %s", cmd.String("url"))
			outcome, err := Replay(ctx, NewClient(cmd.String("url")), moves, Options{
				ConfigID:    cmd.String("rules"),
				Seed:        uint64(cmd.Int("seed")),
				Continue:    cmd.String("continue"),
				SessionFile: sessionFile,
				Reset:       cmd.Bool("reset"),
				Bulk:        cmd.Bool("bulk"),
				Delay:       cmd.Duration("delay"),
				Verbose:     cmd.Bool("v"),
			})
			if err != nil {
				return err
			}
			fmt.Print(summary(outcome))
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// readScript joins the script file, if any, with the moves given as
// arguments
func readScript(file string, args []string, stdin io.Reader) ([]string, error) {
	var moves []string
	if file != "" {
		var r io.Reader = stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		parsed, err := ParseScript(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		moves = parsed
	}

	parsed, err := ParseScript(strings.NewReader(strings.Join(args, " ")))
	if err != nil {
		return nil, err
	}
	return append(moves, parsed...), nil
}

// start resumes the given or saved session, or creates a new one
func start(ctx context.Context, client *Client, opts Options) (*engine.GameState, error) {
	savedSessionID := opts.Continue
	if savedSessionID == "" && opts.SessionFile != "" {
		if data, err := os.ReadFile(opts.SessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		log.Printf("🔄 Resuming session: %s", savedSessionID)
		state, err := client.Resume(ctx, savedSessionID)
		if err == nil {
			return state, nil
		}
		log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
	}

	state, err := client.CreateSession(ctx, opts.ConfigID, opts.Seed)
	if err != nil {
		return nil, err
	}
	log.Printf("✨ Session created: %s (%s)", client.SessionID(), state.ConfigName)

	if opts.SessionFile != "" {
		if err := os.WriteFile(opts.SessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}
	return state, nil
}

// Replay plays moves in order until the script runs out or the game ends
func Replay(ctx context.Context, client *Client, moves []string, opts Options) (*Outcome, error) {
	state, err := start(ctx, client, opts)
	if err != nil {
		return nil, err
	}
	if opts.Reset {
		if state, err = client.Reset(ctx); err != nil {
			return nil, err
		}
	}

	outcome := &Outcome{SessionID: client.SessionID()}
	if opts.Bulk {
		state, err = replayBulk(ctx, client, moves, outcome)
	} else {
		state, err = replaySingle(ctx, client, state, moves, outcome, opts)
	}
	if err != nil {
		return outcome, err
	}

	outcome.Score = state.Score
	outcome.BestTile = state.BestTile
	outcome.GameOver = state.GameOver
	outcome.Victory = state.Victory
	outcome.Grid = state.Grid
	return outcome, nil
}

func replaySingle(ctx context.Context, client *Client, state *engine.GameState, moves []string, outcome *Outcome, opts Options) (*engine.GameState, error) {
	for _, direction := range moves {
		if state.GameOver {
			break
		}

		result, err := client.Move(ctx, direction)
		if err != nil {
			return state, err
		}
		if result.GameState == nil {
			return state, fmt.Errorf("move %s: response without game state", direction)
		}
		state = result.GameState
		outcome.Played++
		if result.Moved {
			outcome.Moved++
		}

		if opts.Verbose {
			log.Printf("%d. %s: %s", outcome.Played, direction, result.Message)
		}
		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return state, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	return state, nil
}

// replayBulk sends the script in batches the server accepts whole
func replayBulk(ctx context.Context, client *Client, moves []string, outcome *Outcome) (*engine.GameState, error) {
	for len(moves) > 0 {
		n := min(len(moves), engine.MaxBulkMoves)
		result, err := client.BulkMove(ctx, moves[:n])
		if err != nil {
			return nil, err
		}
		if result.GameState == nil {
			return nil, fmt.Errorf("bulk move: response without game state")
		}

		outcome.Played += result.MovesExecuted
		for _, step := range result.Steps {
			if step.Moved {
				outcome.Moved++
			}
		}
		if result.StopReasonCode != "" {
			log.Printf("Stopped after %d moves: %s", outcome.Played, result.StopReasonCode)
			return result.GameState, nil
		}
		moves = moves[n:]
	}
	return client.GetState(ctx)
}

func summary(o *Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", o.SessionID)
	fmt.Fprintf(&b, "Played %d moves, %d changed the board\n", o.Played, o.Moved)
	b.WriteString(render.Board(o.Grid))
	fmt.Fprintf(&b, "Score: %s | Best: %d\n", render.Score(o.Score), o.BestTile)
	switch {
	case o.Victory:
		b.WriteString("🎉 VICTORY!\n")
	case o.GameOver:
		b.WriteString("Game over\n")
	}
	return b.String()
}
