package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/render"
	"github.com/wricardo/mcp-training/tilemerge/transport/websocket"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print a session's live updates from a running server",
		ArgsUsage: "<session_id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: fmt.Sprintf("http://%s:%d", defaultHost, defaultPort), Usage: "Game server URL"},
			&cli.BoolFlag{Name: "frames", Usage: "Print the animation batches of every update"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sessionID := cmd.Args().First()
			if sessionID == "" {
				return fmt.Errorf("watch needs a session ID")
			}
			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			fmt.Fprintf(out, "Watching session %s at %s\n", sessionID, cmd.String("url"))
			return websocket.Watch(ctx, cmd.String("url"), sessionID, printUpdate(out, cmd.Bool("frames")))
		},
	}
}

// printUpdate writes every state update, and its frames when asked
func printUpdate(w io.Writer, frames bool) func(*websocket.Message) error {
	return func(m *websocket.Message) error {
		if m.Event != websocket.EventStateUpdate {
			_, err := fmt.Fprintf(w, "\n[%s] %v\n", m.Event, m.Data)
			return err
		}

		var b strings.Builder
		b.WriteString("\n")
		if frames && len(m.Frames) > 0 {
			b.WriteString("Frames:\n")
			b.WriteString(render.Frames(m.Frames))
		}
		b.WriteString(render.State(m.GameState))
		_, err := io.WriteString(w, b.String())
		return err
	}
}
