package main

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/tilemerge/api"
	"github.com/wricardo/mcp-training/tilemerge/game/config"
	"github.com/wricardo/mcp-training/tilemerge/game/service"
	"github.com/wricardo/mcp-training/tilemerge/game/session"
)

const tinyRules = `{
  "name": "tiny",
  "description": "Reach 8",
  "target_tile": 8,
  "four_probability": 0.1,
  "initial_tiles": 2,
  "messages": {
    "welcome": "Go",
    "victory": "Won with %d",
    "game_over": "Over at %d"
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(tinyRules), 0644); err != nil {
		t.Fatalf("Failed to write rules: %v", err)
	}
	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	srv := httptest.NewServer(api.NewServer(service.NewGameService(session.NewManager(), configs), nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    []string
		wantErr string
	}{
		{name: "empty", script: "", want: nil},
		{name: "separators", script: "left up,right\tdown", want: []string{"left", "up", "right", "down"}},
		{name: "keys and case", script: "W a S D Left", want: []string{"up", "left", "down", "right", "left"}},
		{name: "comments", script: "# opening\nleft # corner\n\nup", want: []string{"left", "up"}},
		{name: "repeat", script: "left*3 up", want: []string{"left", "left", "left", "up"}},
		{name: "unknown direction", script: "left\nsideways", wantErr: "line 2"},
		{name: "zero repeat", script: "left*0", wantErr: "repeat count"},
		{name: "bad repeat", script: "left*x", wantErr: "repeat count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(strings.NewReader(tt.script))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseScript() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opening.txt")
	if err := os.WriteFile(path, []byte("left\nup*2\n"), 0644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	got, err := readScript(path, []string{"right"}, nil)
	if err != nil {
		t.Fatalf("readScript failed: %v", err)
	}
	if want := []string{"left", "up", "up", "right"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got, err = readScript("-", nil, strings.NewReader("d d"))
	if err != nil {
		t.Fatalf("readScript from stdin failed: %v", err)
	}
	if want := []string{"right", "right"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if _, err := readScript(filepath.Join(t.TempDir(), "missing.txt"), nil, nil); err == nil {
		t.Error("Expected an error for a missing script file")
	}
}

func TestClientLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client := NewClient(srv.URL)

	state, err := client.CreateSession(ctx, "tiny", 5)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if client.SessionID() == "" {
		t.Fatal("Expected a session ID")
	}
	if state.ConfigName != "tiny" || state.Grid.CountTiles() != 2 {
		t.Errorf("Unexpected opening state: %+v", state)
	}

	got, err := client.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if got.Grid != state.Grid {
		t.Errorf("Expected the same grid, got %v and %v", got.Grid, state.Grid)
	}
	if len(got.PossibleMoves) == 0 {
		t.Fatal("Expected a legal move on a fresh board")
	}

	result, err := client.Move(ctx, got.PossibleMoves[0])
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Moved || result.GameState.TotalMoves != 1 {
		t.Errorf("Expected one recorded move, got %+v", result)
	}

	if _, err := client.Move(ctx, "sideways"); err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("Expected a 400 error for a bad direction, got %v", err)
	}

	bulk, err := client.BulkMove(ctx, []string{"left", "right"})
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if bulk.RequestedMoves != 2 || bulk.GameState == nil {
		t.Errorf("Unexpected bulk result: %+v", bulk)
	}

	reset, err := client.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if reset.Score != 0 || reset.CurrentMovesCount != 0 {
		t.Errorf("Expected a fresh game after reset, got %+v", reset)
	}
}

func TestClientUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	_, err := NewClient(srv.URL).Resume(context.Background(), "nope")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected a 404 error, got %v", err)
	}
}

func cycle(n int) []string {
	var moves []string
	for i := 0; i < n; i++ {
		moves = append(moves, "left", "down", "right", "up")
	}
	return moves
}

func TestReplaySavesSession(t *testing.T) {
	srv := newTestServer(t)
	sessionPath := filepath.Join(t.TempDir(), ".session")

	outcome, err := Replay(context.Background(), NewClient(srv.URL), cycle(5), Options{
		ConfigID:    "tiny",
		Seed:        3,
		SessionFile: sessionPath,
	})
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if outcome.Played == 0 || outcome.Played > 20 {
		t.Errorf("Expected between 1 and 20 moves played, got %d", outcome.Played)
	}
	if outcome.Moved > outcome.Played {
		t.Errorf("Moved %d of %d played moves", outcome.Moved, outcome.Played)
	}
	if outcome.Played < 20 && !outcome.GameOver {
		t.Errorf("Script stopped early without the game ending: %+v", outcome)
	}

	saved, err := os.ReadFile(sessionPath)
	if err != nil {
		t.Fatalf("Expected the session ID to be saved: %v", err)
	}
	if string(saved) != outcome.SessionID {
		t.Errorf("Saved %q, played %q", saved, outcome.SessionID)
	}
}

func TestReplayResumesSession(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	first := NewClient(srv.URL)
	if _, err := first.CreateSession(ctx, "tiny", 9); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	outcome, err := Replay(ctx, NewClient(srv.URL), []string{"left"}, Options{
		Continue: first.SessionID(),
		Reset:    true,
	})
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if outcome.SessionID != first.SessionID() {
		t.Errorf("Expected to resume %s, played %s", first.SessionID(), outcome.SessionID)
	}
	if outcome.Played != 1 {
		t.Errorf("Expected one move played, got %d", outcome.Played)
	}
}

func TestReplayBulkMatchesSingle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	moves := cycle(15)

	single, err := Replay(ctx, NewClient(srv.URL), moves, Options{ConfigID: "tiny", Seed: 11})
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	bulk, err := Replay(ctx, NewClient(srv.URL), moves, Options{ConfigID: "tiny", Seed: 11, Bulk: true})
	if err != nil {
		t.Fatalf("Bulk replay failed: %v", err)
	}

	if single.SessionID == bulk.SessionID {
		t.Fatal("Expected two sessions")
	}
	if single.Played != bulk.Played || single.Moved != bulk.Moved {
		t.Errorf("Played %d/%d one by one but %d/%d in bulk", single.Played, single.Moved, bulk.Played, bulk.Moved)
	}
	if single.Grid != bulk.Grid || single.Score != bulk.Score {
		t.Errorf("Same seed and script should end on the same board:\n%v\n%v", single.Grid, bulk.Grid)
	}
}

func TestSummary(t *testing.T) {
	out := summary(&Outcome{SessionID: "abc", Played: 3, Moved: 2, Score: 1234, BestTile: 8, Victory: true})
	for _, want := range []string{"Session: abc", "Played 3 moves, 2 changed the board", "Score: 1,234 | Best: 8", "VICTORY"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, out)
		}
	}
}
