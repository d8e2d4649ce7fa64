package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"default is valid", func(c *GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"target not a power of two", func(c *GameConfig) { c.TargetTile = 1000 }, "target_tile"},
		{"target too small", func(c *GameConfig) { c.TargetTile = 4 }, "target_tile"},
		{"target too large", func(c *GameConfig) { c.TargetTile = 262144 }, "target_tile"},
		{"negative probability", func(c *GameConfig) { c.FourProbability = -0.1 }, "four_probability"},
		{"probability above one", func(c *GameConfig) { c.FourProbability = 1.5 }, "four_probability"},
		{"too many initial tiles", func(c *GameConfig) { c.InitialTiles = 17 }, "initial_tiles"},
		{"negative animation", func(c *GameConfig) { c.AnimationMs = -1 }, "animation_ms"},
		{"slow animation", func(c *GameConfig) { c.AnimationMs = 5000 }, "animation_ms"},
		{"no starting tile", func(c *GameConfig) { c.InitialTiles = 0 }, "at least one tile"},
		{"short layout", func(c *GameConfig) { c.Layout = []string{". . . ."} }, "4 rows"},
		{"layout reaches target", func(c *GameConfig) {
			c.Layout = []string{"2048 . . .", ". . . .", ". . . .", ". . . ."}
		}, "already holds"},
		{"layout leaves no room", func(c *GameConfig) {
			c.Layout = []string{"2 4 2 4", "4 2 4 2", "2 4 2 4", "4 2 4 ."}
			c.InitialTiles = 2
		}, "exceeds"},
		{"missing welcome", func(c *GameConfig) { c.Messages.Welcome = "" }, "messages.welcome"},
		{"victory without score", func(c *GameConfig) { c.Messages.Victory = "You won" }, "messages.victory"},
		{"game over without score", func(c *GameConfig) { c.Messages.GameOver = "Over" }, "messages.game_over"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGameConfig()
			tt.mutate(config)
			err := ValidateGameConfig(config)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected an error for a nil config")
	}
}

func TestParseLayout(t *testing.T) {
	grid, err := ParseLayout([]string{
		"2 . 0 4",
		". . . .",
		"8 16 32 64",
		". . . 1024",
	})
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	want := Grid{
		{2, 0, 0, 4},
		{},
		{8, 16, 32, 64},
		{0, 0, 0, 1024},
	}
	if grid != want {
		t.Errorf("Expected %v, got %v", want, grid)
	}

	empty, err := ParseLayout(nil)
	if err != nil || empty.CountTiles() != 0 {
		t.Errorf("Expected an empty grid, got %v (%v)", empty, err)
	}

	bad := [][]string{
		{"2 . .", ". . . .", ". . . .", ". . . ."},
		{"x . . .", ". . . .", ". . . .", ". . . ."},
		{"3 . . .", ". . . .", ". . . .", ". . . ."},
	}
	for _, rows := range bad {
		if _, err := ParseLayout(rows); err == nil {
			t.Errorf("Expected an error for %v", rows)
		}
	}
}

func TestDecodeGameConfig(t *testing.T) {
	yamlBody := `name: yaml-rules
description: Loaded from YAML
target_tile: 512
four_probability: 0.2
initial_tiles: 2
animation_ms: 0
messages:
  welcome: hi
  moved: moved
  no_move: stuck
  victory: "won %d"
  game_over: "over %d"
`
	config, err := DecodeGameConfig([]byte(yamlBody), ".yaml")
	if err != nil {
		t.Fatalf("DecodeGameConfig: %v", err)
	}
	if config.Name != "yaml-rules" || config.TargetTile != 512 || config.FourProbability != 0.2 {
		t.Errorf("Unexpected config %+v", config)
	}
	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
	if config.AnimationDuration() != DefaultAnimationMs {
		t.Errorf("Expected default animation time, got %d", config.AnimationDuration())
	}

	if _, err := DecodeGameConfig([]byte("name: x\ncolour: red\n"), ".yml"); err == nil {
		t.Error("Expected unknown YAML fields to be rejected")
	}
	if _, err := DecodeGameConfig([]byte(`{"name": "json"}`), ".json"); err != nil {
		t.Errorf("Unexpected JSON error: %v", err)
	}
	if _, err := DecodeGameConfig([]byte("name = x"), ".toml"); err == nil {
		t.Error("Expected unsupported formats to fail")
	}
}

func TestLoadConfigByName(t *testing.T) {
	dir := t.TempDir()
	jsonBody := `{
  "name": "quick",
  "description": "Short game",
  "target_tile": 64,
  "four_probability": 0.1,
  "initial_tiles": 2,
  "animation_ms": 50,
  "messages": {"welcome": "go", "moved": "ok", "no_move": "no", "victory": "won %d", "game_over": "lost %d"}
}`
	if err := os.WriteFile(filepath.Join(dir, "quick.json"), []byte(jsonBody), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigByName(dir, "quick")
	if err != nil {
		t.Fatalf("LoadConfigByName: %v", err)
	}
	if config.TargetTile != 64 || config.AnimationDuration() != 50 {
		t.Errorf("Unexpected config %+v", config)
	}

	if _, err := LoadConfigByName(dir, "quick.json"); err != nil {
		t.Errorf("Expected explicit extension to load, got %v", err)
	}
	if _, err := LoadConfigByName(dir, "missing"); err == nil {
		t.Error("Expected an error for a missing config")
	}

	invalid := strings.Replace(jsonBody, `"target_tile": 64`, `"target_tile": 63`, 1)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(invalid), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigByName(dir, "broken"); err == nil {
		t.Error("Expected validation to fail")
	}
}

func TestLoadGameConfigConfigDir(t *testing.T) {
	dir := t.TempDir()
	body := `name: env
description: From CONFIG_DIR
target_tile: 2048
four_probability: 0.1
initial_tiles: 1
animation_ms: 100
messages:
  welcome: hi
  victory: "won %d"
  game_over: "over %d"
`
	if err := os.WriteFile(filepath.Join(dir, "env.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_DIR", dir)

	config, err := LoadGameConfig("configs/env.yaml")
	if err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	if config.Name != "env" {
		t.Errorf("Expected env config, got %s", config.Name)
	}
}
