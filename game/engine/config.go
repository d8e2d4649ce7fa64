package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// configExtensions lists the rules file formats, in lookup order
var configExtensions = []string{".json", ".yaml", ".yml"}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate rules
	if !IsPowerOfTwo(config.TargetTile) || config.TargetTile < MinTargetTile || config.TargetTile > MaxTargetTile {
		return fmt.Errorf("config validation: target_tile must be a power of two between %d and %d, got %d",
			MinTargetTile, MaxTargetTile, config.TargetTile)
	}
	if config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("config validation: four_probability must be between 0 and 1, got %g", config.FourProbability)
	}
	if config.InitialTiles < 0 || config.InitialTiles > Size*Size {
		return fmt.Errorf("config validation: initial_tiles must be between 0 and %d, got %d", Size*Size, config.InitialTiles)
	}
	if config.AnimationMs < 0 || config.AnimationMs > MaxAnimationMs {
		return fmt.Errorf("config validation: animation_ms must be between 0 and %d, got %d", MaxAnimationMs, config.AnimationMs)
	}

	// Validate layout
	grid, err := ParseLayout(config.Layout)
	if err != nil {
		return fmt.Errorf("config validation: %v", err)
	}
	if best := grid.MaxTile(); best >= config.TargetTile {
		return fmt.Errorf("config validation: layout already holds %d, target_tile is %d", best, config.TargetTile)
	}
	preset := grid.CountTiles()
	if config.InitialTiles > Size*Size-preset {
		return fmt.Errorf("config validation: initial_tiles (%d) exceeds the %d empty layout cells",
			config.InitialTiles, Size*Size-preset)
	}
	if preset+config.InitialTiles == 0 {
		return fmt.Errorf("config validation: game must start with at least one tile")
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for score")
	}
	if !strings.Contains(config.Messages.GameOver, "%d") {
		return fmt.Errorf("config validation: messages.game_over must contain %%d for score")
	}

	return nil
}

// ParseLayout turns layout rows into a grid. An empty layout is an empty
// grid; otherwise it needs 4 rows of 4 space separated values where "." or
// "0" marks an empty cell.
func ParseLayout(rows []string) (Grid, error) {
	var grid Grid
	if len(rows) == 0 {
		return grid, nil
	}
	if len(rows) != Size {
		return grid, fmt.Errorf("layout must have %d rows, got %d", Size, len(rows))
	}

	for r, row := range rows {
		cells := strings.Fields(row)
		if len(cells) != Size {
			return grid, fmt.Errorf("layout row %d must have %d values, got %d", r+1, Size, len(cells))
		}
		for c, cell := range cells {
			if cell == "." {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return grid, fmt.Errorf("layout row %d col %d: %q is not a number", r+1, c+1, cell)
			}
			if v != 0 && !IsPowerOfTwo(v) {
				return grid, fmt.Errorf("layout row %d col %d: %d is not a power of two", r+1, c+1, v)
			}
			grid[r][c] = v
		}
	}
	return grid, nil
}

// DecodeGameConfig parses a rules file body. format is a file extension
// such as ".json" or ".yaml".
func DecodeGameConfig(data []byte, format string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(format) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			return nil, err
		}
	case ".json", "":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return &config, nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigByName loads a game configuration by name from dir, trying
// each supported extension in turn
func LoadConfigByName(dir, configName string) (*GameConfig, error) {
	if ext := filepath.Ext(configName); ext != "" {
		return LoadGameConfig(filepath.Join(dir, configName))
	}

	for _, ext := range configExtensions {
		path := filepath.Join(dir, configName+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadGameConfig(path)
		}
	}
	return nil, fmt.Errorf("config file '%s' not found", configName)
}

// DefaultGameConfig returns the built-in classic rules
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		Description:     "Classic 2048: reach the 2048 tile",
		TargetTile:      DefaultTargetTile,
		FourProbability: DefaultFourChance,
		InitialTiles:    1,
		AnimationMs:     DefaultAnimationMs,
		Messages: Messages{
			Welcome:  "Slide the tiles and join equal numbers to reach 2048!",
			Moved:    "Score: %d",
			NoMove:   "Nothing moves that way",
			Victory:  "You won with %d points!",
			GameOver: "Game over! Final score: %d",
		},
	}
}

// AnimationDuration returns the per-batch animation time in milliseconds
func (c *GameConfig) AnimationDuration() int {
	if c == nil || c.AnimationMs == 0 {
		return DefaultAnimationMs
	}
	return c.AnimationMs
}
