package engine

import "errors"

// Direction is the side of the board tiles slide toward
type Direction int

const (
	Down Direction = iota
	Up
	Right
	Left
)

const (
	// Board dimensions
	Size = 4

	// Validation constants
	MinTargetTile       = 8
	MaxTargetTile       = 131072
	DefaultTargetTile   = 2048
	DefaultFourChance   = 0.1
	DefaultAnimationMs  = 100
	MaxAnimationMs      = 2000
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

var (
	ErrOutOfRange          = errors.New("location out of range")
	ErrInvariantViolation  = errors.New("board invariant violated")
	ErrAnimationInProgress = errors.New("animation in progress")
	ErrInvalidDirection    = errors.New("invalid direction")
)

// Directions lists every direction in declaration order
var Directions = []Direction{Down, Up, Right, Left}

// String returns the lowercase direction name used on the wire
func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Location addresses a cell, row 0 is the top and column 0 the left edge
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether the location is on the board
func (l Location) Valid() bool {
	return l.Row >= 0 && l.Row < Size && l.Col >= 0 && l.Col < Size
}

// GameConfig represents one rules file
type GameConfig struct {
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	TargetTile      int      `json:"target_tile" yaml:"target_tile"`
	FourProbability float64  `json:"four_probability" yaml:"four_probability"`
	InitialTiles    int      `json:"initial_tiles" yaml:"initial_tiles"`
	AnimationMs     int      `json:"animation_ms" yaml:"animation_ms"`
	Layout          []string `json:"layout,omitempty" yaml:"layout,omitempty"`
	Messages        Messages `json:"messages" yaml:"messages"`
}

// Messages holds the player-facing texts of a rules file
type Messages struct {
	Welcome  string `json:"welcome" yaml:"welcome"`
	Moved    string `json:"moved" yaml:"moved"`
	NoMove   string `json:"no_move" yaml:"no_move"`
	Victory  string `json:"victory" yaml:"victory"`   // %d receives the score
	GameOver string `json:"game_over" yaml:"game_over"` // %d receives the score
}

// GameState is a JSON snapshot of a game
type GameState struct {
	Grid         Grid               `json:"grid"`
	Score        int                `json:"score"`
	BestTile     int                `json:"best_tile"`
	TargetTile   int                `json:"target_tile"`
	Animating    bool               `json:"animating"`
	GameOver     bool               `json:"game_over"`
	Victory      bool               `json:"victory"`
	Message      string             `json:"message"`
	ConfigName   string             `json:"config_name"`
	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	CurrentMoves []MoveHistoryEntry `json:"current_moves"`
	TotalMoves   int                `json:"total_moves"`

	// CurrentMovesCount counts moves since the last reset, TotalMoves never resets.
	CurrentMovesCount int `json:"current_moves_count"`

	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action     string    `json:"action"`
	Moved      bool      `json:"moved"`
	Slides     int       `json:"slides"`
	Merges     int       `json:"merges"`
	ScoreDelta int       `json:"score_delta"`
	Score      int       `json:"score"`
	Spawned    *Location `json:"spawned,omitempty"`
	SpawnValue int       `json:"spawn_value,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}
