package service

import (
	"time"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           uint64             `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`

	// Frames holds the opening spawn animation of a new session
	Frames [][]engine.Frame `json:"frames,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	Moved     bool              `json:"moved"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`

	// Frames are the animation batches of the move, in draw order
	Frames [][]engine.Frame `json:"frames,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: invalid_direction|game_over|victory
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	GameOverCode  string   `json:"game_over_code,omitempty"` // victory|stuck
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx         int              `json:"idx"`
	Dir         string           `json:"dir"`
	Moved       bool             `json:"moved"`
	Slides      int              `json:"slides"`
	Merges      int              `json:"merges"`
	ScoreBefore int              `json:"score_before"`
	ScoreAfter  int              `json:"score_after"`
	Spawned     *engine.Location `json:"spawned,omitempty"`
	SpawnValue  int              `json:"spawn_value,omitempty"`
	Victory     bool             `json:"victory,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "move", "no_move", "merge", "spawn", "victory", "game_over", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Location  *engine.Location `json:"location,omitempty"`
	Value     int              `json:"value,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename        string  `json:"filename"`
	ConfigID        string  `json:"config_id"` // The identifier to use for session creation
	Name            string  `json:"name"`      // Display name
	Description     string  `json:"description"`
	TargetTile      int     `json:"target_tile"`
	FourProbability float64 `json:"four_probability"`
	InitialTiles    int     `json:"initial_tiles"`
	HasLayout       bool    `json:"has_layout"`
}
