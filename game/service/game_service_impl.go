package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

var (
	// ErrSessionNotFound is wrapped into every lookup failure
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownConfig   = errors.New("config not found")

	// ErrConfigNotFound is wrapped by ConfigManager implementations when no
	// rules file has the requested name
	ErrConfigNotFound = errors.New("configuration not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// sessionInfo may run under s.mu.RLock only, so the access time comes from
// the session manager instead of the shared Session
func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	lastAccessed, _ := s.sessions.LastAccessed(sess.ID)
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: lastAccessed,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session and commits its opening spawns.
// A zero seed picks a random one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed uint64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrUnknownConfig, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrUnknownConfig, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	frames, err := sess.Engine.Settle()
	if err != nil {
		return nil, fmt.Errorf("failed to place opening tiles: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	info := s.sessionInfo(sess, configID)
	info.Frames = frames
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	// Collect events
	events := []GameEvent{}

	var frames [][]engine.Frame
	if reset {
		if frames, err = resetEngine(sess.Engine); err != nil {
			return nil, err
		}
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	endedBefore := sess.Engine.IsGameOver()
	scoreBefore := sess.Engine.GetScore()
	moved, err := sess.Engine.Move(direction)
	if err != nil {
		return nil, err
	}
	frames = append(frames, sess.Engine.LastFrames()...)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   !endedBefore,
		Moved:     moved,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, extractMoveEvents(direction, moved, sess.Engine.LastFrames(), state)...),
		Frames:    frames,
	}
	if !endedBefore {
		step := stepInfo(1, sess.Engine.GetLastMove(), scoreBefore, state)
		result.Step = &step
	}
	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	// Handle reset
	if reset {
		if _, err := resetEngine(sess.Engine); err != nil {
			return nil, err
		}
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}
	result.StartScore = sess.Engine.GetScore()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game already ended"
			result.StopReasonCode = gameOverCode(sess.Engine)
			result.StoppedOnMove = i + 1
			break
		}

		scoreBefore := sess.Engine.GetScore()
		moved, err := sess.Engine.Move(move)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidDirection) {
				result.Success = false
				result.StoppedReason = fmt.Sprintf("move %d invalid: %s", i+1, move)
				result.StopReasonCode = "invalid_direction"
				result.StoppedOnMove = i + 1
				break
			}
			return nil, err
		}

		result.MovesExecuted++
		state := sess.Engine.GetState()
		result.Events = append(result.Events, extractMoveEvents(move, moved, sess.Engine.LastFrames(), state)...)
		result.Steps = append(result.Steps, stepInfo(i+1, sess.Engine.GetLastMove(), scoreBefore, state))
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - result.StartScore
	result.GameOver = endState.GameOver
	result.Message = endState.Message
	result.PossibleMoves = endState.PossibleMoves

	if result.GameOver {
		result.GameOverCode = gameOverCode(sess.Engine)
		if result.StopReasonCode == "" {
			result.StopReasonCode = result.GameOverCode
		}
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := resetEngine(sess.Engine); err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// resetEngine restarts the game and commits the opening spawns
func resetEngine(e *engine.GameEngine) ([][]engine.Frame, error) {
	if _, err := e.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}
	frames, err := e.Settle()
	if err != nil {
		return nil, fmt.Errorf("failed to place opening tiles: %w", err)
	}
	return frames, nil
}

func gameOverCode(e *engine.GameEngine) string {
	if e.IsVictory() {
		return "victory"
	}
	return "stuck"
}

func stepInfo(idx int, entry *engine.MoveHistoryEntry, scoreBefore int, state *engine.GameState) StepInfo {
	step := StepInfo{
		Idx:         idx,
		ScoreBefore: scoreBefore,
		ScoreAfter:  state.Score,
		Victory:     state.Victory,
	}
	if entry != nil {
		step.Dir = entry.Action
		step.Moved = entry.Moved
		step.Slides = entry.Slides
		step.Merges = entry.Merges
		step.Spawned = entry.Spawned
		step.SpawnValue = entry.SpawnValue
	}
	return step
}

// extractMoveEvents generates events from the frames of one move
func extractMoveEvents(direction string, moved bool, frames [][]engine.Frame, state *engine.GameState) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if moved {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Slid tiles %s", strings.ToLower(direction)),
			Timestamp: now,
		})
	} else if !state.GameOver {
		events = append(events, GameEvent{
			Type:      "no_move",
			Message:   state.Message,
			Timestamp: now,
		})
	}

	for _, batch := range frames {
		for _, f := range batch {
			switch f.Kind {
			case "merge":
				events = append(events, GameEvent{
					Type:      "merge",
					Message:   fmt.Sprintf("Merged into %d at (%d,%d)", f.Value, f.At.Row, f.At.Col),
					Timestamp: now,
					Location:  f.At,
					Value:     f.Value,
				})
			case "new":
				events = append(events, GameEvent{
					Type:      "spawn",
					Message:   fmt.Sprintf("New %d at (%d,%d)", f.Value, f.At.Row, f.At.Col),
					Timestamp: now,
					Location:  f.At,
					Value:     f.Value,
				})
			}
		}
	}

	if state.GameOver {
		eventType := "game_over"
		if state.Victory {
			eventType = "victory"
		}
		events = append(events, GameEvent{
			Type:      eventType,
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}
