package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() (*GameState, error)
	IsGameOver() bool
	IsVictory() bool
	GetScore() int

	// Movement operations
	Move(direction string) (bool, error)
	CanMove(direction string) bool
	GetPossibleMoves() []string
	Settle() ([][]Frame, error)
	LastFrames() [][]Frame

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface on top of a Board
type GameEngine struct {
	config *GameConfig
	rng    RandomSource
	board  *Board

	message string
	frames  [][]Frame

	history      []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
	totalMoves   int
}

// NewRandom returns a PCG source. A zero seed picks a random one.
func NewRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine creates a new game engine with the provided configuration. The
// opening spawns are left active so a renderer can animate them; call
// Settle to commit them right away.
func NewEngine(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandom(0)
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	if err := engine.start(); err != nil {
		return nil, err
	}
	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic rules
func NewEngineWithDefaults(rng RandomSource) *GameEngine {
	engine, err := NewEngine(DefaultGameConfig(), rng)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return engine
}

func (e *GameEngine) start() error {
	grid, err := ParseLayout(e.config.Layout)
	if err != nil {
		return err
	}
	board, err := NewBoardFromGrid(grid, e.rng,
		WithFourProbability(e.config.FourProbability),
		WithTargetTile(e.config.TargetTile))
	if err != nil {
		return err
	}

	for i := 0; i < e.config.InitialTiles; i++ {
		if err := board.QueueSpawn(); err != nil {
			return err
		}
	}
	if err := board.ResolveAnimations(); err != nil {
		return err
	}

	e.board = board
	e.frames = nil
	e.message = e.config.Messages.Welcome
	return nil
}

// GetBoard exposes the board for frame driven renderers
func (e *GameEngine) GetBoard() *Board {
	return e.board
}

// GetState returns a snapshot of the current game
func (e *GameEngine) GetState() *GameState {
	grid := e.board.Grid()
	return &GameState{
		Grid:              grid,
		Score:             e.board.Score(),
		BestTile:          grid.MaxTile(),
		TargetTile:        e.board.TargetTile(),
		Animating:         e.board.IsAnimating(),
		GameOver:          e.board.HasGameEnded(),
		Victory:           e.board.HasWon(),
		Message:           e.message,
		ConfigName:        e.config.Name,
		MoveHistory:       append([]MoveHistoryEntry(nil), e.history...),
		CurrentMoves:      append([]MoveHistoryEntry(nil), e.currentMoves...),
		TotalMoves:        e.totalMoves,
		CurrentMovesCount: len(e.currentMoves),
		PossibleMoves:     e.GetPossibleMoves(),
	}
}

// Reset starts a new game with the same rules
func (e *GameEngine) Reset() (*GameState, error) {
	// Preserve cumulative history and totals across resets
	if err := e.start(); err != nil {
		return nil, err
	}
	e.currentMoves = nil
	return e.GetState(), nil
}

// IsGameOver returns whether the game has ended, won or stuck
func (e *GameEngine) IsGameOver() bool {
	return e.board.HasGameEnded()
}

// IsVictory returns whether the target tile was reached
func (e *GameEngine) IsVictory() bool {
	return e.board.HasWon()
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.board.Score()
}

// Settle commits every active animation and returns the batches drawn
func (e *GameEngine) Settle() ([][]Frame, error) {
	frames, err := e.board.Settle()
	e.frames = frames
	return frames, err
}

// LastFrames returns the batches drawn by the last Move or Settle
func (e *GameEngine) LastFrames() [][]Frame {
	return e.frames
}

// Move plays direction to completion. Animations still active from an
// earlier move are resolved first.
func (e *GameEngine) Move(direction string) (bool, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return false, err
	}
	leftover, err := e.board.Settle()
	e.frames = leftover
	if err != nil {
		return false, err
	}
	if e.board.HasGameEnded() {
		e.message = e.endMessage()
		return false, nil
	}

	before := e.board.Score()
	moved, err := e.board.PlayMove(dir)
	if err != nil {
		return false, err
	}
	slides := len(e.board.active)

	frames, err := e.board.Settle()
	e.frames = append(e.frames, frames...)
	if err != nil {
		return false, err
	}

	entry := MoveHistoryEntry{
		Action:     dir.String(),
		Moved:      moved,
		Slides:     slides,
		ScoreDelta: e.board.Score() - before,
		Score:      e.board.Score(),
	}
	for _, batch := range frames {
		for _, f := range batch {
			switch f.Kind {
			case "merge":
				entry.Merges++
			case "new":
				entry.Spawned = f.At
				entry.SpawnValue = f.Value
			}
		}
	}
	e.addMoveToHistory(entry)

	switch {
	case e.board.HasGameEnded():
		e.message = e.endMessage()
	case moved:
		e.message = formatMessage(e.config.Messages.Moved, e.board.Score())
	default:
		e.message = formatMessage(e.config.Messages.NoMove, e.board.Score())
	}
	return moved, nil
}

func (e *GameEngine) endMessage() string {
	if e.board.HasWon() {
		return formatMessage(e.config.Messages.Victory, e.board.Score())
	}
	return formatMessage(e.config.Messages.GameOver, e.board.Score())
}

// addMoveToHistory appends to the cumulative history, which reset never
// clears, and to the current segment
func (e *GameEngine) addMoveToHistory(entry MoveHistoryEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.MoveNumber = e.totalMoves + 1
	e.history = append(e.history, entry)
	e.currentMoves = append(e.currentMoves, entry)
	e.totalMoves++
}

// CanMove checks whether direction would slide at least one tile
func (e *GameEngine) CanMove(direction string) bool {
	dir, err := ParseDirection(direction)
	if err != nil || e.board.HasGameEnded() {
		return false
	}
	return e.board.CanMove(dir)
}

// GetPossibleMoves returns every direction that moves a tile
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir.String()) {
			possible = append(possible, dir.String())
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// BulkMove plays moves in order and stops once the game ends
func (e *GameEngine) BulkMove(moves []string) ([]bool, error) {
	results := make([]bool, 0, len(moves))
	for _, direction := range moves {
		if e.IsGameOver() {
			break
		}
		moved, err := e.Move(direction)
		if err != nil {
			return results, err
		}
		results = append(results, moved)
	}
	return results, nil
}

func formatMessage(format string, score int) string {
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, score)
	}
	return format
}
