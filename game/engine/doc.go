// Package engine provides the core rules of the tile merge game.
//
// The engine package implements:
//   - Sliding and merging on a 4x4 grid
//   - A two phase animation queue (pending and active batches)
//   - Weighted random spawns of 2 and 4 tiles
//   - Rules configuration loading and validation (JSON or YAML)
//
// Core Types:
//
// Board owns the committed grid and the animation queues. PlayMove plans
// MoveTile events without touching the grid; each ResolveAnimations call
// commits the active batch and promotes what it produced (MergeTile and
// NewTile events) to the next batch. GameEngine wraps a Board with its
// GameConfig, move history and player messages for headless callers.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("configs", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.NewRandom(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	moved, err := gameEngine.Move("left")
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Every move slides all tiles toward one side. Two equal tiles meeting
// merge into their sum, at most once per cell per move, and the sum is
// added to the score. A move that slides anything spawns one new tile. The
// game is won when a tile reaches the target and lost when no direction
// moves any tile.
package engine
