// Package config provides rules file management for the tile merge game.
//
// The config package handles:
//   - Loading rules from JSON or YAML files
//   - Validation through engine.ValidateGameConfig
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Rules files live in the configs directory. Each one defines the target
// tile, the chance of spawning a 4, how many tiles the game opens with, the
// animation time and the player messages. An optional layout of four rows
// presets the opening board:
//
//	layout:
//	  - "2 . . ."
//	  - ". 4 . ."
//	  - ". . . ."
//	  - ". . . 2"
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("classic")
//	configs, err := manager.ListConfigs()
package config
