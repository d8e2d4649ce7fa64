// Package mcp exposes the tile merge game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API and the JSON response is rendered as text with the render package.
// It holds no game state of its own, so several agents can share one server.
//
// MCP Tools:
//   - create_session: new game with an optional config_id and seed
//   - list_sessions, get_session: inspect running games
//   - game_state: board, score, possible moves
//   - move: single slide, optionally with its animation frames
//   - bulk_move: several slides, stopping at an invalid direction or game end
//   - reset_game: restart from the config's opening board
//   - move_history: paginated history plus the current segment
//   - list_configs: available configurations
//   - game_instructions: rules and strategy hints
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
