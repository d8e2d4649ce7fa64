// Package api provides the HTTP REST API for the tile merge game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic", "seed": 42})
//   - GET /api/sessions - List sessions (sort=created|accessed|score, order, limit)
//   - GET /api/sessions/unified - Sessions plus best score and tile across them
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - Play one move ({"direction": "left", "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Play up to 50 moves ({"moves": ["up", "left"]})
//   - POST /api/sessions/{id}/reset - Start over with the same rules
//   - GET /api/sessions/{id}/history - Paginated move history (page, limit, order)
//
// Configuration:
//   - GET /api/configs - List rules files
//   - POST /api/configs - Validate and save a rules file
//   - GET /api/configs/{name} - Get one rules file
//
// Other:
//   - GET /api/health - Liveness and session count
//   - GET /ws?session={id} - Live state_update stream, see package websocket
//
// Moves are resolved to completion before the response is written. The
// response carries the animation frames of the move so clients can replay
// it:
//
//	{
//	  "success": true,
//	  "moved": true,
//	  "frames": [
//	    [{"kind": "move", "from": {"row": 0, "col": 1}, "to": {"row": 0, "col": 0}, "value": 2}],
//	    [{"kind": "merge", "at": {"row": 0, "col": 0}, "value": 4}, {"kind": "new", "at": {"row": 3, "col": 3}, "value": 2}]
//	  ],
//	  "step": {"idx": 1, "dir": "left", "slides": 1, "merges": 1, "score_before": 0, "score_after": 4},
//	  "game_state": {...}
//	}
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Unknown sessions and configs
// map to 404, invalid directions and rules to 400, a move during an
// animation to 409 and anything else to 500.
package api
