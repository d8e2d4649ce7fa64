// Package websocket pushes live game updates to browser clients.
//
// A central Hub tracks clients per session. Each connection gets a uuid for
// logging and runs a read pump (pong keepalive) and a write pump (pings and
// outbound messages). The hub goroutine owns registration and fan-out, and
// stops when the context passed to Run is cancelled.
//
// Message Protocol:
//
// Outgoing messages are JSON documents:
//
//	{
//	  "session_id": "ab12",
//	  "event": "state_update",
//	  "game_state": {...},
//	  "frames": [[{"kind": "move", "from": {...}, "to": {...}, "value": 2}], ...]
//	}
//
// frames lists the animation batches of the move in draw order so a client
// can replay the slide, the merge pulse and the spawn. Incoming messages are
// ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, result.GameState, result.Frames)
package websocket
