// Package session provides in-memory session management for the tile merge game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Seeded engines so a session can be replayed
//   - Session cleanup and expiration
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Generated IDs come from crypto/rand and are retried on
// collision.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	go manager.RunCleanup(ctx, time.Minute, time.Hour)
package session
