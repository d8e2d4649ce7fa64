package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/game/service"
)

func createTestConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:            "Test Config",
		Description:     "Test configuration",
		TargetTile:      2048,
		FourProbability: 0.1,
		InitialTiles:    2,
		AnimationMs:     100,
		Messages: engine.Messages{
			Welcome:  "Welcome!",
			Moved:    "Score: %d",
			NoMove:   "Nothing moved",
			Victory:  "Won with %d",
			GameOver: "Lost with %d",
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config, 42)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.Seed != 42 {
			t.Errorf("Expected seed 42, got %d", session.Seed)
		}
	})

	t.Run("create with auto-generated ID and seed", func(t *testing.T) {
		session, err := manager.Create("", config, 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
		if session.Seed == 0 {
			t.Error("Expected a generated seed")
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		if _, err := manager.Create("test-session", config, 1); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		if _, err := manager.Create("TEST-SESSION", config, 1); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Create("has space", config, 1); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.Name = ""
		if _, err := manager.Create("invalid-test", invalidConfig, 1); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_SeedReplaysSpawns(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	a, _ := manager.Create("seed-a", config, 1234)
	b, _ := manager.Create("seed-b", config, 1234)

	for _, e := range []*engine.GameEngine{a.Engine, b.Engine} {
		if _, err := e.Settle(); err != nil {
			t.Fatalf("Settle: %v", err)
		}
		for _, dir := range []string{"left", "up", "right", "down", "left"} {
			if _, err := e.Move(dir); err != nil {
				t.Fatalf("Move: %v", err)
			}
		}
	}

	if a.Engine.GetState().Grid != b.Engine.GetState().Grid {
		t.Errorf("Equal seeds must replay equal games:\n%v\n%v", a.Engine.GetState().Grid, b.Engine.GetState().Grid)
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestConfig(), 1)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Errorf("Expected session '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Error("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("non-existent"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.GetOrCreate("new-session", config, 7)
	if err != nil {
		t.Fatalf("Failed to get or create session: %v", err)
	}
	second, err := manager.GetOrCreate("new-session", config, 8)
	if err != nil {
		t.Fatalf("Failed to get existing session: %v", err)
	}
	if first != second {
		t.Error("Expected the existing session to be returned")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()
	manager.Create("delete-test", config, 1)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", config, 1)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if manager.Exists("case-test") {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var want []string
	for i := 1; i <= 3; i++ {
		s, err := manager.Create(fmt.Sprintf("list-%d", i), config, uint64(i))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		want = append(want, s.ID)
		time.Sleep(time.Millisecond)
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i, s := range sessions {
		if s.ID != want[i] {
			t.Errorf("Expected %s at position %d, got %s", want[i], i, s.ID)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	active, _ := manager.Create("active", config, 1)
	expired, _ := manager.Create("expired", config, 1)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if deleted := manager.CleanupExpiredSessions(time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_RunCleanup(t *testing.T) {
	manager := NewManager()
	stale, _ := manager.Create("stale", createTestConfig(), 1)
	stale.LastAccessedAt = time.Now().Add(-time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.RunCleanup(ctx, 5*time.Millisecond, time.Minute)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for manager.Exists("stale") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if manager.Exists("stale") {
		t.Error("Expected the janitor to remove the stale session")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", createTestConfig(), 1)
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("conc-%d", n%20)
			if _, err := manager.GetOrCreate(id, config, uint64(n+1)); err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
			manager.List()
			manager.UpdateLastAccessed(id)
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()
	config.InitialTiles = 0
	config.Layout = []string{"2 . . .", ". . . .", ". . . .", ". . . ."}

	session1, _ := manager.Create("iso-1", config, 1)
	session2, _ := manager.Create("iso-2", config, 1)

	if _, err := session1.Engine.Move("right"); err != nil {
		t.Fatalf("Move: %v", err)
	}

	if v, _ := session2.Engine.GetBoard().Tile(0, 0); v != 2 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if session1.Engine.GetState().Grid == session2.Engine.GetState().Grid {
		t.Error("Sessions should have independent game state")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config, 1)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}

func TestManager_LastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("Seen", createTestConfig(), 1)

	got, err := manager.LastAccessed("seen")
	if err != nil {
		t.Fatalf("LastAccessed failed: %v", err)
	}
	if !got.Equal(session.LastAccessedAt) {
		t.Errorf("Expected %v, got %v", session.LastAccessedAt, got)
	}

	time.Sleep(10 * time.Millisecond)
	manager.UpdateLastAccessed("seen")
	if later, _ := manager.LastAccessed("seen"); !later.After(got) {
		t.Error("Expected LastAccessed to follow UpdateLastAccessed")
	}

	if _, err := manager.LastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

// staticConfigs serves a single rules config to the game service
type staticConfigs struct {
	config *engine.GameConfig
}

func (c staticConfigs) LoadConfig(name string) (*engine.GameConfig, error) { return c.config, nil }
func (c staticConfigs) ListConfigs() ([]*service.ConfigInfo, error) { return nil, nil }
func (c staticConfigs) GetDefault() *engine.GameConfig { return c.config }
func (c staticConfigs) SaveConfig(string, *engine.GameConfig) error { return nil }

// Readers share the service read lock while each lookup refreshes the
// access time, so run this with -race
func TestManager_ConcurrentServiceReads(t *testing.T) {
	manager := NewManager()
	svc := service.NewGameService(manager, staticConfigs{config: createTestConfig()})
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", 7)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8*50)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := svc.GetSession(ctx, info.ID)
				if err != nil {
					errs <- err
					return
				}
				if got.LastAccessedAt.IsZero() {
					errs <- fmt.Errorf("session %s has no access time", got.ID)
					return
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
					return
				}
				if _, err := svc.GetGameState(ctx, info.ID); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent reads: %v", err)
	}
}
