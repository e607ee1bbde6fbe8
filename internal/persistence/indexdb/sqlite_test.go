package indexdb

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"guildlife.ai/internal/ai"
	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteIndex_DecisionsAndStandings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	for cycle := 0; cycle < 5; cycle++ {
		idx.RecordDecision(ai.DecisionEntry{
			GameID:   "g1",
			Week:     7,
			PlayerID: "ai_1",
			Cycle:    cycle,
			Action:   "work",
			Location: "market",
			Priority: 62,
			Success:  cycle != 4,
		})
	}
	idx.RecordStanding(Standing{
		GameID: "g1", Week: 7, PlayerID: "ai_1", IsAI: true, Overall: 0.31, NetWorth: 640,
	})
	// Same key replaces, never duplicates.
	idx.RecordStanding(Standing{
		GameID: "g1", Week: 7, PlayerID: "ai_1", IsAI: true, Overall: 0.33, NetWorth: 660,
	})

	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Close drains the queue; after it everything is queryable.

	db := openRaw(t, path)
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM decisions WHERE game_id='g1' AND week=7`).Scan(&n); err != nil {
		t.Fatalf("count decisions: %v", err)
	}
	if n != 5 {
		t.Fatalf("decisions: got %d, want 5", n)
	}
	var failed int
	if err := db.QueryRow(`SELECT COUNT(*) FROM decisions WHERE success=0`).Scan(&failed); err != nil {
		t.Fatalf("count failures: %v", err)
	}
	if failed != 1 {
		t.Fatalf("failed decisions: got %d, want 1", failed)
	}

	var overall float64
	if err := db.QueryRow(`SELECT overall FROM standings WHERE game_id='g1' AND week=7 AND player_id='ai_1'`).Scan(&overall); err != nil {
		t.Fatalf("standing: %v", err)
	}
	if overall != 0.33 {
		t.Fatalf("standing not replaced: got %v", overall)
	}

	// Writes after Close are silently dropped, never a panic.
	idx.RecordDecision(ai.DecisionEntry{GameID: "g1", Week: 8, PlayerID: "ai_1"})
}

func TestSQLiteIndex_UpsertCatalogs(t *testing.T) {
	root := findRepoRoot(t)
	configDir := filepath.Join(root, "configs")
	cats, err := catalogs.Load(configDir)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}

	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.UpsertCatalogs(configDir, cats, tuning.Default()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Idempotent on replay.
	if err := idx.UpsertCatalogs(configDir, cats, tuning.Default()); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db := openRaw(t, path)
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil {
		t.Fatalf("count catalogs: %v", err)
	}
	// Nine catalog files plus the canonical tuning row.
	if n != 10 {
		t.Fatalf("catalog rows: got %d, want 10", n)
	}
	var digest string
	if err := db.QueryRow(`SELECT digest FROM catalogs WHERE name='jobs'`).Scan(&digest); err != nil {
		t.Fatalf("jobs digest: %v", err)
	}
	if digest != cats.Jobs.Digest {
		t.Fatalf("stored digest %q, want %q", digest, cats.Jobs.Digest)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("empty path must error")
	}
}
