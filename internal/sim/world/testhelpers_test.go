package world

import (
	"os"
	"path/filepath"
	"testing"

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

func testCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join(findRepoRoot(t), "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

// newTestGame seats two players, "p1" (current) and "p2".
func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	g := New(GameConfig{
		ID:    "test",
		Seed:  seed,
		Goals: Goals{Wealth: 2000, Happiness: 90, Education: 27, Career: 1, Adventure: 10},
	}, testCatalogs(t), tuning.Default())
	g.AddPlayer(NewPlayer("p1", "Alice", false))
	g.AddPlayer(NewPlayer("p2", "Bob", false))
	return g
}
