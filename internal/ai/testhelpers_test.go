package ai

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
	"guildlife.ai/internal/sim/world"
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

func testGoals() world.Goals {
	// Education is in points: three degrees at DegreePoints each.
	return world.Goals{Wealth: 2000, Happiness: 90, Education: 3 * DegreePoints, Career: 1, Adventure: 10}
}

// newTestGame seats AI player "ai_1" (current) and human rival "hum_1".
func newTestGame(t *testing.T, seed int64) *world.Game {
	t.Helper()
	g := world.New(world.GameConfig{ID: "test", Seed: seed, Goals: testGoals()},
		testCatalogs(t), tuning.Default())
	g.AddPlayer(world.NewPlayer("ai_1", "Grimwald", true))
	g.AddPlayer(world.NewPlayer("hum_1", "Alice", false))
	return g
}

func testSettings(depth int) Settings {
	return Settings{
		Aggressiveness:   0.6,
		PlanningDepth:    depth,
		MistakeChance:    0,
		EfficiencyWeight: 0.7,
	}
}

// newTestContext builds the per-cycle snapshot the generators read,
// the same way the engine does.
func newTestContext(t *testing.T, g *world.Game, p *world.Player, s Settings) *ActionContext {
	t.Helper()
	gp := CalculateGoalProgress(p, g.Goals, g.StockPrices)
	return &ActionContext{
		Player:      p,
		Goals:       g.Goals,
		Settings:    s,
		Profile:     DefaultProfile(),
		Progress:    gp,
		Urgency:     CalculateResourceUrgency(p, g.Tuning().EvictionGraceWeeks),
		Weakest:     WeakestGoal(gp),
		Rivals:      g.Rivals(p.ID),
		Cats:        g.Catalogs(),
		Tun:         g.Tuning(),
		Week:        g.Week,
		Festival:    g.ActiveFestival(),
		StockPrices: g.StockPrices,
		Hexes:       g.Hexes,
		MoveCost:    g.TravelCost,
		Rand:        rand.New(rand.NewSource(1)),
	}
}

// progressOf builds a GoalProgress directly, for the selection tests.
func progressOf(m map[string]float64) GoalProgress {
	gp := GoalProgress{byName: map[string]GoalEntry{}}
	sum, n := 0.0, 0
	for _, name := range goalOrder {
		p, ok := m[name]
		if !ok {
			gp.byName[name] = GoalEntry{Progress: 1, Disabled: true}
			continue
		}
		gp.byName[name] = GoalEntry{Progress: p, Target: 1, Current: p}
		sum += p
		n++
	}
	if n > 0 {
		gp.Overall = sum / float64(n)
	}
	return gp
}
