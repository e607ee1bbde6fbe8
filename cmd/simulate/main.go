package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"guildlife.ai/internal/ai"
	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
	"guildlife.ai/internal/sim/world"
)

// simulate runs an AI-only table headless for a fixed number of
// weeks. Useful for balancing catalogs and difficulty presets without
// a client.
func main() {
	var (
		configDir  = flag.String("configs", "./configs", "config directory")
		persPath   = flag.String("personalities", "", "path to personalities.yaml (default: <configs>/personalities.yaml)")
		seed       = flag.Int64("seed", 42, "game seed")
		weeks      = flag.Int("weeks", 52, "weeks to simulate")
		aiCount    = flag.Int("ai", 3, "number of AI players")
		difficulty = flag.String("difficulty", "hard", "difficulty preset for every AI")
		verbose    = flag.Bool("v", false, "log every executed action")

		goalWealth    = flag.Int("goal_wealth", 2000, "wealth goal target in gold (0 disables)")
		goalHappiness = flag.Int("goal_happiness", 90, "happiness goal target (0 disables)")
		goalEducation = flag.Int("goal_education", 3, "education goal in completed degrees (0 disables)")
		goalCareer    = flag.Int("goal_career", 1, "career goal (0 disables)")
		goalAdventure = flag.Int("goal_adventure", 10, "adventure goal in quests plus floors (0 disables)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simulate] ", log.LstdFlags)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(*configDir, "tuning.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			tune = tuning.Default()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	pp := strings.TrimSpace(*persPath)
	if pp == "" {
		pp = filepath.Join(*configDir, "personalities.yaml")
	}
	profiles, err := ai.LoadProfiles(pp)
	if err != nil {
		profiles = map[string]ai.Profile{}
	}

	goals := world.Goals{
		Wealth:    *goalWealth,
		Happiness: *goalHappiness,
		// The flag counts degrees; Goals.Education is in points.
		Education: *goalEducation * ai.DegreePoints,
		Career:    *goalCareer,
		Adventure: *goalAdventure,
	}
	game := world.New(world.GameConfig{ID: "sim", Seed: *seed, Goals: goals}, cats, tune)
	engine := ai.NewEngine(cats, tune, logger, *seed)
	if *verbose {
		engine.AddSink(printSink{logger})
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	rng := rand.New(rand.NewSource(*seed))
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	for i := 0; i < *aiCount; i++ {
		prof := ai.DefaultProfile()
		if len(names) > 0 {
			prof = profiles[names[i%len(names)]]
		}
		id := fmt.Sprintf("ai_%d", i+1)
		p := world.NewPlayer(id, fmt.Sprintf("%s_%d", prof.Name, i+1), true)
		p.Personality = prof.Name
		p.Difficulty = *difficulty
		game.AddPlayer(p)
		engine.RegisterPlayer(id, *difficulty, prof)
	}

	for game.Week <= *weeks {
		cur := game.CurrentPlayer()
		if cur == nil {
			break
		}
		week := game.Week
		report := engine.RunTurn(game, cur.ID)
		if game.Week == week && game.CurrentPlayer() != nil && game.CurrentPlayer().ID == cur.ID {
			// Nothing advanced; bail instead of spinning.
			logger.Printf("turn did not advance (player=%s week=%d cycles=%d)", cur.ID, week, report.Cycles)
			break
		}
	}

	fmt.Printf("\nfinal standings after %d weeks (seed=%d, difficulty=%s)\n", game.Week-1, *seed, *difficulty)
	fmt.Printf("%-12s %-12s %8s %8s %8s %8s %8s %8s\n",
		"player", "profile", "overall", "gold", "savings", "degrees", "job", "floor")
	for _, id := range game.Order {
		p := game.Players[id]
		gp := ai.CalculateGoalProgress(p, goals, game.StockPrices)
		fmt.Printf("%-12s %-12s %8.3f %8d %8d %8d %8s %8d\n",
			p.Name, p.Personality, gp.Overall, p.Gold, p.Savings,
			len(p.CompletedDegrees), orDash(p.CurrentJob), p.HighestFloorCleared())
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type printSink struct{ log *log.Logger }

func (s printSink) RecordDecision(e ai.DecisionEntry) {
	if !e.Success {
		return
	}
	s.log.Printf("week=%d %s cycle=%d %s prio=%.1f %s", e.Week, e.PlayerID, e.Cycle, e.Action, e.Priority, e.Detail)
}
