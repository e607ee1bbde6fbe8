package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"guildlife.ai/internal/ai"
	"guildlife.ai/internal/persistence/decisionlog"
	"guildlife.ai/internal/persistence/indexdb"
	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
	"guildlife.ai/internal/sim/world"
	"guildlife.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		gameID     = flag.String("game", "game_1", "game id")
		roomCode   = flag.String("room", "GUILD", "room code guests must present")
		seed       = flag.Int64("seed", 1337, "game seed")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		persPath   = flag.String("personalities", "", "path to personalities.yaml (default: <configs>/personalities.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite decision index")

		maxHumans  = flag.Int("max_players", 4, "maximum human players")
		aiCount    = flag.Int("ai", 1, "number of AI opponents")
		difficulty = flag.String("difficulty", "medium", "AI difficulty preset (easy, medium, hard)")

		goalWealth    = flag.Int("goal_wealth", 2000, "wealth goal target in gold (0 disables)")
		goalHappiness = flag.Int("goal_happiness", 90, "happiness goal target (0 disables)")
		goalEducation = flag.Int("goal_education", 3, "education goal in completed degrees (0 disables)")
		goalCareer    = flag.Int("goal_career", 1, "career goal, reach a target job (0 disables)")
		goalAdventure = flag.Int("goal_adventure", 10, "adventure goal in quests plus floors (0 disables)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
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
		if os.IsNotExist(err) {
			logger.Printf("personalities not found (%s); using default profile", pp)
			profiles = map[string]ai.Profile{}
		} else {
			logger.Fatalf("load personalities: %v", err)
		}
	}

	gameDir := filepath.Join(*dataDir, "games", *gameID)
	_ = os.MkdirAll(gameDir, 0o755)

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(gameDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index db: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index db: upsert catalogs: %v", err)
		}
	}

	decLog := decisionlog.NewDecisionLogger(gameDir)
	defer decLog.Close()

	game := world.New(world.GameConfig{
		ID:   *gameID,
		Seed: *seed,
		Goals: world.Goals{
			Wealth:    *goalWealth,
			Happiness: *goalHappiness,
			// The flag counts degrees; Goals.Education is in points.
			Education: *goalEducation * ai.DegreePoints,
			Career:    *goalCareer,
			Adventure: *goalAdventure,
		},
	}, cats, tune)

	engine := ai.NewEngine(cats, tune, logger, *seed)
	engine.AddSink(decLog)
	if idx != nil {
		engine.AddSink(idx)
	}

	seatAI(game, engine, profiles, *aiCount, *difficulty, *seed)

	ctx, cancel := signalContext()
	defer cancel()

	host := newGameHost(game, engine, idx, *roomCode, *maxHumans, logger)
	go host.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		s := host.Stats()

		fmt.Fprintf(rw, "# HELP guildlife_game_week Current game week.\n")
		fmt.Fprintf(rw, "# TYPE guildlife_game_week gauge\n")
		fmt.Fprintf(rw, "guildlife_game_week{game=%q} %d\n", *gameID, s.Week)

		fmt.Fprintf(rw, "# HELP guildlife_game_clients Connected guest clients.\n")
		fmt.Fprintf(rw, "# TYPE guildlife_game_clients gauge\n")
		fmt.Fprintf(rw, "guildlife_game_clients{game=%q} %d\n", *gameID, s.Clients)
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(host, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s room=%s ai=%d difficulty=%s", *addr, *roomCode, *aiCount, *difficulty)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// seatAI creates the AI opponents before any guest joins. Profiles
// cycle through the loaded personality file so a two-AI table gets
// two different temperaments.
func seatAI(g *world.Game, eng *ai.Engine, profiles map[string]ai.Profile, n int, difficulty string, seed int64) {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	for i := 0; i < n; i++ {
		prof := ai.DefaultProfile()
		if len(names) > 0 {
			prof = profiles[names[i%len(names)]]
		}
		id := fmt.Sprintf("ai_%d", i+1)
		p := world.NewPlayer(id, aiDisplayName(prof.Name, i), true)
		p.Personality = prof.Name
		p.Difficulty = difficulty
		g.AddPlayer(p)
		eng.RegisterPlayer(id, difficulty, prof)
	}
}

func aiDisplayName(profile string, i int) string {
	if profile == "" || profile == "grimwald" {
		if i == 0 {
			return "Grimwald"
		}
		return fmt.Sprintf("Grimwald %d", i+1)
	}
	return strings.ToUpper(profile[:1]) + profile[1:]
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
