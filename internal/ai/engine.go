package ai

import (
	"log"
	"math/rand"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
	"guildlife.ai/internal/sim/world"
)

// DecisionEntry is what the engine reports per executed action, for
// logging and the telemetry index.
type DecisionEntry struct {
	GameID     string  `json:"game_id"`
	Week       int     `json:"week"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Cycle      int     `json:"cycle"`
	Action     string  `json:"action"`
	Location   string  `json:"location,omitempty"`
	Priority   float64 `json:"priority"`
	Detail     string  `json:"detail,omitempty"`
	Success    bool    `json:"success"`
	Candidates int     `json:"candidates"`
}

// DecisionSink receives decision entries; failures are the sink's
// problem, never the engine's.
type DecisionSink interface {
	RecordDecision(DecisionEntry)
}

// Engine is the per-game-session Grimwald brain. It owns all
// cross-turn AI state (velocity, performance history, commitments,
// adjusted settings); a new game gets a fresh Engine or a Reset.
type Engine struct {
	cats *catalogs.Catalogs
	tun  tuning.Tuning
	log  *log.Logger
	rng  *rand.Rand

	velocity    *VelocityTracker
	performance *PerformanceTracker
	commitments map[string]*CommitmentPlan
	settings    map[string]Settings
	profiles    map[string]Profile

	sinks []DecisionSink
}

func NewEngine(cats *catalogs.Catalogs, tun tuning.Tuning, logger *log.Logger, seed int64) *Engine {
	return &Engine{
		cats:        cats,
		tun:         tun,
		log:         logger,
		rng:         rand.New(rand.NewSource(seed)),
		velocity:    NewVelocityTracker(),
		performance: NewPerformanceTracker(),
		commitments: map[string]*CommitmentPlan{},
		settings:    map[string]Settings{},
		profiles:    map[string]Profile{},
	}
}

func (e *Engine) AddSink(s DecisionSink) { e.sinks = append(e.sinks, s) }

// RegisterPlayer binds an AI player to a difficulty preset and a
// personality profile.
func (e *Engine) RegisterPlayer(playerID, difficulty string, profile Profile) {
	preset, ok := e.tun.Difficulty[difficulty]
	if !ok {
		preset = e.tun.Difficulty["medium"]
	}
	e.settings[playerID] = SettingsFromPreset(preset)
	e.profiles[playerID] = profile
}

// ResetForNewGame clears every cross-turn map. Nothing leaks between
// games.
func (e *Engine) ResetForNewGame() {
	e.velocity.Reset()
	e.performance.Reset()
	e.commitments = map[string]*CommitmentPlan{}
}

func (e *Engine) Settings(playerID string) Settings { return e.settings[playerID] }

// maxCyclesPerTurn is a belt on top of the time budget; the end-turn
// fallback would terminate the loop anyway.
const maxCyclesPerTurn = 40

// TurnReport summarizes one full AI turn for the host loop.
type TurnReport struct {
	PlayerID string
	Week     int
	Cycles   int
	Executed []AIAction
	Failed   int
	Plan     *TurnPlan
}

// RunTurn plays one complete AI turn: observe, adjust, commit, then
// cycle pick-and-execute until end-turn. One action is applied per
// cycle; the context snapshot is rebuilt between cycles because the
// world moved.
func (e *Engine) RunTurn(g *world.Game, playerID string) TurnReport {
	p := g.Players[playerID]
	report := TurnReport{PlayerID: playerID, Week: g.Week}
	if p == nil {
		return report
	}
	s := e.settings[playerID]

	// Observe: velocity samples and the human-vs-AI gap, once per turn.
	gp := CalculateGoalProgress(p, g.Goals, g.StockPrices)
	for _, goal := range goalOrder {
		entry := gp.Get(goal)
		if !entry.Disabled {
			e.velocity.Record(playerID, goal, entry.Progress)
		}
	}
	humanSum, humanN := 0.0, 0
	for _, r := range g.Rivals(playerID) {
		if !r.IsAI {
			humanSum += CalculateGoalProgress(r, g.Goals, g.StockPrices).Overall
			humanN++
		}
	}
	if humanN > 0 {
		e.performance.Record(playerID, g.Week, humanSum/float64(humanN), gp.Overall, humanN)
		if adj, ok := e.performance.CalculateAdjustment(playerID); ok {
			s = ApplyAdjustment(s, adj)
			e.settings[playerID] = s
		}
	}

	// Commit or re-commit.
	plan := e.commitments[playerID]
	if !IsCommitmentValid(plan, p, gp, g.Week, e.tun.EvictionGraceWeeks) {
		plan = GenerateCommitmentPlan(p, gp, s, g.Week, e.cats, e.velocity, e.tun.EvictionGraceWeeks)
		e.commitments[playerID] = plan
	}

	velAdj := e.velocity.Adjustments(playerID, g.Week, s.PlanningDepth)

	// Hard AI routes the whole turn and biases each cycle along it.
	var routeBias map[string]float64
	if s.PlanningDepth >= 3 {
		ctx := e.buildContext(g, p, s, nil)
		tp := BuildTurnPlan(ctx)
		report.Plan = &tp
		routeBias = map[string]float64{}
		for i, stop := range tp.Stops {
			bonus := 12.0 - float64(i)*3
			if bonus < 2 {
				bonus = 2
			}
			routeBias[stop.Location] = bonus
		}
	}

	executor := NewExecutor(g, e.log)

	for cycle := 0; cycle < maxCyclesPerTurn; cycle++ {
		report.Cycles = cycle + 1
		ctx := e.buildContext(g, p, s, routeBias)
		actions := GenerateActions(ctx, plan, velAdj)

		// Walk the ranked list until something sticks. The end-turn
		// fallback at the bottom always does.
		var chosen AIAction
		for _, a := range actions {
			ok := executor.Execute(p, a)
			e.emit(g, p, cycle, a, ok, len(actions))
			if !ok {
				report.Failed++
				continue
			}
			chosen = a
			break
		}
		report.Executed = append(report.Executed, chosen)
		if chosen.Type == ActEndTurn || chosen.Type == "" {
			return report
		}
	}

	// Cycle cap reached without an end-turn: close the turn so the
	// game cannot stall.
	_ = g.EndTurn(playerID)
	return report
}

func (e *Engine) buildContext(g *world.Game, p *world.Player, s Settings, routeBias map[string]float64) *ActionContext {
	gp := CalculateGoalProgress(p, g.Goals, g.StockPrices)
	profile, ok := e.profiles[p.ID]
	if !ok {
		profile = DefaultProfile()
	}
	return &ActionContext{
		Player:      p,
		Goals:       g.Goals,
		Settings:    s,
		Profile:     profile,
		Progress:    gp,
		Urgency:     CalculateResourceUrgency(p, e.tun.EvictionGraceWeeks),
		Weakest:     WeakestGoal(gp),
		Rivals:      g.Rivals(p.ID),
		Cats:        e.cats,
		Tun:         e.tun,
		Week:        g.Week,
		Festival:    g.ActiveFestival(),
		StockPrices: g.StockPrices,
		Hexes:       g.Hexes,
		RouteBias:   routeBias,
		MoveCost:    g.TravelCost,
		Rand:        e.rng,
	}
}

func (e *Engine) emit(g *world.Game, p *world.Player, cycle int, a AIAction, ok bool, candidates int) {
	if len(e.sinks) == 0 {
		return
	}
	entry := DecisionEntry{
		GameID:     g.ID,
		Week:       g.Week,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Cycle:      cycle,
		Action:     string(a.Type),
		Location:   a.Location,
		Priority:   a.Priority,
		Detail:     a.Description,
		Success:    ok,
		Candidates: candidates,
	}
	for _, s := range e.sinks {
		s.RecordDecision(entry)
	}
}
