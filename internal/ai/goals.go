package ai

import "guildlife.ai/internal/sim/world"

// Victory goal names, in the fixed evaluation order used everywhere
// progress maps are iterated.
const (
	GoalWealth    = "wealth"
	GoalHappiness = "happiness"
	GoalEducation = "education"
	GoalCareer    = "career"
	GoalAdventure = "adventure"
)

var goalOrder = []string{GoalWealth, GoalHappiness, GoalEducation, GoalCareer, GoalAdventure}

// DegreePoints is the fixed education value of one completed degree.
const DegreePoints = 9

// GoalEntry is one goal's normalized progress view.
type GoalEntry struct {
	Current  float64
	Target   float64
	Progress float64
	Disabled bool
}

// GoalProgress is a derived view, recomputed fresh every cycle and
// never persisted.
type GoalProgress struct {
	byName  map[string]GoalEntry
	Overall float64
}

func (gp GoalProgress) Get(name string) GoalEntry { return gp.byName[name] }

func entry(current, target float64) GoalEntry {
	if target <= 0 {
		// Disabled goals never block: pinned to complete.
		return GoalEntry{Current: current, Target: target, Progress: 1, Disabled: true}
	}
	p := current / target
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return GoalEntry{Current: current, Target: target, Progress: p}
}

// CalculateGoalProgress derives normalized progress toward each
// victory goal. stockPrices may be nil when no market snapshot is
// available; holdings then count for nothing.
func CalculateGoalProgress(p *world.Player, goals world.Goals, stockPrices map[string]int) GoalProgress {
	wealth := p.Gold + p.Savings + p.Investments - p.LoanAmount
	for id, shares := range p.Shares {
		if price, ok := stockPrices[id]; ok {
			wealth += price * shares
		}
	}

	career := 0
	if p.CurrentJob != "" {
		career = p.Dependability
	}

	adventure := p.CompletedQuests + len(p.FloorsCleared)

	gp := GoalProgress{byName: map[string]GoalEntry{
		GoalWealth:    entry(float64(wealth), float64(goals.Wealth)),
		GoalHappiness: entry(float64(p.Happiness), float64(goals.Happiness)),
		GoalEducation: entry(float64(len(p.CompletedDegrees)*DegreePoints), float64(goals.Education)),
		GoalCareer:    entry(float64(career), float64(goals.Career)),
		GoalAdventure: entry(float64(adventure), float64(goals.Adventure)),
	}}

	sum, n := 0.0, 0
	for _, name := range goalOrder {
		e := gp.byName[name]
		if e.Disabled {
			continue
		}
		sum += e.Progress
		n++
	}
	if n > 0 {
		gp.Overall = sum / float64(n)
	} else {
		gp.Overall = 1
	}
	return gp
}

// WeakestGoal picks the goal to pursue. Sprint rule: a goal in
// [0.8, 1.0) beats every lower one, because finishing a nearly-done
// goal is worth more than spreading effort. Otherwise the lowest
// progress goal wins. Ties go to the earlier goal in the fixed order.
func WeakestGoal(gp GoalProgress) string {
	sprint, sprintP := "", -1.0
	for _, name := range goalOrder {
		e := gp.byName[name]
		if e.Disabled {
			continue
		}
		if e.Progress >= 0.8 && e.Progress < 1.0 && e.Progress > sprintP {
			sprint, sprintP = name, e.Progress
		}
	}
	if sprint != "" {
		return sprint
	}
	weakest, weakestP := "", 2.0
	for _, name := range goalOrder {
		e := gp.byName[name]
		if e.Disabled {
			continue
		}
		if e.Progress < weakestP {
			weakest, weakestP = name, e.Progress
		}
	}
	if weakest == "" {
		return GoalWealth
	}
	return weakest
}

// SecondWeakestGoal supports the hard AI's multitasking pass.
func SecondWeakestGoal(gp GoalProgress, weakest string) string {
	second, secondP := "", 2.0
	for _, name := range goalOrder {
		e := gp.byName[name]
		if e.Disabled || name == weakest || e.Progress >= 1.0 {
			continue
		}
		if e.Progress < secondP {
			second, secondP = name, e.Progress
		}
	}
	return second
}

// ResourceUrgency grades critical resources in [0,1]; each is a
// small step function of the raw stat.
type ResourceUrgency struct {
	Food     float64
	Rent     float64
	Clothing float64
	Health   float64
	Housing  float64
}

func CalculateResourceUrgency(p *world.Player, evictionGraceWeeks int) ResourceUrgency {
	var u ResourceUrgency

	switch {
	case p.Food < 25:
		u.Food = 1.0
	case p.Food < 50:
		u.Food = 0.6
	default:
		u.Food = 0.1
	}

	switch {
	case p.HousingTier == world.HousingHomeless:
		u.Rent = 0 // no landlord, no rent
	case p.WeeksSinceRent >= evictionGraceWeeks:
		u.Rent = 1.0
	case p.WeeksSinceRent >= evictionGraceWeeks-1:
		u.Rent = 0.5
	default:
		u.Rent = 0.1
	}

	switch {
	case p.Clothing <= 0:
		u.Clothing = 1.0
	case p.Clothing < 30:
		u.Clothing = 0.6
	default:
		u.Clothing = 0.1
	}

	switch {
	case p.Health < 25:
		u.Health = 1.0
	case p.Health < 50:
		u.Health = 0.5
	default:
		u.Health = 0.1
	}

	switch {
	case p.HousingTier == world.HousingHomeless:
		u.Housing = 0.7
	case p.HousingTier == world.HousingSlums && p.Gold > 400:
		u.Housing = 0.3
	default:
		u.Housing = 0.1
	}

	return u
}

// InCrisis reports whether survival overrides planning: the
// commitment planner refuses to commit and existing plans are
// invalidated while this holds.
func InCrisis(p *world.Player, evictionGraceWeeks int) bool {
	if p.Food < 20 || p.Health < 25 || p.Clothing <= 0 {
		return true
	}
	if p.HousingTier != world.HousingHomeless && p.WeeksSinceRent >= evictionGraceWeeks {
		return true
	}
	if p.LoanDefaulted && p.Gold < 50 {
		return true
	}
	return false
}
