package ai

// Goal velocity tracking: an EMA of per-turn progress deltas, used
// to spot goals the current strategy is failing to move and to pivot
// effort toward whatever compensates.

const (
	velocityAlpha          = 0.4
	velocityHistory        = 5
	StuckVelocityThreshold = 0.01
	stuckTurnsToFlag       = 3
	pivotCooldownTurns     = 2
	momentumFactor         = 3.0
)

type velKey struct {
	player string
	goal   string
}

type velocityEntry struct {
	samples    []float64
	velocity   float64
	stuckTurns int
	lastPivot  int
}

// VelocityTracker is per-game-session state; construct one per game
// and Reset it on a new game rather than sharing across games.
type VelocityTracker struct {
	entries map[velKey]*velocityEntry
}

func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{entries: map[velKey]*velocityEntry{}}
}

func (t *VelocityTracker) Reset() {
	t.entries = map[velKey]*velocityEntry{}
}

// Record observes one goal progress sample for a player. Velocity is
// an EMA of sample deltas; a near-zero velocity accumulates stuck
// turns.
func (t *VelocityTracker) Record(playerID, goal string, progress float64) {
	k := velKey{playerID, goal}
	e := t.entries[k]
	if e == nil {
		e = &velocityEntry{lastPivot: -pivotCooldownTurns}
		t.entries[k] = e
	}
	if len(e.samples) > 0 {
		delta := progress - e.samples[len(e.samples)-1]
		e.velocity = e.velocity*(1-velocityAlpha) + delta*velocityAlpha
		if abs(e.velocity) < StuckVelocityThreshold {
			e.stuckTurns++
		} else {
			e.stuckTurns = 0
		}
	}
	e.samples = append(e.samples, progress)
	if len(e.samples) > velocityHistory {
		e.samples = e.samples[len(e.samples)-velocityHistory:]
	}
}

// StuckGoals lists goals that have sat still for several turns.
func (t *VelocityTracker) StuckGoals(playerID string) []string {
	var out []string
	for _, goal := range goalOrder {
		if e := t.entries[velKey{playerID, goal}]; e != nil && e.stuckTurns >= stuckTurnsToFlag {
			out = append(out, goal)
		}
	}
	return out
}

func (t *VelocityTracker) IsStuck(playerID, goal string) bool {
	e := t.entries[velKey{playerID, goal}]
	return e != nil && e.stuckTurns >= stuckTurnsToFlag
}

// compensations maps a stuck goal to the action types that attack it
// from a different angle, and the ones currently failing to move it.
var compensations = map[string]struct {
	boost []ActionType
	damp  []ActionType
}{
	GoalWealth:    {boost: []ActionType{ActWork, ActApplyJob, ActSellStock}, damp: []ActionType{ActBuyStock}},
	GoalEducation: {boost: []ActionType{ActWork, ActApplyJob}, damp: []ActionType{ActStudy}},
	GoalHappiness: {boost: []ActionType{ActBuyTicket, ActAttendFestival, ActBuyFreshFood}, damp: nil},
	GoalCareer:    {boost: []ActionType{ActApplyJob, ActWork, ActRequestRaise}, damp: nil},
	GoalAdventure: {boost: []ActionType{ActExploreDungeon, ActTakeQuest, ActBuyEquipment}, damp: nil},
}

// momentumAction is the single action that rides an already-moving
// goal.
var momentumAction = map[string]ActionType{
	GoalWealth:    ActWork,
	GoalEducation: ActStudy,
	GoalHappiness: ActBuyTicket,
	GoalCareer:    ActWork,
	GoalAdventure: ActExploreDungeon,
}

// Adjustments returns per-action priority multipliers for one
// player. Shallow planners get none. A stuck goal off pivot cooldown
// boosts its compensating actions and damps the failing ones, and
// starts a new cooldown; a goal moving well above the stuck
// threshold earns a small momentum bonus instead.
func (t *VelocityTracker) Adjustments(playerID string, week, planningDepth int) map[ActionType]float64 {
	adj := map[ActionType]float64{}
	if planningDepth < 2 {
		return adj
	}
	for _, goal := range goalOrder {
		e := t.entries[velKey{playerID, goal}]
		if e == nil {
			continue
		}
		if e.stuckTurns >= stuckTurnsToFlag {
			if week-e.lastPivot < pivotCooldownTurns {
				continue
			}
			comp := compensations[goal]
			for _, a := range comp.boost {
				adj[a] = maxf(adj[a], 1.3)
			}
			for _, a := range comp.damp {
				if adj[a] == 0 || adj[a] > 0.7 {
					adj[a] = 0.7
				}
			}
			e.lastPivot = week
		} else if e.velocity > StuckVelocityThreshold*momentumFactor {
			a := momentumAction[goal]
			adj[a] = maxf(adj[a], 1.1)
		}
	}
	return adj
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
