package ai

import "sort"

// defaultGenerators in invocation order. Order is cosmetic: the
// priority sort resolves everything.
var defaultGenerators = []Generator{
	GenerateCriticalActions,
	GenerateGoalActions,
	GenerateStrategicActions,
	GenerateEconomicActions,
	GenerateQuestActions,
	GenerateRivalryActions,
}

// GenerateActions runs every category generator over the context,
// applies commitment bonuses and velocity multipliers, appends the
// end-turn fallback and sorts. With probability mistakeChance the
// top two candidates swap; never anything deeper, so a mistake is
// always mild and recoverable.
func GenerateActions(ctx *ActionContext, plan *CommitmentPlan, velAdj map[ActionType]float64) []AIAction {
	var actions []AIAction
	for _, gen := range defaultGenerators {
		actions = append(actions, gen(ctx)...)
	}

	for i := range actions {
		actions[i].Priority += CommitmentBonus(plan, actions[i].Type)
		if m, ok := velAdj[actions[i].Type]; ok && m > 0 {
			actions[i].Priority *= m
		}
		if b, ok := ctx.RouteBias[actions[i].Location]; ok {
			actions[i].Priority += b
		}
	}

	actions = append(actions, AIAction{
		Type:        ActEndTurn,
		Priority:    1,
		Description: "call it a week",
	})

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority > actions[j].Priority
	})

	if len(actions) >= 2 && ctx.Rand != nil && ctx.Rand.Float64() < ctx.Settings.MistakeChance {
		actions[0], actions[1] = actions[1], actions[0]
	}

	return actions
}
