package ai

import (
	"fmt"

	"guildlife.ai/internal/sim/world"
)

// Turn planner: the hard AI's alternative to deciding one action at
// a time. It lays out the errands the week needs, then greedily
// builds a route that batches everything at each stop, maximizing
// value per hour including the walk.

// NeededVisit is one errand: where, how long, what it is worth.
type NeededVisit struct {
	Location string
	Hours    float64
	Value    float64
	Reason   string
}

type PlannedStop struct {
	Location string
	Travel   float64
	Visits   []NeededVisit
}

type TurnPlan struct {
	Stops         []PlannedStop
	TotalHours    float64
	ExpectedValue float64
	IdleHours     float64
}

// NeededVisits inventories the week's errands from the context.
func NeededVisits(ctx *ActionContext) []NeededVisit {
	p := ctx.Player
	var visits []NeededVisit

	if p.CurrentJob != "" {
		job := ctx.Cats.Jobs.ByID[p.CurrentJob]
		shift := ctx.Tun.WorkShiftHours
		shifts := int(p.TimeRemaining / (shift * 2))
		if shifts < 1 {
			shifts = 1
		}
		if shifts > 3 {
			shifts = 3
		}
		for i := 0; i < shifts; i++ {
			visits = append(visits, NeededVisit{
				Location: job.Location,
				Hours:    shift,
				Value:    float64(p.Wage) * shift,
				Reason:   fmt.Sprintf("shift %d as %s", i+1, job.Title),
			})
		}
	}

	if ctx.Urgency.Food >= 0.6 {
		if def, ok := cheapestItem(ctx.Cats, "FOOD"); ok && p.Gold >= def.Price {
			visits = append(visits, NeededVisit{
				Location: def.Shop,
				Hours:    0.5,
				Value:    80,
				Reason:   "restock food",
			})
		}
	}

	if ctx.Urgency.Clothing >= 0.6 {
		if def, ok := cheapestItem(ctx.Cats, "CLOTHING"); ok && p.Gold >= def.Price {
			visits = append(visits, NeededVisit{
				Location: def.Shop,
				Hours:    0.5,
				Value:    50,
				Reason:   "replace clothes",
			})
		}
	}

	for _, degID := range p.ReadyToGraduate {
		visits = append(visits, NeededVisit{
			Location: academyLocation,
			Hours:    1,
			Value:    90,
			Reason:   fmt.Sprintf("graduate %s", degID),
		})
	}
	if deg, ok := NextDegree(p, ctx.Cats, ctx.Settings); ok && ctx.Weakest == GoalEducation {
		if p.StudyProgress[deg.ID] > 0 || p.Gold >= deg.Cost {
			visits = append(visits, NeededVisit{
				Location: academyLocation,
				Hours:    ctx.Tun.StudySessionHours,
				Value:    60,
				Reason:   fmt.Sprintf("study %s", deg.ID),
			})
		}
	}

	if job, ok := BestAvailableJob(p, ctx.Cats, ctx.Rivals); ok && float64(job.BaseWage) > float64(p.Wage)*1.1 {
		visits = append(visits, NeededVisit{
			Location: job.Location,
			Hours:    1,
			Value:    float64(job.BaseWage-p.Wage) * 10,
			Reason:   fmt.Sprintf("apply for %s", job.Title),
		})
	}

	if mv := CalculateBankingStrategy(p, ctx.Settings); mv.Deposit > 0 || mv.Withdraw > 0 {
		visits = append(visits, NeededVisit{
			Location: "bank",
			Hours:    0.5,
			Value:    30,
			Reason:   "banking",
		})
	}

	if p.HousingTier > world.HousingHomeless && p.WeeksSinceRent > 0 {
		owed := world.RentByTier[p.HousingTier] * p.WeeksSinceRent
		if p.Gold >= owed {
			value := 40.0
			if p.WeeksSinceRent >= ctx.Tun.EvictionGraceWeeks {
				value = 95
			}
			visits = append(visits, NeededVisit{
				Location: "landlord",
				Hours:    0.5,
				Value:    value,
				Reason:   "pay rent",
			})
		}
	}

	return visits
}

// BuildTurnPlan greedily routes the errands. At each step it picks
// the unvisited location group with the best total value per hour
// (travel included) that still fits, then batches every errand
// there.
func BuildTurnPlan(ctx *ActionContext) TurnPlan {
	visits := NeededVisits(ctx)
	groups := map[string][]NeededVisit{}
	var order []string
	for _, v := range visits {
		if _, seen := groups[v.Location]; !seen {
			order = append(order, v.Location)
		}
		groups[v.Location] = append(groups[v.Location], v)
	}

	plan := TurnPlan{}
	remaining := ctx.Player.TimeRemaining
	at := ctx.Player.Location
	taken := map[string]bool{}

	for {
		bestLoc, bestScore := "", 0.0
		var bestTravel, bestHours float64
		for _, loc := range order {
			if taken[loc] {
				continue
			}
			travel := 0.0
			if ctx.MoveCost != nil {
				travel = ctx.MoveCost(at, loc)
			}
			var hours, value float64
			for _, v := range groups[loc] {
				hours += v.Hours
				value += v.Value
			}
			if travel+hours > remaining {
				continue
			}
			score := value / (travel + hours)
			if score > bestScore {
				bestLoc, bestScore = loc, score
				bestTravel, bestHours = travel, hours
			}
		}
		if bestLoc == "" {
			break
		}
		taken[bestLoc] = true
		plan.Stops = append(plan.Stops, PlannedStop{
			Location: bestLoc,
			Travel:   bestTravel,
			Visits:   groups[bestLoc],
		})
		for _, v := range groups[bestLoc] {
			plan.ExpectedValue += v.Value
		}
		plan.TotalHours += bestTravel + bestHours
		remaining -= bestTravel + bestHours
		at = bestLoc
	}

	plan.IdleHours = remaining
	return plan
}
