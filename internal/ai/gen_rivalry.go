package ai

import (
	"fmt"

	"guildlife.ai/internal/sim/world"
)

// Rivalry generator: competitive reactions to the single most
// threatening rival. Easy AI plays solitaire; medium and hard watch
// the table.

const (
	threatOverall    = 0.70
	threatSingleGoal = 0.85
)

func GenerateRivalryActions(ctx *ActionContext) []AIAction {
	if ctx.Settings.PlanningDepth < 2 || len(ctx.Rivals) == 0 {
		return nil
	}
	p := ctx.Player

	var threat *world.Player
	var threatGP GoalProgress
	bestOverall := -1.0
	for _, r := range ctx.Rivals {
		gp := CalculateGoalProgress(r, ctx.Goals, ctx.StockPrices)
		if gp.Overall > bestOverall {
			threat, threatGP, bestOverall = r, gp, gp.Overall
		}
	}
	if threat == nil {
		return nil
	}

	threatening := threatGP.Overall >= threatOverall
	if !threatening {
		for _, name := range goalOrder {
			e := threatGP.Get(name)
			if !e.Disabled && e.Progress >= threatSingleGoal && e.Progress < 1.0 {
				threatening = true
				break
			}
		}
	}
	focus := WeakestGoal(threatGP)

	var out []AIAction

	// Steal the rival's job when it pays notably better and we
	// qualify today.
	if threat.CurrentJob != "" && threat.CurrentJob != p.CurrentJob {
		job, ok := ctx.Cats.Jobs.ByID[threat.CurrentJob]
		if ok && float64(job.BaseWage) > float64(p.Wage)*1.2 && JobEligible(p, job) && ctx.timeFor(job.Location, 1) {
			out = append(out, AIAction{
				Type:        ActApplyJob,
				Location:    job.Location,
				Priority:    67 * ctx.Profile.Rivalry,
				Details:     JobDetails{JobID: job.ID, Wage: job.BaseWage},
				Description: fmt.Sprintf("take the %s job out from under %s", job.Title, threat.Name),
			})
		}
	}

	if !threatening {
		return out
	}

	// A threatening earner who hasn't grabbed a quest yet: race them
	// to the best-paying one.
	if (focus == GoalWealth || focus == GoalCareer) && threat.ActiveQuest == "" && p.ActiveQuest == "" {
		if q, ok := BestQuest(p, ctx.Cats, ctx.Settings); ok && ctx.timeFor("guild", 0.5) {
			out = append(out, AIAction{
				Type:        ActTakeQuest,
				Location:    "guild",
				Priority:    63 * ctx.Profile.Rivalry,
				Details:     QuestDetails{QuestID: q.ID},
				Description: fmt.Sprintf("grab %q before %s does", q.Title, threat.Name),
			})
		}
	}

	// A threatening scholar: push our own coursework harder.
	if focus == GoalEducation && len(p.StudyProgress) > 0 {
		for degID := range p.StudyProgress {
			if ctx.timeFor(academyLocation, ctx.Tun.StudySessionHours) {
				out = append(out, AIAction{
					Type:        ActStudy,
					Location:    academyLocation,
					Priority:    64 * ctx.Profile.Rivalry,
					Details:     StudyDetails{DegreeID: degID},
					Description: fmt.Sprintf("keep pace with %s in the academy", threat.Name),
				})
			}
			break
		}
	}

	// Sabotage: hex the rival's workplace so their shifts pay less.
	// Only when flush, and only one location hex per caster sticks.
	if threat.CurrentJob != "" && ctx.Profile.Rivalry > 0.8 && p.Gold > 400 {
		alreadyCast := false
		for _, h := range ctx.Hexes {
			if h.Caster == p.ID && h.Location != "" && h.WeeksRemaining > 0 {
				alreadyCast = true
				break
			}
		}
		if !alreadyCast {
			for _, id := range ctx.Cats.Hexes.IDs {
				def := ctx.Cats.Hexes.ByID[id]
				if def.Target != "location" || def.DropOnly {
					continue
				}
				cost := world.HexPrice(def, 1.0)
				job := ctx.Cats.Jobs.ByID[threat.CurrentJob]
				if p.Gold < cost+200 || !ctx.timeFor("mage", 1) {
					continue
				}
				out = append(out, AIAction{
					Type:        ActCastHex,
					Location:    "mage",
					Priority:    41 * ctx.Profile.Rivalry,
					Details:     HexDetails{HexID: id, Target: job.Location, Cost: cost},
					Description: fmt.Sprintf("hex the %s where %s works", job.Location, threat.Name),
				})
				break
			}
		}
	}

	// A threatening hoarder: shield our own gold. This denies them
	// relative progress, it is not robbery insurance.
	if focus == GoalWealth && p.Gold > 150 && ctx.timeFor("bank", 0.5) {
		amount := p.Gold - 100
		out = append(out, AIAction{
			Type:        ActDeposit,
			Location:    "bank",
			Priority:    59 * ctx.Profile.Rivalry,
			Details:     BankDetails{Amount: amount},
			Description: fmt.Sprintf("vault %d gold while %s hoards", amount, threat.Name),
		})
	}

	return out
}
