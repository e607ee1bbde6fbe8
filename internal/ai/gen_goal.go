package ai

import (
	"fmt"
)

// Goal-directed generator: a dispatch table keyed by the weakest
// goal. Also layers festival opportunities and opportunistic
// graduation, and lets the hard AI chase its second-weakest goal at
// reduced priority alongside the first.

const academyLocation = "academy"

var goalProducers = map[string]func(*ActionContext, float64) []AIAction{
	GoalWealth:    produceWealthActions,
	GoalHappiness: produceHappinessActions,
	GoalEducation: produceEducationActions,
	GoalCareer:    produceCareerActions,
	GoalAdventure: produceAdventureActions,
}

func GenerateGoalActions(ctx *ActionContext) []AIAction {
	var out []AIAction

	if produce := goalProducers[ctx.Weakest]; produce != nil {
		out = append(out, produce(ctx, 1.0)...)
	}

	// Hard AI multitasks: the second-weakest goal gets a discounted
	// pass of its own actions.
	if ctx.Settings.PlanningDepth >= 3 {
		if second := SecondWeakestGoal(ctx.Progress, ctx.Weakest); second != "" {
			if produce := goalProducers[second]; produce != nil {
				out = append(out, produce(ctx, 0.6)...)
			}
		}
	}

	// A finished-but-ungraduated degree is free value at the academy.
	for _, degID := range ctx.Player.ReadyToGraduate {
		if !ctx.timeFor(academyLocation, 1) {
			break
		}
		out = append(out, AIAction{
			Type:        ActGraduate,
			Location:    academyLocation,
			Priority:    88,
			Details:     StudyDetails{DegreeID: degID},
			Description: fmt.Sprintf("graduate with the %s degree", degID),
		})
	}

	if f := ctx.Festival; f != nil && f.Happiness > 0 && ctx.timeFor("plaza", 2) {
		out = append(out, AIAction{
			Type:        ActAttendFestival,
			Location:    "plaza",
			Priority:    48 * ctx.Profile.Social,
			Details:     RestDetails{Hours: 2},
			Description: fmt.Sprintf("enjoy the %s", f.Name),
		})
	}

	return out
}

func produceEducationActions(ctx *ActionContext, scale float64) []AIAction {
	p := ctx.Player
	deg, ok := NextDegree(p, ctx.Cats, ctx.Settings)
	if !ok {
		return nil
	}
	hours := ctx.Tun.StudySessionHours
	prio := 60 * ctx.Profile.Education * scale
	if f := ctx.Festival; f != nil && f.StudyBonus > 0 {
		prio *= 1 + f.StudyBonus
	}
	starting := p.StudyProgress[deg.ID] == 0
	if starting && p.Gold < deg.Cost {
		return nil
	}
	if !ctx.timeFor(academyLocation, hours) {
		return nil
	}
	desc := fmt.Sprintf("study toward the %s degree", deg.ID)
	if starting {
		desc = fmt.Sprintf("enroll in the %s degree", deg.ID)
	}
	return []AIAction{{
		Type:        ActStudy,
		Location:    academyLocation,
		Priority:    prio,
		Details:     StudyDetails{DegreeID: deg.ID},
		Description: desc,
	}}
}

func produceWealthActions(ctx *ActionContext, scale float64) []AIAction {
	p := ctx.Player
	var out []AIAction
	if p.CurrentJob != "" {
		job := ctx.Cats.Jobs.ByID[p.CurrentJob]
		if ctx.timeFor(job.Location, ctx.Tun.WorkShiftHours) {
			prio := 62 * ctx.Profile.Wealth * scale
			if f := ctx.Festival; f != nil && f.WorkBonus > 0 {
				prio *= 1 + f.WorkBonus
			}
			out = append(out, AIAction{
				Type:        ActWork,
				Location:    job.Location,
				Priority:    prio,
				Details:     WorkDetails{JobID: job.ID, Hours: ctx.Tun.WorkShiftHours, Wage: p.Wage},
				Description: fmt.Sprintf("work a shift as %s", job.Title),
			})
		}
	}
	if mv := CalculateBankingStrategy(p, ctx.Settings); mv.Deposit > 0 && ctx.timeFor("bank", 0.5) {
		out = append(out, AIAction{
			Type:        ActDeposit,
			Location:    "bank",
			Priority:    52 * scale,
			Details:     BankDetails{Amount: mv.Deposit},
			Description: fmt.Sprintf("bank %d gold", mv.Deposit),
		})
	}
	return out
}

func produceHappinessActions(ctx *ActionContext, scale float64) []AIAction {
	p := ctx.Player
	var out []AIAction
	if def, ok := cheapestItem(ctx.Cats, "TICKET"); ok && p.Gold >= def.Price*2 && ctx.timeFor(def.Shop, 1) {
		out = append(out, AIAction{
			Type:        ActBuyTicket,
			Location:    def.Shop,
			Priority:    58 * ctx.Profile.Social * scale,
			Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
			Description: fmt.Sprintf("see a show (%s)", def.Name),
		})
	}
	if def, ok := cheapestItem(ctx.Cats, "FRESH_FOOD"); ok && p.Gold >= def.Price*3 && ctx.timeFor(def.Shop, 0.5) {
		out = append(out, AIAction{
			Type:        ActBuyFreshFood,
			Location:    def.Shop,
			Priority:    50 * scale,
			Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
			Description: "treat yourself to fresh food",
		})
	}
	return out
}

func produceCareerActions(ctx *ActionContext, scale float64) []AIAction {
	p := ctx.Player
	var out []AIAction
	if p.CurrentJob != "" {
		job := ctx.Cats.Jobs.ByID[p.CurrentJob]
		if ctx.timeFor(job.Location, ctx.Tun.WorkShiftHours) {
			out = append(out, AIAction{
				Type:        ActWork,
				Location:    job.Location,
				Priority:    60 * scale,
				Details:     WorkDetails{JobID: job.ID, Hours: ctx.Tun.WorkShiftHours, Wage: p.Wage},
				Description: fmt.Sprintf("build dependability as %s", job.Title),
			})
		}
		if p.ShiftsAtJob >= 3 && p.Dependability >= 30 && ctx.timeFor(job.Location, 1) {
			out = append(out, AIAction{
				Type:        ActRequestRaise,
				Location:    job.Location,
				Priority:    55 * scale,
				Details:     JobDetails{JobID: job.ID, Wage: p.Wage},
				Description: "ask the boss for a raise",
			})
		}
	}
	if job, ok := BestAvailableJob(p, ctx.Cats, ctx.Rivals); ok && job.BaseWage > p.Wage {
		if ctx.timeFor(job.Location, 1) {
			out = append(out, AIAction{
				Type:        ActApplyJob,
				Location:    job.Location,
				Priority:    63 * scale,
				Details:     JobDetails{JobID: job.ID, Wage: job.BaseWage},
				Description: fmt.Sprintf("apply for %s", job.Title),
			})
		}
	}
	return out
}

func produceAdventureActions(ctx *ActionContext, scale float64) []AIAction {
	p := ctx.Player
	var out []AIAction
	if q, ok := BestQuest(p, ctx.Cats, ctx.Settings); ok && p.ActiveQuest == "" && ctx.timeFor("guild", 0.5) {
		out = append(out, AIAction{
			Type:        ActTakeQuest,
			Location:    "guild",
			Priority:    58 * ctx.Profile.Combat * scale,
			Details:     QuestDetails{QuestID: q.ID},
			Description: fmt.Sprintf("take the quest %q", q.Title),
		})
	}
	if floor, ok := BestDungeonFloor(p, ctx.Cats, ctx.Settings); ok &&
		p.DungeonAttemptsThisTurn < maxDungeonAttemptsPerTurn && p.Health > minDungeonHealth &&
		len(p.CompletedDegrees) > 0 {
		def := ctx.Cats.Dungeons.ByFloor[floor]
		if ctx.timeFor("dungeon", def.Hours) {
			prio := 62 * ctx.Profile.Combat * ctx.Profile.DungeonRisk * scale
			if f := ctx.Festival; f != nil && f.DungeonBonus > 0 {
				prio *= 1 + f.DungeonBonus
			}
			out = append(out, AIAction{
				Type:        ActExploreDungeon,
				Location:    "dungeon",
				Priority:    prio,
				Details:     DungeonDetails{Floor: floor},
				Description: fmt.Sprintf("explore dungeon floor %d (%s)", floor, def.Name),
			})
		}
	}
	return out
}
