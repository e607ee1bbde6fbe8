package ai

import (
	"fmt"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/world"
)

// Commitment plans bias action scoring for several turns so the AI
// finishes what it starts instead of thrashing between goals.

type CommitmentType string

const (
	CommitWealthSprint CommitmentType = "wealth-sprint"
	CommitSaveHousing  CommitmentType = "save-housing"
	CommitEarnDegree   CommitmentType = "earn-degree"
	CommitDungeonRun   CommitmentType = "dungeon-run"
	CommitCareerPush   CommitmentType = "career-push"
)

type CommitmentPlan struct {
	Type           CommitmentType
	PlayerID       string
	TargetID       string
	Description    string
	StartTurn      int
	MaxDuration    int
	AlignedActions []ActionType
	PriorityBonus  float64
}

// GenerateCommitmentPlan proposes at most one plan, in strict
// priority order, skipping any plan whose target goal is currently
// stuck (committing to a stalled approach just locks the stall in).
// Shallow planners and players in crisis never commit.
func GenerateCommitmentPlan(p *world.Player, gp GoalProgress, s Settings, week int,
	cats *catalogs.Catalogs, tracker *VelocityTracker, evictionGraceWeeks int) *CommitmentPlan {

	if s.PlanningDepth < 2 || InCrisis(p, evictionGraceWeeks) {
		return nil
	}

	if gp.Get(GoalWealth).Progress >= 0.65 && !gp.Get(GoalWealth).Disabled &&
		gp.Get(GoalWealth).Progress < 1.0 && !tracker.IsStuck(p.ID, GoalWealth) {
		return &CommitmentPlan{
			Type:        CommitWealthSprint,
			PlayerID:    p.ID,
			Description: "sprint the wealth goal home",
			StartTurn:   week,
			MaxDuration: 4,
			AlignedActions: []ActionType{
				ActWork, ActDeposit, ActSellStock, ActCompleteQuest, ActPawnItem,
			},
			PriorityBonus: 30,
		}
	}

	if p.HousingTier < world.HousingNoble && !tracker.IsStuck(p.ID, GoalHappiness) {
		need := world.RentByTier[world.HousingNoble] * 6
		have := p.Gold + p.Savings
		if have >= need/2 && have < need {
			return &CommitmentPlan{
				Type:        CommitSaveHousing,
				PlayerID:    p.ID,
				Description: "save toward noble housing",
				StartTurn:   week,
				MaxDuration: 5,
				AlignedActions: []ActionType{
					ActWork, ActDeposit, ActUpgradeHousing,
				},
				PriorityBonus: 20,
			}
		}
	}

	if gp.Get(GoalEducation).Progress < 0.8 && !gp.Get(GoalEducation).Disabled &&
		!tracker.IsStuck(p.ID, GoalEducation) {
		if deg, ok := NextDegree(p, cats, s); ok {
			// Affordable within roughly three shifts of income.
			income := p.Wage * 18
			if p.Gold+income >= deg.Cost {
				target := deg.ID
				if s.PlanningDepth >= 3 {
					// Commit to the first stage of a prereq chain when
					// the scored degree is still locked behind one.
					if first, ok := firstMissingPrereq(p, cats, deg); ok {
						target = first
					}
				}
				return &CommitmentPlan{
					Type:        CommitEarnDegree,
					PlayerID:    p.ID,
					TargetID:    target,
					Description: fmt.Sprintf("earn the %s degree", target),
					StartTurn:   week,
					MaxDuration: 6,
					AlignedActions: []ActionType{
						ActStudy, ActGraduate, ActWork, ActMove,
					},
					PriorityBonus: 35,
				}
			}
		}
	}

	if !gp.Get(GoalAdventure).Disabled && gp.Get(GoalAdventure).Progress < 0.7 &&
		p.Health >= 50 && !tracker.IsStuck(p.ID, GoalAdventure) {
		return &CommitmentPlan{
			Type:        CommitDungeonRun,
			PlayerID:    p.ID,
			Description: "push a dungeon run",
			StartTurn:   week,
			MaxDuration: 4,
			AlignedActions: []ActionType{
				ActExploreDungeon, ActBuyEquipment, ActBuyHealing, ActTakeQuest, ActCompleteQuest,
			},
			PriorityBonus: 25,
		}
	}

	if gp.Get(GoalCareer).Progress < 0.75 && !gp.Get(GoalCareer).Disabled &&
		!tracker.IsStuck(p.ID, GoalCareer) {
		return &CommitmentPlan{
			Type:        CommitCareerPush,
			PlayerID:    p.ID,
			Description: "build dependability at a better job",
			StartTurn:   week,
			MaxDuration: 4,
			AlignedActions: []ActionType{
				ActWork, ActApplyJob, ActRequestRaise,
			},
			PriorityBonus: 25,
		}
	}

	return nil
}

func firstMissingPrereq(p *world.Player, cats *catalogs.Catalogs, deg catalogs.DegreeDef) (string, bool) {
	for _, pre := range deg.Prereqs {
		if !p.HasDegree(pre) {
			pd := cats.Degrees.ByID[pre]
			if sub, ok := firstMissingPrereq(p, cats, pd); ok {
				return sub, true
			}
			return pre, true
		}
	}
	return "", false
}

// IsCommitmentValid re-checks a plan each turn: it dies on expiry,
// on crisis, and on type-specific completion.
func IsCommitmentValid(plan *CommitmentPlan, p *world.Player, gp GoalProgress, week, evictionGraceWeeks int) bool {
	if plan == nil {
		return false
	}
	if week-plan.StartTurn >= plan.MaxDuration {
		return false
	}
	if InCrisis(p, evictionGraceWeeks) {
		return false
	}
	switch plan.Type {
	case CommitWealthSprint:
		return gp.Get(GoalWealth).Progress < 1.0
	case CommitSaveHousing:
		return p.HousingTier < world.HousingNoble
	case CommitEarnDegree:
		return !p.HasDegree(plan.TargetID)
	case CommitDungeonRun:
		return p.Health >= 30 && gp.Get(GoalAdventure).Progress < 1.0
	case CommitCareerPush:
		return gp.Get(GoalCareer).Progress < 0.9
	}
	return false
}

// CommitmentBonus is added to an action's priority when the action
// advances the plan; everything else gets nothing.
func CommitmentBonus(plan *CommitmentPlan, t ActionType) float64 {
	if plan == nil {
		return 0
	}
	for _, a := range plan.AlignedActions {
		if a == t {
			return plan.PriorityBonus
		}
	}
	return 0
}
