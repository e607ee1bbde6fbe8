package ai

import (
	"testing"

	"guildlife.ai/internal/sim/world"
)

func TestGenerateCommitmentPlan_Gates(t *testing.T) {
	cats := testCatalogs(t)
	vt := NewVelocityTracker()
	p := world.NewPlayer("ai_1", "Grimwald", true)
	gp := progressOf(map[string]float64{GoalWealth: 0.7})

	if plan := GenerateCommitmentPlan(p, gp, testSettings(1), 5, cats, vt, 3); plan != nil {
		t.Fatalf("shallow planners must not commit, got %+v", plan)
	}

	p.Food = 5
	if plan := GenerateCommitmentPlan(p, gp, testSettings(3), 5, cats, vt, 3); plan != nil {
		t.Fatalf("crisis must block commitment, got %+v", plan)
	}
}

func TestGenerateCommitmentPlan_WealthSprintFirst(t *testing.T) {
	cats := testCatalogs(t)
	vt := NewVelocityTracker()
	p := world.NewPlayer("ai_1", "Grimwald", true)
	gp := progressOf(map[string]float64{
		GoalWealth:    0.65,
		GoalEducation: 0.1,
		GoalCareer:    0.1,
	})

	plan := GenerateCommitmentPlan(p, gp, testSettings(2), 8, cats, vt, 3)
	if plan == nil || plan.Type != CommitWealthSprint {
		t.Fatalf("0.65 wealth should trigger a sprint, got %+v", plan)
	}
	if plan.StartTurn != 8 || plan.MaxDuration != 4 || plan.PriorityBonus != 30 {
		t.Fatalf("sprint shape wrong: %+v", plan)
	}

	// A stuck wealth goal falls through to the next plan in order.
	for i := 0; i < 4; i++ {
		vt.Record(p.ID, GoalWealth, 0.65)
	}
	plan = GenerateCommitmentPlan(p, gp, testSettings(2), 8, cats, vt, 3)
	if plan == nil || plan.Type == CommitWealthSprint {
		t.Fatalf("stuck wealth must yield a different plan, got %+v", plan)
	}
}

func TestGenerateCommitmentPlan_SaveHousing(t *testing.T) {
	cats := testCatalogs(t)
	vt := NewVelocityTracker()
	p := world.NewPlayer("ai_1", "Grimwald", true)
	// Halfway to six weeks of noble rent, with every cheaper plan
	// ahead of it disqualified.
	need := world.RentByTier[world.HousingNoble] * 6
	p.Gold = need / 2
	gp := progressOf(map[string]float64{
		GoalWealth:    0.2,
		GoalEducation: 0.9,
		GoalAdventure: 0.9,
		GoalCareer:    0.9,
	})

	plan := GenerateCommitmentPlan(p, gp, testSettings(2), 8, cats, vt, 3)
	if plan == nil || plan.Type != CommitSaveHousing {
		t.Fatalf("housing fund should trigger save-housing, got %+v", plan)
	}
}

func TestGenerateCommitmentPlan_DegreeTargetsFirstPrereq(t *testing.T) {
	cats := testCatalogs(t)
	vt := NewVelocityTracker()
	p := world.NewPlayer("ai_1", "Grimwald", true)
	p.Gold = 1000
	gp := progressOf(map[string]float64{
		GoalWealth:    0.2,
		GoalEducation: 0.2,
	})

	plan := GenerateCommitmentPlan(p, gp, testSettings(3), 8, cats, vt, 3)
	if plan == nil || plan.Type != CommitEarnDegree {
		t.Fatalf("expected earn-degree, got %+v", plan)
	}
	if deg, ok := cats.Degrees.ByID[plan.TargetID]; !ok || len(deg.Prereqs) != 0 {
		t.Fatalf("deep planner must commit to an unlocked first stage, got %q", plan.TargetID)
	}
}

func TestIsCommitmentValid_Expiry(t *testing.T) {
	p := world.NewPlayer("ai_1", "Grimwald", true)
	gp := progressOf(map[string]float64{GoalWealth: 0.7})
	plan := &CommitmentPlan{Type: CommitWealthSprint, PlayerID: p.ID, StartTurn: 1, MaxDuration: 2}

	if !IsCommitmentValid(plan, p, gp, 2, 3) {
		t.Fatalf("plan should still be valid one week in")
	}
	if IsCommitmentValid(plan, p, gp, 3, 3) {
		t.Fatalf("plan must expire at max duration")
	}
}

func TestIsCommitmentValid_Completion(t *testing.T) {
	p := world.NewPlayer("ai_1", "Grimwald", true)
	plan := &CommitmentPlan{Type: CommitWealthSprint, PlayerID: p.ID, StartTurn: 5, MaxDuration: 4}

	gp := progressOf(map[string]float64{GoalWealth: 1.0})
	if IsCommitmentValid(plan, p, gp, 6, 3) {
		t.Fatalf("a finished sprint is complete")
	}

	degPlan := &CommitmentPlan{Type: CommitEarnDegree, PlayerID: p.ID, TargetID: "letters", StartTurn: 5, MaxDuration: 6}
	if !IsCommitmentValid(degPlan, p, gp, 6, 3) {
		t.Fatalf("degree plan should run until graduation")
	}
	p.CompletedDegrees = []string{"letters"}
	if IsCommitmentValid(degPlan, p, gp, 6, 3) {
		t.Fatalf("graduation completes the degree plan")
	}

	runPlan := &CommitmentPlan{Type: CommitDungeonRun, PlayerID: p.ID, StartTurn: 5, MaxDuration: 4}
	gp = progressOf(map[string]float64{GoalAdventure: 0.4})
	p.Health = 20
	if IsCommitmentValid(runPlan, p, gp, 6, 3) {
		t.Fatalf("a wounded player must drop the dungeon plan")
	}

	if IsCommitmentValid(nil, p, gp, 6, 3) {
		t.Fatalf("nil plan is never valid")
	}
}

func TestCommitmentBonus_AllowList(t *testing.T) {
	plan := &CommitmentPlan{
		Type:           CommitWealthSprint,
		AlignedActions: []ActionType{ActWork, ActDeposit},
		PriorityBonus:  30,
	}
	if got := CommitmentBonus(plan, ActWork); got != 30 {
		t.Fatalf("aligned action bonus: got %v", got)
	}
	if got := CommitmentBonus(plan, ActStudy); got != 0 {
		t.Fatalf("unaligned action must get nothing, got %v", got)
	}
	if got := CommitmentBonus(nil, ActWork); got != 0 {
		t.Fatalf("nil plan bonus: got %v", got)
	}
}
