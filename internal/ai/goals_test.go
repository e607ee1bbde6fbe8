package ai

import (
	"testing"

	"guildlife.ai/internal/sim/world"
)

func TestCalculateGoalProgress_Basics(t *testing.T) {
	p := world.NewPlayer("p1", "x", false)
	p.Gold = 500
	p.Savings = 300
	p.LoanAmount = 100
	p.Shares = map[string]int{"ironworks": 4}
	p.CompletedDegrees = []string{"letters"}
	p.CurrentJob = "street_sweeper"
	p.Dependability = 40
	p.CompletedQuests = 3
	p.FloorsCleared = []int{1, 2}

	prices := map[string]int{"ironworks": 50}
	gp := CalculateGoalProgress(p, testGoals(), prices)

	// 500+300-100+4*50 = 900 of 2000.
	if got := gp.Get(GoalWealth).Progress; got != 0.45 {
		t.Fatalf("wealth progress: got %v, want 0.45", got)
	}
	// One degree is 9 points toward the 27-point target.
	if got, want := gp.Get(GoalEducation).Progress, 9.0/27.0; got != want {
		t.Fatalf("education progress: got %v, want %v", got, want)
	}
	if got := gp.Get(GoalAdventure).Progress; got != 0.5 {
		t.Fatalf("adventure progress: got %v, want 0.5 (3 quests + 2 floors of 10)", got)
	}

	// Employed career progress is dependability-driven.
	if got := gp.Get(GoalCareer).Progress; got != 1.0 {
		t.Fatalf("career progress: got %v, want clamped 1.0", got)
	}

	// Overall averages the five active goals in the fixed goal order.
	sum := 0.0
	for _, name := range []string{GoalWealth, GoalHappiness, GoalEducation, GoalCareer, GoalAdventure} {
		sum += gp.Get(name).Progress
	}
	if got, want := gp.Overall, sum/5; got != want {
		t.Fatalf("overall progress: got %v, want %v", got, want)
	}
	p.CurrentJob = ""
	gp = CalculateGoalProgress(p, testGoals(), prices)
	if got := gp.Get(GoalCareer).Progress; got != 0 {
		t.Fatalf("jobless career progress: got %v, want 0", got)
	}
}

func TestCalculateGoalProgress_DisabledGoalPinsComplete(t *testing.T) {
	p := world.NewPlayer("p1", "x", false)
	goals := testGoals()
	goals.Adventure = 0

	gp := CalculateGoalProgress(p, goals, nil)
	e := gp.Get(GoalAdventure)
	if !e.Disabled || e.Progress != 1 {
		t.Fatalf("disabled goal must pin to complete, got %+v", e)
	}
	if w := WeakestGoal(gp); w == GoalAdventure {
		t.Fatalf("disabled goal must never be selected")
	}
}

func TestCalculateGoalProgress_NilPricesIgnoreHoldings(t *testing.T) {
	p := world.NewPlayer("p1", "x", false)
	p.Gold = 0
	p.Shares = map[string]int{"ironworks": 100}
	gp := CalculateGoalProgress(p, testGoals(), nil)
	if got := gp.Get(GoalWealth).Current; got != 0 {
		t.Fatalf("holdings without prices must count for nothing, got %v", got)
	}
}

func TestWeakestGoal_SprintRule(t *testing.T) {
	// 0.85 is nearly done: it outranks the 0.2 goal.
	gp := progressOf(map[string]float64{
		GoalWealth:    0.85,
		GoalHappiness: 0.2,
		GoalEducation: 0.5,
	})
	if got := WeakestGoal(gp); got != GoalWealth {
		t.Fatalf("sprint rule: got %s, want wealth", got)
	}

	// A finished goal is past sprinting; lowest wins.
	gp = progressOf(map[string]float64{
		GoalWealth:    1.0,
		GoalHappiness: 0.2,
		GoalEducation: 0.5,
	})
	if got := WeakestGoal(gp); got != GoalHappiness {
		t.Fatalf("lowest progress: got %s, want happiness", got)
	}

	// Ties go to the earlier goal in the fixed order.
	gp = progressOf(map[string]float64{
		GoalHappiness: 0.3,
		GoalEducation: 0.3,
	})
	if got := WeakestGoal(gp); got != GoalHappiness {
		t.Fatalf("tie break: got %s, want happiness", got)
	}
}

func TestSecondWeakestGoal(t *testing.T) {
	gp := progressOf(map[string]float64{
		GoalWealth:    0.1,
		GoalHappiness: 0.3,
		GoalEducation: 1.0,
	})
	if got := SecondWeakestGoal(gp, GoalWealth); got != GoalHappiness {
		t.Fatalf("second weakest: got %s, want happiness", got)
	}
	// Completed goals never come second.
	gp = progressOf(map[string]float64{
		GoalWealth:    0.1,
		GoalEducation: 1.0,
	})
	if got := SecondWeakestGoal(gp, GoalWealth); got != "" {
		t.Fatalf("no candidate expected, got %s", got)
	}
}

func TestResourceUrgency_Steps(t *testing.T) {
	p := world.NewPlayer("p1", "x", false)
	p.Food = 10
	p.Clothing = 0
	p.Health = 20
	p.WeeksSinceRent = 3

	u := CalculateResourceUrgency(p, 3)
	if u.Food != 1.0 || u.Clothing != 1.0 || u.Health != 1.0 || u.Rent != 1.0 {
		t.Fatalf("critical urgencies expected, got %+v", u)
	}

	p.Food = 40
	p.Health = 40
	p.WeeksSinceRent = 2
	u = CalculateResourceUrgency(p, 3)
	if u.Food != 0.6 || u.Health != 0.5 || u.Rent != 0.5 {
		t.Fatalf("warning urgencies expected, got %+v", u)
	}

	p.HousingTier = world.HousingHomeless
	u = CalculateResourceUrgency(p, 3)
	if u.Rent != 0 {
		t.Fatalf("homeless players owe no rent, got %v", u.Rent)
	}
	if u.Housing != 0.7 {
		t.Fatalf("homelessness should press for housing, got %v", u.Housing)
	}
}

func TestInCrisis(t *testing.T) {
	p := world.NewPlayer("p1", "x", false)
	if InCrisis(p, 3) {
		t.Fatalf("fresh player is not in crisis")
	}
	p.Food = 10
	if !InCrisis(p, 3) {
		t.Fatalf("starvation is a crisis")
	}
	p.Food = 80
	p.LoanDefaulted = true
	p.Gold = 40
	if !InCrisis(p, 3) {
		t.Fatalf("broke defaulter is a crisis")
	}
	p.Gold = 60
	if InCrisis(p, 3) {
		t.Fatalf("defaulted with cash in hand is pressure, not crisis")
	}
}
