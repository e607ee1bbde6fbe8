package ai

import "testing"

func TestVelocityTracker_StuckAfterFlatSamples(t *testing.T) {
	vt := NewVelocityTracker()
	for i := 0; i < 4; i++ {
		vt.Record("p1", GoalWealth, 0.3)
	}
	if !vt.IsStuck("p1", GoalWealth) {
		t.Fatalf("three flat deltas should flag the goal stuck")
	}
	if got := vt.StuckGoals("p1"); len(got) != 1 || got[0] != GoalWealth {
		t.Fatalf("stuck goals: got %v", got)
	}

	// Any real movement clears the counter.
	vt.Record("p1", GoalWealth, 0.5)
	if vt.IsStuck("p1", GoalWealth) {
		t.Fatalf("movement should clear the stuck flag")
	}
}

func TestVelocityTracker_AdjustmentsBoostAndCooldown(t *testing.T) {
	vt := NewVelocityTracker()
	for i := 0; i < 4; i++ {
		vt.Record("p1", GoalEducation, 0.2)
	}

	adj := vt.Adjustments("p1", 10, 3)
	if adj[ActWork] != 1.3 || adj[ActApplyJob] != 1.3 {
		t.Fatalf("compensating actions not boosted: %v", adj)
	}
	if adj[ActStudy] != 0.7 {
		t.Fatalf("failing action not damped: %v", adj)
	}

	// The pivot just happened; the same week asks again and gets
	// nothing.
	if adj := vt.Adjustments("p1", 10, 3); len(adj) != 0 {
		t.Fatalf("pivot cooldown ignored: %v", adj)
	}
	// Two weeks later the cooldown expires.
	if adj := vt.Adjustments("p1", 12, 3); adj[ActWork] != 1.3 {
		t.Fatalf("cooldown should expire after %d weeks: %v", pivotCooldownTurns, adj)
	}
}

func TestVelocityTracker_ShallowPlannersGetNothing(t *testing.T) {
	vt := NewVelocityTracker()
	for i := 0; i < 4; i++ {
		vt.Record("p1", GoalWealth, 0.2)
	}
	if adj := vt.Adjustments("p1", 10, 1); len(adj) != 0 {
		t.Fatalf("depth 1 must get no adjustments: %v", adj)
	}
}

func TestVelocityTracker_Momentum(t *testing.T) {
	vt := NewVelocityTracker()
	// Big steady gains push the EMA well past the momentum threshold.
	for i := 0; i < 5; i++ {
		vt.Record("p1", GoalAdventure, float64(i)*0.2)
	}
	adj := vt.Adjustments("p1", 10, 2)
	if adj[ActExploreDungeon] != 1.1 {
		t.Fatalf("moving goal should earn a momentum bonus: %v", adj)
	}
}

func TestVelocityTracker_Reset(t *testing.T) {
	vt := NewVelocityTracker()
	for i := 0; i < 4; i++ {
		vt.Record("p1", GoalWealth, 0.2)
	}
	vt.Reset()
	if vt.IsStuck("p1", GoalWealth) {
		t.Fatalf("reset must drop all state")
	}
}
