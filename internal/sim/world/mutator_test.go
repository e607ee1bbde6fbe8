package world

import (
	"errors"
	"testing"
)

func TestWorkShift_PayAndStats(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	startGold := p.Gold

	if err := g.SetJob("p1", "street_sweeper"); err != nil {
		t.Fatalf("set job: %v", err)
	}
	if err := g.WorkShift("p1", 6); err != nil {
		t.Fatalf("work: %v", err)
	}
	if want := startGold + 8*6; p.Gold != want {
		t.Fatalf("pay: got %d, want %d", p.Gold, want)
	}
	if p.Dependability != 2 || p.Experience != 1 || p.ShiftsWorked != 1 {
		t.Fatalf("shift stats not updated: %+v", p)
	}
	if p.TimeRemaining != g.tun.HoursPerTurn-6 {
		t.Fatalf("time not spent: %v", p.TimeRemaining)
	}
}

func TestWorkShift_RequiresJobAndLocation(t *testing.T) {
	g := newTestGame(t, 1)
	if err := g.WorkShift("p1", 6); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("jobless work should fail, got %v", err)
	}
	if err := g.SetJob("p1", "market_porter"); err != nil {
		t.Fatalf("set job: %v", err)
	}
	// Still at the plaza; the job is at the market.
	if err := g.WorkShift("p1", 6); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("working away from the workplace should fail, got %v", err)
	}
	if err := g.MovePlayer("p1", "market"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := g.WorkShift("p1", 6); err != nil {
		t.Fatalf("work at the market: %v", err)
	}
}

func TestWorkShift_HexedWagePaysThreeQuarters(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	if err := g.SetJob("p1", "street_sweeper"); err != nil {
		t.Fatalf("set job: %v", err)
	}
	g.Hexes = []*Hex{{HexID: "hex_misfortune", Caster: "p2", Location: "plaza", WeeksRemaining: 2}}

	startGold := p.Gold
	if err := g.WorkShift("p1", 6); err != nil {
		t.Fatalf("work: %v", err)
	}
	if want := startGold + int(8.0*6*0.75); p.Gold != want {
		t.Fatalf("hexed pay: got %d, want %d", p.Gold, want)
	}
}

func TestWorkShift_GarnishesDefaultedWage(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	if err := g.SetJob("p1", "street_sweeper"); err != nil {
		t.Fatalf("set job: %v", err)
	}
	p.LoanAmount = 146
	p.LoanDefaulted = true

	startGold := p.Gold
	if err := g.WorkShift("p1", 6); err != nil {
		t.Fatalf("work: %v", err)
	}
	// 48 earned, a quarter garnished toward the loan.
	if want := startGold + 48 - 12; p.Gold != want {
		t.Fatalf("garnished pay: got %d, want %d", p.Gold, want)
	}
	if p.LoanAmount != 134 {
		t.Fatalf("garnish should pay the loan down: got %d, want 134", p.LoanAmount)
	}

	// Garnishment keeps going until the balance hits zero.
	p.LoanAmount = 5
	if err := g.WorkShift("p1", 6); err != nil {
		t.Fatalf("work: %v", err)
	}
	if p.LoanAmount != 0 || p.LoanDefaulted || p.WeeksSinceLoanPayment != 0 {
		t.Fatalf("cleared loan should lift the default, got %+v", p)
	}
}

func TestSetJob_GatesOnDegreesAndClothing(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]

	if err := g.SetJob("p1", "bank_teller"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("degree gate missing, got %v", err)
	}
	p.CompletedDegrees = []string{"letters", "numbers"}
	p.Experience = 20
	p.Dependability = 30
	p.ClothingTier = 1
	if err := g.SetJob("p1", "bank_teller"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("clothing gate missing, got %v", err)
	}
	p.ClothingTier = 2
	if err := g.SetJob("p1", "bank_teller"); err != nil {
		t.Fatalf("qualified hire refused: %v", err)
	}
	if p.Wage != 22 || p.ShiftsAtJob != 0 {
		t.Fatalf("hire should reset wage and shift count, got %+v", p)
	}
}

func TestStudyToGraduation(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	p.Gold = 500
	deg := g.cats.Degrees.ByID["letters"]

	for i := 0; i < deg.Sessions; i++ {
		if p.TimeRemaining < g.tun.StudySessionHours {
			p.TimeRemaining = g.tun.HoursPerTurn
		}
		if err := g.StudySession("p1", "letters"); err != nil {
			t.Fatalf("session %d: %v", i, err)
		}
	}
	if p.Gold != 500-deg.Cost {
		t.Fatalf("tuition should be charged once, gold=%d", p.Gold)
	}
	if len(p.ReadyToGraduate) != 1 || p.ReadyToGraduate[0] != "letters" {
		t.Fatalf("expected ready to graduate, got %+v", p.ReadyToGraduate)
	}
	if err := g.Graduate("p1", "letters"); err != nil {
		t.Fatalf("graduate: %v", err)
	}
	if !p.HasDegree("letters") || len(p.ReadyToGraduate) != 0 {
		t.Fatalf("graduation bookkeeping wrong: %+v", p)
	}

	// Prereq gate.
	if err := g.StudySession("p1", "arcana"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("prereq gate missing, got %v", err)
	}
}

func TestStudySession_RefusedSessionChargesNoTuition(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	p.Gold = 500
	p.TimeRemaining = 1 // under the session length

	if err := g.StudySession("p1", "letters"); !errors.Is(err, ErrNoTime) {
		t.Fatalf("short session should be refused, got %v", err)
	}
	if p.Gold != 500 || len(p.StudyProgress) != 0 {
		t.Fatalf("refused session must not take tuition: gold=%d progress=%v", p.Gold, p.StudyProgress)
	}

	// The kept tuition still buys the first real session.
	p.TimeRemaining = g.tun.HoursPerTurn
	if err := g.StudySession("p1", "letters"); err != nil {
		t.Fatalf("study: %v", err)
	}
	deg := g.cats.Degrees.ByID["letters"]
	if p.Gold != 500-deg.Cost || p.StudyProgress["letters"] != 1 {
		t.Fatalf("first session should charge tuition once: gold=%d progress=%v", p.Gold, p.StudyProgress)
	}
}

func TestLoanLifecycle(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]

	if err := g.TakeLoan("p1", 100); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("no shifts worked yet, loan should be refused, got %v", err)
	}
	p.ShiftsWorked = 4 // limit 200
	if err := g.TakeLoan("p1", 250); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("over-limit loan should be refused, got %v", err)
	}
	if err := g.TakeLoan("p1", 150); err != nil {
		t.Fatalf("take loan: %v", err)
	}
	if err := g.TakeLoan("p1", 10); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("second loan while outstanding should be refused, got %v", err)
	}
	if err := g.RepayLoan("p1", 1000); err != nil {
		t.Fatalf("repay: %v", err)
	}
	if p.LoanAmount != 0 {
		t.Fatalf("overpayment should clear the loan exactly, got %d", p.LoanAmount)
	}
}

func TestRentAndHousing(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]

	if err := g.PayRent("p1"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("nothing owed yet, got %v", err)
	}
	p.WeeksSinceRent = 2
	p.Gold = 100
	if err := g.PayRent("p1"); err != nil {
		t.Fatalf("pay rent: %v", err)
	}
	if p.Gold != 100-RentByTier[HousingSlums]*2 || p.WeeksSinceRent != 0 {
		t.Fatalf("rent arithmetic wrong: gold=%d weeks=%d", p.Gold, p.WeeksSinceRent)
	}

	p.Gold = RentByTier[HousingLodgings] * 2
	if err := g.SetHousing("p1", HousingLodgings); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if p.Gold != 0 {
		t.Fatalf("upgrade deposit should cost two weeks of rent, gold=%d", p.Gold)
	}
	// Downgrades are free.
	if err := g.SetHousing("p1", HousingSlums); err != nil {
		t.Fatalf("downgrade: %v", err)
	}
}

func TestQuestChainHandoffAndRankUp(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	p.Gold = 500
	p.GuildRank = 1

	if err := g.TakeQuest("p1", "relic_1"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("quests need a guild pass, got %v", err)
	}
	if err := g.BuyGuildPass("p1"); err != nil {
		t.Fatalf("buy pass: %v", err)
	}
	if err := g.TakeQuest("p1", "relic_1"); err != nil {
		t.Fatalf("take quest: %v", err)
	}
	if err := g.CompleteQuest("p1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.ActiveQuest != "relic_2" {
		t.Fatalf("chain should hand off to relic_2, got %q", p.ActiveQuest)
	}
	if p.CompletedQuests != 1 || p.GuildRep == 0 {
		t.Fatalf("completion bookkeeping wrong: %+v", p)
	}
}

func TestExploreDungeon_Gates(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]

	if err := g.ExploreDungeon("p1", 1); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("the catacombs require a degree, got %v", err)
	}
	p.CompletedDegrees = []string{"letters"}
	if err := g.ExploreDungeon("p1", 2); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("floor 2 is locked before floor 1, got %v", err)
	}
	if err := g.ExploreDungeon("p1", 1); err != nil {
		t.Fatalf("floor 1 attempt: %v", err)
	}
	if p.DungeonAttemptsThisTurn != 1 {
		t.Fatalf("attempt counter not bumped")
	}
}

func TestBuyItem_ClothingAndEquipment(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]
	p.Gold = 1000

	if err := g.BuyItem("p1", "wool_doublet", 1); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("buying away from the shop should fail, got %v", err)
	}
	if err := g.MovePlayer("p1", "market"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := g.BuyItem("p1", "wool_doublet", 1); err != nil {
		t.Fatalf("buy clothing: %v", err)
	}
	if p.ClothingTier != 2 || p.Clothing != 100 {
		t.Fatalf("clothing purchase wrong: tier=%d wear=%d", p.ClothingTier, p.Clothing)
	}

	if err := g.MovePlayer("p1", "pawnshop"); err != nil {
		t.Fatalf("move: %v", err)
	}
	atk := p.Attack
	if err := g.BuyItem("p1", "iron_sword", 1); err != nil {
		t.Fatalf("buy sword: %v", err)
	}
	if p.Attack != atk+8 || p.Weapon != "iron_sword" || p.WeaponDurability != 6 {
		t.Fatalf("equipment purchase wrong: %+v", p)
	}
}

func TestCureSickness(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.Players["p1"]

	if err := g.CureSickness("p1"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("healthy cure should fail, got %v", err)
	}
	p.Sick = true
	p.Health = 40
	p.Gold = 100
	if err := g.CureSickness("p1"); err != nil {
		t.Fatalf("cure: %v", err)
	}
	if p.Sick || p.Gold != 40 || p.Health != 60 {
		t.Fatalf("cure bookkeeping wrong: %+v", p)
	}
}
