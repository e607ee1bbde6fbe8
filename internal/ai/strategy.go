package ai

import (
	"sort"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
	"guildlife.ai/internal/sim/world"
)

// Strategy library: narrow stateless questions the generators ask.

func JobEligible(p *world.Player, job catalogs.JobDef) bool {
	for _, d := range job.RequiredDegrees {
		if !p.HasDegree(d) {
			return false
		}
	}
	return p.ClothingTier >= job.MinClothingTier &&
		p.Experience >= job.MinExperience &&
		p.Dependability >= job.MinDependability
}

// BestAvailableJob returns the highest-wage job the player qualifies
// for right now, excluding the current one. Ties break away from
// jobs a rival already holds.
func BestAvailableJob(p *world.Player, cats *catalogs.Catalogs, rivals []*world.Player) (catalogs.JobDef, bool) {
	held := map[string]bool{}
	for _, r := range rivals {
		if r.CurrentJob != "" {
			held[r.CurrentJob] = true
		}
	}
	var best catalogs.JobDef
	found := false
	for _, id := range cats.Jobs.IDs {
		job := cats.Jobs.ByID[id]
		if job.ID == p.CurrentJob || !JobEligible(p, job) {
			continue
		}
		switch {
		case !found, job.BaseWage > best.BaseWage:
			best, found = job, true
		case job.BaseWage == best.BaseWage && held[best.ID] && !held[job.ID]:
			best = job
		}
	}
	return best, found
}

// degreeAvailable: not completed, prereqs met.
func degreeAvailable(p *world.Player, deg catalogs.DegreeDef) bool {
	if p.HasDegree(deg.ID) {
		return false
	}
	for _, pre := range deg.Prereqs {
		if !p.HasDegree(pre) {
			return false
		}
	}
	return true
}

// NextDegree picks the degree to pursue. Deep planners score by the
// wage of the best job the degree unlocks (times ten) plus its
// education value; shallow planners just take the cheapest. A degree
// that unlocks nothing falls back to raw education value.
func NextDegree(p *world.Player, cats *catalogs.Catalogs, s Settings) (catalogs.DegreeDef, bool) {
	var best catalogs.DegreeDef
	bestScore := -1.0
	found := false
	for _, id := range cats.Degrees.IDs {
		deg := cats.Degrees.ByID[id]
		if !degreeAvailable(p, deg) {
			continue
		}
		var score float64
		if s.PlanningDepth >= 2 {
			maxWage := 0
			for _, jid := range cats.Jobs.IDs {
				job := cats.Jobs.ByID[jid]
				for _, req := range job.RequiredDegrees {
					if req == deg.ID && job.BaseWage > maxWage {
						maxWage = job.BaseWage
					}
				}
			}
			if maxWage > 0 {
				score = float64(maxWage*10 + DegreePoints)
			} else {
				score = float64(DegreePoints)
			}
		} else {
			score = -float64(deg.Cost) // cheapest wins
		}
		if score > bestScore {
			best, bestScore, found = deg, score, true
		}
	}
	return best, found
}

// BestDungeonFloor scans floors top-down and returns the deepest one
// worth attempting. Deep planners refuse floors where the power
// ratio is below 0.6; an aggressive AI with nothing new to clear
// re-runs its highest cleared floor for the gold.
func BestDungeonFloor(p *world.Player, cats *catalogs.Catalogs, s Settings) (int, bool) {
	for i := len(cats.Dungeons.Floors) - 1; i >= 0; i-- {
		floor := cats.Dungeons.Floors[i]
		def := cats.Dungeons.ByFloor[floor]
		if p.HasClearedFloor(floor) {
			continue
		}
		if floor > 1 && !p.HasClearedFloor(floor-1) {
			continue
		}
		if p.TimeRemaining < def.Hours {
			continue
		}
		if s.PlanningDepth >= 2 && world.PlayerPower(p)/float64(def.BossPower) < 0.6 {
			continue
		}
		return floor, true
	}
	if s.Aggressiveness > 0.5 {
		if top := p.HighestFloorCleared(); top > 0 {
			if def, ok := cats.Dungeons.ByFloor[top]; ok && p.TimeRemaining >= def.Hours {
				return top, true
			}
		}
	}
	return 0, false
}

// BestQuest filters by guild access, time budget and a safety margin
// (risk must leave 20 health to spare), then sorts by gold per hour
// for deep planners, raw gold otherwise.
func BestQuest(p *world.Player, cats *catalogs.Catalogs, s Settings) (catalogs.QuestDef, bool) {
	if !p.GuildPass {
		return catalogs.QuestDef{}, false
	}
	var eligible []catalogs.QuestDef
	for _, id := range cats.Quests.IDs {
		q := cats.Quests.ByID[id]
		if p.GuildRank < q.MinRank {
			continue
		}
		if q.Hours > p.TimeRemaining {
			continue
		}
		if q.HealthRisk > p.Health-20 {
			continue
		}
		eligible = append(eligible, q)
	}
	if len(eligible) == 0 {
		return catalogs.QuestDef{}, false
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if s.PlanningDepth >= 2 {
			return float64(eligible[i].Gold)/eligible[i].Hours > float64(eligible[j].Gold)/eligible[j].Hours
		}
		return eligible[i].Gold > eligible[j].Gold
	})
	return eligible[0], true
}

// BankingMove is either a deposit or a withdrawal, never both.
type BankingMove struct {
	Deposit  int
	Withdraw int
}

// CalculateBankingStrategy keeps a safety float of walking-around
// gold (larger for deep planners) and banks the rest; when broke it
// pulls up to 100 back out of savings.
func CalculateBankingStrategy(p *world.Player, s Settings) BankingMove {
	threshold := 100
	if s.PlanningDepth >= 2 {
		threshold = 200
	}
	if p.Gold > threshold+100 {
		return BankingMove{Deposit: p.Gold - threshold}
	}
	if p.Gold < 50 && p.Savings > 100 {
		w := 100
		if p.Savings < w {
			w = p.Savings
		}
		return BankingMove{Withdraw: w}
	}
	return BankingMove{}
}

// ShouldUpgradeHousing gates on holding six weeks of the new tier's
// rent, covering the two-week deposit plus a four-week cushion.
func ShouldUpgradeHousing(p *world.Player) (int, bool) {
	next := p.HousingTier + 1
	if next > world.HousingNoble {
		return 0, false
	}
	need := world.RentByTier[next] * 6
	if p.Gold+p.Savings >= need {
		return next, true
	}
	return 0, false
}

// ShouldBuyGuildPass: adventure-minded players buy in as soon as the
// pass leaves a comfortable buffer.
func ShouldBuyGuildPass(p *world.Player, goals world.Goals) bool {
	if p.GuildPass {
		return false
	}
	if goals.Adventure <= 0 && p.Gold < world.GuildPassPrice*3 {
		return false
	}
	return p.Gold >= world.GuildPassPrice+100
}

// NextEquipmentUpgrade returns the cheapest equipment item that
// strictly improves combat power, if it fits the budget with a
// buffer.
func NextEquipmentUpgrade(p *world.Player, cats *catalogs.Catalogs) (catalogs.ItemDef, bool) {
	var best catalogs.ItemDef
	found := false
	for _, id := range cats.Items.IDs {
		def := cats.Items.ByID[id]
		if def.Kind != "EQUIPMENT" {
			continue
		}
		if def.Attack+def.Defense <= 0 || def.ID == p.Weapon {
			continue
		}
		if def.Attack <= p.Attack/2 {
			continue // sidegrade, not worth the gold
		}
		if p.Gold < def.Price+50 {
			continue
		}
		if !found || def.Price < best.Price {
			best, found = def, true
		}
	}
	return best, found
}

// CashFlowForecast projects gold over the next few turns.
type CashFlowForecast struct {
	ProjectedGold     int
	ShortfallRisk     bool
	SafeBankingAmount int
}

// ForecastCashFlow assumes the player works a normal week when
// employed and pays upkeep either way. SafeBankingAmount is zero
// whenever a shortfall is projected.
func ForecastCashFlow(p *world.Player, tun tuning.Tuning, turns int) CashFlowForecast {
	income := 0
	if p.CurrentJob != "" {
		income = int(float64(p.Wage) * tun.WorkShiftHours * 3) // ~3 shifts a week
	}
	upkeep := world.RentByTier[p.HousingTier] + 25 // rent + food money
	if p.LoanAmount > 0 {
		upkeep += p.LoanAmount * tun.LoanRatePct / 100
	}
	projected := p.Gold + (income-upkeep)*turns
	f := CashFlowForecast{ProjectedGold: projected}
	if projected < upkeep {
		f.ShortfallRisk = true
		return f
	}
	reserve := upkeep * 2
	if p.Gold > reserve {
		f.SafeBankingAmount = p.Gold - reserve
	}
	return f
}
