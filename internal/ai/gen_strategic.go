package ai

import (
	"fmt"

	"guildlife.ai/internal/sim/world"
)

// Strategic generator: career, housing and banking moves that are
// always worth considering no matter which goal is in focus.

func GenerateStrategicActions(ctx *ActionContext) []AIAction {
	p := ctx.Player
	var out []AIAction

	// Job upgrade once the jump is worth the disruption.
	if job, ok := BestAvailableJob(p, ctx.Cats, ctx.Rivals); ok {
		better := p.CurrentJob == "" || float64(job.BaseWage) > float64(p.Wage)*1.1
		if better && ctx.timeFor(job.Location, 1) {
			prio := 65.0
			if p.CurrentJob == "" {
				prio = 68 // unemployed, any job beats none
			}
			out = append(out, AIAction{
				Type:        ActApplyJob,
				Location:    job.Location,
				Priority:    prio,
				Details:     JobDetails{JobID: job.ID, Wage: job.BaseWage},
				Description: fmt.Sprintf("apply for %s at %d gold/hour", job.Title, job.BaseWage),
			})
		}
	}

	// Work scored by value. Deep planners compute real gold per hour
	// including the walk, and only commit when a full shift fits.
	if p.CurrentJob != "" {
		job := ctx.Cats.Jobs.ByID[p.CurrentJob]
		shift := ctx.Tun.WorkShiftHours
		travel := ctx.moveCost(job.Location)
		if ctx.timeFor(job.Location, shift) {
			prio := 50.0
			if ctx.Settings.PlanningDepth >= 2 {
				perHour := float64(p.Wage) * shift / (shift + travel)
				prio = 40 + perHour*ctx.Settings.EfficiencyWeight
				if prio > 66 {
					prio = 66
				}
				// Multi-shift feasibility sweetens the trip.
				if p.TimeRemaining >= travel+2*shift {
					prio += 3
				}
			}
			out = append(out, AIAction{
				Type:        ActWork,
				Location:    job.Location,
				Priority:    prio,
				Details:     WorkDetails{JobID: job.ID, Hours: shift, Wage: p.Wage},
				Description: fmt.Sprintf("work a %s shift", job.Title),
			})
		}
	}

	// The landlord only deals on rent week or when the tenant is in
	// arrears.
	landlordOpen := ctx.Week%ctx.Tun.RentCadenceWeeks == 0 || p.WeeksSinceRent >= ctx.Tun.EvictionGraceWeeks
	if landlordOpen && ctx.timeFor("landlord", 1) {
		if tier, ok := ShouldUpgradeHousing(p); ok && ctx.Urgency.Housing >= 0.3 {
			out = append(out, AIAction{
				Type:        ActUpgradeHousing,
				Location:    "landlord",
				Priority:    45,
				Details:     HousingDetails{Tier: tier},
				Description: "move up to better housing",
			})
		}
		// Can't cover the arrears and eviction is coming: walking out
		// voluntarily dodges the eviction penalty.
		if p.HousingTier > world.HousingHomeless && p.WeeksSinceRent >= ctx.Tun.EvictionGraceWeeks {
			owed := world.RentByTier[p.HousingTier] * p.WeeksSinceRent
			if p.Gold+p.Savings < owed {
				out = append(out, AIAction{
					Type:        ActGoHomeless,
					Location:    "landlord",
					Priority:    69,
					Details:     HousingDetails{Tier: world.HousingHomeless},
					Description: "give up the room before eviction",
				})
			}
		}
		// Rent has become unaffordable: a cheaper room beats arrears.
		if p.HousingTier > world.HousingSlums {
			weekly := world.RentByTier[p.HousingTier]
			if p.Gold < weekly && p.Savings < weekly*2 {
				out = append(out, AIAction{
					Type:        ActDowngradeHousing,
					Location:    "landlord",
					Priority:    47,
					Details:     HousingDetails{Tier: p.HousingTier - 1},
					Description: "downgrade to cheaper housing",
				})
			}
		}
	}

	// Banking. Slums tenants carry robbery exposure, so surplus gold
	// goes to the vault sooner and harder.
	if mv := CalculateBankingStrategy(p, ctx.Settings); ctx.timeFor("bank", 0.5) {
		if mv.Deposit > 0 {
			prio := 44.0
			deposit := mv.Deposit
			if p.HousingTier == world.HousingSlums {
				prio = 56
				keep := int(float64(p.Gold) * ctx.Profile.GoldBufferFrac)
				if p.Gold-keep > deposit {
					deposit = p.Gold - keep
				}
			}
			out = append(out, AIAction{
				Type:        ActDeposit,
				Location:    "bank",
				Priority:    prio,
				Details:     BankDetails{Amount: deposit},
				Description: fmt.Sprintf("deposit %d gold", deposit),
			})
		}
		if mv.Withdraw > 0 {
			out = append(out, AIAction{
				Type:        ActWithdraw,
				Location:    "bank",
				Priority:    64,
				Details:     BankDetails{Amount: mv.Withdraw},
				Description: fmt.Sprintf("withdraw %d gold for expenses", mv.Withdraw),
			})
		}
	}

	return out
}
