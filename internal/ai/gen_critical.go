package ai

import (
	"fmt"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/world"
)

// Critical-needs generator: survival actions with the highest fixed
// priorities (70-100). Evaluated regardless of goal focus so eating
// never loses an argument with strategy.

func cheapestItem(cats *catalogs.Catalogs, kind string) (catalogs.ItemDef, bool) {
	var best catalogs.ItemDef
	found := false
	for _, id := range cats.Items.IDs {
		def := cats.Items.ByID[id]
		if def.Kind != kind {
			continue
		}
		if !found || def.Price < best.Price {
			best, found = def, true
		}
	}
	return best, found
}

func GenerateCriticalActions(ctx *ActionContext) []AIAction {
	p := ctx.Player
	var out []AIAction

	if ctx.Urgency.Food >= 0.6 {
		if def, ok := cheapestItem(ctx.Cats, "FOOD"); ok && p.Gold >= def.Price && ctx.timeFor(def.Shop, 0.5) {
			prio := 78.0
			if ctx.Urgency.Food >= 1.0 {
				prio = 100
			}
			prio *= maxf(ctx.Profile.FoodCaution, 0.5)
			out = append(out, AIAction{
				Type:        ActBuyFood,
				Location:    def.Shop,
				Priority:    prio,
				Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
				Description: fmt.Sprintf("buy %s before going hungry", def.Name),
			})
		}
	}

	if ctx.Urgency.Rent >= 0.5 && p.HousingTier > world.HousingHomeless {
		owed := world.RentByTier[p.HousingTier] * p.WeeksSinceRent
		if owed > 0 && p.Gold >= owed && ctx.timeFor("landlord", 0.5) {
			prio := 72.0
			if ctx.Urgency.Rent >= 1.0 {
				prio = 95
			}
			out = append(out, AIAction{
				Type:        ActPayRent,
				Location:    "landlord",
				Priority:    prio,
				Details:     BankDetails{Amount: owed},
				Description: fmt.Sprintf("pay %d overdue rent", owed),
			})
		}
	}

	if ctx.Urgency.Clothing >= 0.6 {
		if def, ok := cheapestItem(ctx.Cats, "CLOTHING"); ok && p.Gold >= def.Price && ctx.timeFor(def.Shop, 0.5) {
			prio := 71.0
			if ctx.Urgency.Clothing >= 1.0 {
				prio = 90
			}
			out = append(out, AIAction{
				Type:        ActBuyClothing,
				Location:    def.Shop,
				Priority:    prio,
				Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
				Description: "replace worn-out clothes",
			})
		}
	}

	if ctx.Urgency.Health >= 0.5 {
		if def, ok := cheapestItem(ctx.Cats, "HEALING"); ok && p.Gold >= def.Price && ctx.timeFor(def.Shop, 0.5) {
			prio := 74.0
			if ctx.Urgency.Health >= 1.0 {
				prio = 92
			}
			out = append(out, AIAction{
				Type:        ActBuyHealing,
				Location:    def.Shop,
				Priority:    prio,
				Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
				Description: "restore health",
			})
		} else if p.TimeRemaining >= 4 {
			// Broke and hurting: sleep it off.
			prio := 70.0
			if ctx.Urgency.Health >= 1.0 {
				prio = 85
			}
			out = append(out, AIAction{
				Type:        ActRest,
				Location:    p.Location,
				Priority:    prio,
				Details:     RestDetails{Hours: 4},
				Description: "rest to recover health",
			})
		}
	}

	return out
}
