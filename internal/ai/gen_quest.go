package ai

import (
	"fmt"

	"guildlife.ai/internal/sim/world"
)

// Quest/dungeon generator: guild membership, gear, the quest cycle
// and bounded dungeon crawling.

const (
	maxDungeonAttemptsPerTurn = 2
	minDungeonHealth          = 20
)

func GenerateQuestActions(ctx *ActionContext) []AIAction {
	p := ctx.Player
	var out []AIAction

	if ShouldBuyGuildPass(p, ctx.Goals) && ctx.timeFor("guild", 0.5) {
		out = append(out, AIAction{
			Type:        ActBuyGuildPass,
			Location:    "guild",
			Priority:    56 * ctx.Profile.Combat,
			Details:     BuyDetails{Cost: world.GuildPassPrice},
			Description: "buy a guild pass",
		})
	}

	if def, ok := NextEquipmentUpgrade(p, ctx.Cats); ok && ctx.timeFor(def.Shop, 0.5) {
		out = append(out, AIAction{
			Type:        ActBuyEquipment,
			Location:    def.Shop,
			Priority:    49 * ctx.Profile.Combat,
			Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
			Description: fmt.Sprintf("upgrade to %s", def.Name),
		})
	}

	if p.ActiveQuest == "" {
		if q, ok := BestQuest(p, ctx.Cats, ctx.Settings); ok && ctx.timeFor("guild", 0.5) {
			t := ActTakeQuest
			if q.Kind == "bounty" {
				t = ActTakeBounty
			}
			out = append(out, AIAction{
				Type:        t,
				Location:    "guild",
				Priority:    53 * ctx.Profile.Combat,
				Details:     QuestDetails{QuestID: q.ID},
				Description: fmt.Sprintf("sign up for %q", q.Title),
			})
		}
	} else {
		q := ctx.Cats.Quests.ByID[p.ActiveQuest]
		if p.TimeRemaining >= q.Hours && q.HealthRisk <= p.Health-20 {
			out = append(out, AIAction{
				Type:        ActCompleteQuest,
				Location:    p.Location,
				Priority:    61 * ctx.Profile.Combat,
				Details:     QuestDetails{QuestID: q.ID},
				Description: fmt.Sprintf("finish the quest %q", q.Title),
			})
		}
	}

	if floor, ok := BestDungeonFloor(p, ctx.Cats, ctx.Settings); ok &&
		p.DungeonAttemptsThisTurn < maxDungeonAttemptsPerTurn &&
		p.Health > minDungeonHealth && len(p.CompletedDegrees) > 0 {
		def := ctx.Cats.Dungeons.ByFloor[floor]
		if ctx.timeFor("dungeon", def.Hours) {
			out = append(out, AIAction{
				Type:        ActExploreDungeon,
				Location:    "dungeon",
				Priority:    51 * ctx.Profile.Combat * ctx.Profile.DungeonRisk,
				Details:     DungeonDetails{Floor: floor},
				Description: fmt.Sprintf("delve floor %d", floor),
			})
		}
	}

	return out
}
