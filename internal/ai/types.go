package ai

import (
	"math/rand"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
	"guildlife.ai/internal/sim/world"
)

// ActionType enumerates everything the AI can decide to do. The set
// is closed: the executor has exactly one handler per type.
type ActionType string

const (
	ActMove             ActionType = "move"
	ActWork             ActionType = "work"
	ActApplyJob         ActionType = "apply-job"
	ActRequestRaise     ActionType = "request-raise"
	ActStudy            ActionType = "study"
	ActGraduate         ActionType = "graduate"
	ActBuyFood          ActionType = "buy-food"
	ActBuyFreshFood     ActionType = "buy-fresh-food"
	ActBuyClothing      ActionType = "buy-clothing"
	ActBuyHealing       ActionType = "buy-healing"
	ActCureSickness     ActionType = "cure-sickness"
	ActRest             ActionType = "rest"
	ActPayRent          ActionType = "pay-rent"
	ActUpgradeHousing   ActionType = "upgrade-housing"
	ActDowngradeHousing ActionType = "downgrade-housing"
	ActGoHomeless       ActionType = "go-homeless"
	ActDeposit          ActionType = "deposit"
	ActWithdraw         ActionType = "withdraw"
	ActTakeLoan         ActionType = "take-loan"
	ActRepayLoan        ActionType = "repay-loan"
	ActBuyStock         ActionType = "buy-stock"
	ActSellStock        ActionType = "sell-stock"
	ActBuyItem          ActionType = "buy-item"
	ActSellItem         ActionType = "sell-item"
	ActPawnItem         ActionType = "pawn-item"
	ActBuyTicket        ActionType = "buy-ticket"
	ActBuyLottery       ActionType = "buy-lottery"
	ActBuyGuildPass     ActionType = "buy-guild-pass"
	ActTakeQuest        ActionType = "take-quest"
	ActTakeBounty       ActionType = "take-bounty"
	ActCompleteQuest    ActionType = "complete-quest"
	ActBuyEquipment     ActionType = "buy-equipment"
	ActExploreDungeon   ActionType = "explore-dungeon"
	ActCastHex          ActionType = "cast-hex"
	ActAttendFestival   ActionType = "attend-festival"
	ActEndTurn          ActionType = "end-turn"
)

// Details is the typed payload of an action; one variant per action
// family so handlers never cast out of an untyped bag.
type Details interface{ isDetails() }

type MoveDetails struct{ To string }

type WorkDetails struct {
	JobID string
	Hours float64
	Wage  int
}

type JobDetails struct {
	JobID string
	Wage  int
}

type StudyDetails struct{ DegreeID string }

type BuyDetails struct {
	ItemID string
	Cost   int
	Qty    int
}

type BankDetails struct{ Amount int }

type LoanDetails struct{ Amount int }

type StockDetails struct {
	StockID string
	Shares  int
	Price   int
}

type HousingDetails struct{ Tier int }

type QuestDetails struct{ QuestID string }

type DungeonDetails struct{ Floor int }

type HexDetails struct {
	HexID  string
	Target string
	Cost   int
}

type RestDetails struct{ Hours float64 }

func (MoveDetails) isDetails()    {}
func (WorkDetails) isDetails()    {}
func (JobDetails) isDetails()     {}
func (StudyDetails) isDetails()   {}
func (BuyDetails) isDetails()     {}
func (BankDetails) isDetails()    {}
func (LoanDetails) isDetails()    {}
func (StockDetails) isDetails()   {}
func (HousingDetails) isDetails() {}
func (QuestDetails) isDetails()   {}
func (DungeonDetails) isDetails() {}
func (HexDetails) isDetails()     {}
func (RestDetails) isDetails()    {}

// AIAction is one scored candidate. Created fresh every decision
// cycle and discarded after execution; Priority is advisory, the
// executor re-validates everything.
type AIAction struct {
	Type        ActionType
	Location    string
	Priority    float64
	Details     Details
	Description string
}

// Generator is one category action generator: a pure function of the
// context snapshot.
type Generator func(*ActionContext) []AIAction

// ActionContext is the immutable snapshot every generator reads.
// Built once per decision cycle.
type ActionContext struct {
	Player   *world.Player
	Goals    world.Goals
	Settings Settings
	Profile  Profile

	Progress GoalProgress
	Urgency  ResourceUrgency
	Weakest  string

	Rivals []*world.Player

	Cats *catalogs.Catalogs
	Tun  tuning.Tuning

	Week        int
	Festival    *catalogs.FestivalDef
	StockPrices map[string]int
	Hexes       []*world.Hex

	// RouteBias nudges actions toward planned stops when the turn
	// planner is driving (hard AI only); keyed by location.
	RouteBias map[string]float64

	MoveCost func(from, to string) float64
	Rand     *rand.Rand
}

func (ctx *ActionContext) moveCost(to string) float64 {
	if ctx.MoveCost == nil {
		return 0
	}
	return ctx.MoveCost(ctx.Player.Location, to)
}

// timeFor reports whether the player can still travel somewhere and
// spend the given hours there.
func (ctx *ActionContext) timeFor(location string, hours float64) bool {
	return ctx.Player.TimeRemaining >= ctx.moveCost(location)+hours
}
