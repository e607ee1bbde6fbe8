package ai

import (
	"log"

	"guildlife.ai/internal/sim/world"
)

// Mutator is the world-mutation API the executor drives. Each call
// is atomic and consistency-preserving; the executor never composes
// partial mutations itself. In networked play only the host's
// executor is ever invoked.
type Mutator interface {
	TravelCost(from, to string) float64

	MovePlayer(id, location string) error
	WorkShift(id string, hours float64) error
	SetJob(id, jobID string) error
	RequestRaise(id string) error
	StudySession(id, degreeID string) error
	Graduate(id, degreeID string) error
	PayRent(id string) error
	SetHousing(id string, tier int) error
	Deposit(id string, amount int) error
	Withdraw(id string, amount int) error
	TakeLoan(id string, amount int) error
	RepayLoan(id string, amount int) error
	BuyItem(id, itemID string, qty int) error
	SellItem(id, itemID string, qty int) error
	BuyStock(id, stockID string, shares int) error
	SellStock(id, stockID string, shares int) error
	BuyGuildPass(id string) error
	TakeQuest(id, questID string) error
	CompleteQuest(id string) error
	ExploreDungeon(id string, floor int) error
	CastHex(id, hexID, target string) error
	CureSickness(id string) error
	Rest(id string, hours float64) error
	AttendFestival(id string, hours float64) error
	EndTurn(id string) error
}

type handlerFunc func(p *world.Player, a AIAction, m Mutator) bool

// Executor dispatches one chosen action to its handler. Priority
// scores are advisory; handlers re-validate every precondition
// against the live player state and answer with a plain bool.
type Executor struct {
	m   Mutator
	log *log.Logger

	handlers map[ActionType]handlerFunc
}

func NewExecutor(m Mutator, logger *log.Logger) *Executor {
	e := &Executor{m: m, log: logger}
	e.handlers = map[ActionType]handlerFunc{
		ActMove:             handleMove,
		ActWork:             handleWork,
		ActApplyJob:         handleApplyJob,
		ActRequestRaise:     handleRequestRaise,
		ActStudy:            handleStudy,
		ActGraduate:         handleGraduate,
		ActBuyFood:          handleBuy,
		ActBuyFreshFood:     handleBuy,
		ActBuyClothing:      handleBuy,
		ActBuyHealing:       handleBuy,
		ActBuyTicket:        handleBuy,
		ActBuyLottery:       handleBuy,
		ActBuyItem:          handleBuy,
		ActBuyEquipment:     handleBuy,
		ActCureSickness:     handleCureSickness,
		ActRest:             handleRest,
		ActPayRent:          handlePayRent,
		ActUpgradeHousing:   handleSetHousing,
		ActDowngradeHousing: handleSetHousing,
		ActGoHomeless:       handleSetHousing,
		ActDeposit:          handleDeposit,
		ActWithdraw:         handleWithdraw,
		ActTakeLoan:         handleTakeLoan,
		ActRepayLoan:        handleRepayLoan,
		ActBuyStock:         handleBuyStock,
		ActSellStock:        handleSellStock,
		ActSellItem:         handleSellItem,
		ActPawnItem:         handleSellItem,
		ActBuyGuildPass:     handleBuyGuildPass,
		ActTakeQuest:        handleTakeQuest,
		ActTakeBounty:       handleTakeQuest,
		ActCompleteQuest:    handleCompleteQuest,
		ActExploreDungeon:   handleExploreDungeon,
		ActCastHex:          handleCastHex,
		ActAttendFestival:   handleAttendFestival,
		ActEndTurn:          handleEndTurn,
	}
	return e
}

// Execute runs one action. A panic inside a handler is contained
// here: logged with the action type and player, reported as a plain
// failure, never allowed to kill the turn loop.
func (e *Executor) Execute(p *world.Player, a AIAction) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if e.log != nil {
				e.log.Printf("executor: panic in %s for %s: %v", a.Type, p.Name, r)
			}
			ok = false
		}
	}()
	h := e.handlers[a.Type]
	if h == nil {
		if e.log != nil {
			e.log.Printf("executor: no handler for %s", a.Type)
		}
		return false
	}
	return h(p, a, e.m)
}

// ensureAt walks the player to the action's location if needed.
func ensureAt(p *world.Player, loc string, m Mutator) bool {
	if loc == "" || p.Location == loc {
		return true
	}
	return m.MovePlayer(p.ID, loc) == nil
}

func handleMove(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(MoveDetails)
	if !ok {
		return false
	}
	return m.MovePlayer(p.ID, d.To) == nil
}

func handleWork(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(WorkDetails)
	if !ok || p.CurrentJob != d.JobID {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.WorkShift(p.ID, d.Hours) == nil
}

func handleApplyJob(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(JobDetails)
	if !ok || p.CurrentJob == d.JobID {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.SetJob(p.ID, d.JobID) == nil
}

func handleRequestRaise(p *world.Player, a AIAction, m Mutator) bool {
	if p.CurrentJob == "" || p.ShiftsAtJob < 3 || p.Dependability < 30 {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.RequestRaise(p.ID) == nil
}

func handleStudy(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(StudyDetails)
	if !ok || p.HasDegree(d.DegreeID) {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.StudySession(p.ID, d.DegreeID) == nil
}

func handleGraduate(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(StudyDetails)
	if !ok {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.Graduate(p.ID, d.DegreeID) == nil
}

func handleBuy(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(BuyDetails)
	if !ok || d.ItemID == "" {
		return false
	}
	qty := d.Qty
	if qty <= 0 {
		qty = 1
	}
	if p.Gold < d.Cost*qty {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.BuyItem(p.ID, d.ItemID, qty) == nil
}

func handleCureSickness(p *world.Player, a AIAction, m Mutator) bool {
	if !p.Sick {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.CureSickness(p.ID) == nil
}

func handleRest(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(RestDetails)
	if !ok || d.Hours <= 0 {
		return false
	}
	return m.Rest(p.ID, d.Hours) == nil
}

func handlePayRent(p *world.Player, a AIAction, m Mutator) bool {
	if p.WeeksSinceRent == 0 {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.PayRent(p.ID) == nil
}

func handleSetHousing(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(HousingDetails)
	if !ok || d.Tier == p.HousingTier {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.SetHousing(p.ID, d.Tier) == nil
}

func handleDeposit(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(BankDetails)
	if !ok || d.Amount <= 0 || p.Gold < d.Amount {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.Deposit(p.ID, d.Amount) == nil
}

func handleWithdraw(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(BankDetails)
	if !ok || d.Amount <= 0 || p.Savings < d.Amount {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.Withdraw(p.ID, d.Amount) == nil
}

func handleTakeLoan(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(LoanDetails)
	if !ok || d.Amount <= 0 || p.LoanAmount > 0 {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.TakeLoan(p.ID, d.Amount) == nil
}

func handleRepayLoan(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(LoanDetails)
	if !ok || d.Amount <= 0 || p.LoanAmount == 0 || p.Gold < d.Amount {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.RepayLoan(p.ID, d.Amount) == nil
}

func handleBuyStock(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(StockDetails)
	if !ok || d.Shares <= 0 || p.Gold < d.Shares*d.Price {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.BuyStock(p.ID, d.StockID, d.Shares) == nil
}

func handleSellStock(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(StockDetails)
	if !ok || d.Shares <= 0 || p.Shares[d.StockID] < d.Shares {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.SellStock(p.ID, d.StockID, d.Shares) == nil
}

func handleSellItem(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(BuyDetails)
	if !ok || d.ItemID == "" || p.Items[d.ItemID] <= 0 {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	qty := d.Qty
	if qty <= 0 {
		qty = 1
	}
	return m.SellItem(p.ID, d.ItemID, qty) == nil
}

func handleBuyGuildPass(p *world.Player, a AIAction, m Mutator) bool {
	if p.GuildPass || p.Gold < world.GuildPassPrice {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.BuyGuildPass(p.ID) == nil
}

func handleTakeQuest(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(QuestDetails)
	if !ok || !p.GuildPass || p.ActiveQuest != "" {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.TakeQuest(p.ID, d.QuestID) == nil
}

func handleCompleteQuest(p *world.Player, a AIAction, m Mutator) bool {
	if p.ActiveQuest == "" {
		return false
	}
	return m.CompleteQuest(p.ID) == nil
}

func handleExploreDungeon(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(DungeonDetails)
	if !ok || p.DungeonAttemptsThisTurn >= maxDungeonAttemptsPerTurn || p.Health <= minDungeonHealth {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.ExploreDungeon(p.ID, d.Floor) == nil
}

func handleCastHex(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(HexDetails)
	if !ok || d.Target == "" {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.CastHex(p.ID, d.HexID, d.Target) == nil
}

func handleAttendFestival(p *world.Player, a AIAction, m Mutator) bool {
	d, ok := a.Details.(RestDetails)
	if !ok || d.Hours <= 0 {
		return false
	}
	if !ensureAt(p, a.Location, m) {
		return false
	}
	return m.AttendFestival(p.ID, d.Hours) == nil
}

func handleEndTurn(p *world.Player, a AIAction, m Mutator) bool {
	return m.EndTurn(p.ID) == nil
}
