package world

import (
	"fmt"

	"guildlife.ai/internal/sim/catalogs"
)

// This file is the world-mutation API. Each call validates, applies
// one atomic consistency-preserving mutation, and returns an error on
// any unmet precondition. The AI executor and the guest action
// handler both go through these and nothing else.

func (g *Game) spendTime(p *Player, hours float64) error {
	if hours < 0 {
		return fmt.Errorf("spend time: negative hours")
	}
	if p.TimeRemaining < hours {
		return fmt.Errorf("spend time: %w", ErrNoTime)
	}
	p.TimeRemaining -= hours
	return nil
}

func (g *Game) spendGold(p *Player, amount int) error {
	if amount < 0 {
		return fmt.Errorf("spend gold: negative amount")
	}
	if p.Gold < amount {
		return fmt.Errorf("spend gold: %w", ErrNoGold)
	}
	p.Gold -= amount
	return nil
}

// TravelCost returns the hours needed to move between two locations.
func (g *Game) TravelCost(from, to string) float64 {
	return float64(g.cats.Locations.TravelSteps(from, to)) * g.tun.TravelHoursPerStep
}

func (g *Game) MovePlayer(id, location string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if _, ok := g.cats.Locations.ByID[location]; !ok {
		return fmt.Errorf("move: %w: %s", ErrBadTarget, location)
	}
	if err := g.spendTime(p, g.TravelCost(p.Location, location)); err != nil {
		return err
	}
	p.Location = location
	return nil
}

func (g *Game) WorkShift(id string, hours float64) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.CurrentJob == "" {
		return fmt.Errorf("work: %w: no job", ErrNotAllowed)
	}
	job := g.cats.Jobs.ByID[p.CurrentJob]
	if p.Location != job.Location {
		return fmt.Errorf("work: %w: not at %s", ErrNotAllowed, job.Location)
	}
	if p.ClothingTier < job.MinClothingTier {
		return fmt.Errorf("work: %w: clothing below job standard", ErrNotAllowed)
	}
	if err := g.spendTime(p, hours); err != nil {
		return err
	}
	pay := float64(p.Wage) * hours
	if f := g.ActiveFestival(); f != nil && f.WorkBonus > 0 {
		pay *= 1 + f.WorkBonus
	}
	if ActiveHexAt(p.Location, p.ID, g.Hexes) != nil || ActiveHexOn(p.ID, g.Hexes) != nil {
		pay *= 0.75
	}
	earned := int(pay)
	if p.LoanDefaulted {
		garnish := earned * g.tun.GarnishWagePct / 100
		earned -= garnish
		p.LoanAmount -= garnish
		if p.LoanAmount <= 0 {
			p.LoanAmount = 0
			p.LoanDefaulted = false
			p.WeeksSinceLoanPayment = 0
		}
	}
	p.Gold += earned
	p.Dependability = clamp(p.Dependability+2, 0, 100)
	p.Experience++
	p.ShiftsWorked++
	p.ShiftsAtJob++
	return nil
}

func (g *Game) SetJob(id, jobID string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	job, ok := g.cats.Jobs.ByID[jobID]
	if !ok {
		return fmt.Errorf("set job: %w: %s", ErrBadTarget, jobID)
	}
	for _, d := range job.RequiredDegrees {
		if !p.HasDegree(d) {
			return fmt.Errorf("set job: %w: missing degree %s", ErrNotAllowed, d)
		}
	}
	if p.ClothingTier < job.MinClothingTier || p.Experience < job.MinExperience || p.Dependability < job.MinDependability {
		return fmt.Errorf("set job: %w: requirements not met", ErrNotAllowed)
	}
	p.CurrentJob = jobID
	p.Wage = job.BaseWage
	p.ShiftsAtJob = 0
	return nil
}

func (g *Game) RequestRaise(id string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.CurrentJob == "" || p.ShiftsAtJob < 3 || p.Dependability < 30 {
		return fmt.Errorf("raise: %w", ErrNotAllowed)
	}
	if err := g.spendTime(p, 1); err != nil {
		return err
	}
	if g.rng.Intn(100) < p.Dependability {
		raise := p.Wage / 10
		if raise < 1 {
			raise = 1
		}
		p.Wage += raise
		p.AddHappiness(5)
	} else {
		p.AddHappiness(-3)
	}
	p.ShiftsAtJob = 0
	return nil
}

func (g *Game) StudySession(id, degreeID string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	deg, ok := g.cats.Degrees.ByID[degreeID]
	if !ok {
		return fmt.Errorf("study: %w: %s", ErrBadTarget, degreeID)
	}
	if p.HasDegree(degreeID) {
		return fmt.Errorf("study: %w: already hold %s", ErrNotAllowed, degreeID)
	}
	for _, pre := range deg.Prereqs {
		if !p.HasDegree(pre) {
			return fmt.Errorf("study: %w: missing prereq %s", ErrNotAllowed, pre)
		}
	}
	hours := g.tun.StudySessionHours
	if f := g.ActiveFestival(); f != nil && f.StudyBonus > 0 {
		hours /= 1 + f.StudyBonus
	}
	// Check the hours before taking tuition; a refused session must
	// not leave the fee spent with no progress to show for it.
	if p.TimeRemaining < hours {
		return fmt.Errorf("study: %w", ErrNoTime)
	}
	if p.StudyProgress[degreeID] == 0 {
		if err := g.spendGold(p, deg.Cost); err != nil {
			return fmt.Errorf("study: tuition: %w", err)
		}
	}
	if err := g.spendTime(p, hours); err != nil {
		return err
	}
	p.StudyProgress[degreeID]++
	if p.StudyProgress[degreeID] >= deg.Sessions {
		for _, r := range p.ReadyToGraduate {
			if r == degreeID {
				return nil
			}
		}
		p.ReadyToGraduate = append(p.ReadyToGraduate, degreeID)
	}
	return nil
}

func (g *Game) Graduate(id, degreeID string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	idx := -1
	for i, r := range p.ReadyToGraduate {
		if r == degreeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("graduate: %w: %s not finished", ErrNotAllowed, degreeID)
	}
	if err := g.spendTime(p, 1); err != nil {
		return err
	}
	p.ReadyToGraduate = append(p.ReadyToGraduate[:idx], p.ReadyToGraduate[idx+1:]...)
	p.CompletedDegrees = append(p.CompletedDegrees, degreeID)
	delete(p.StudyProgress, degreeID)
	p.AddHappiness(10)
	return nil
}

func (g *Game) PayRent(id string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.HousingTier == HousingHomeless || p.WeeksSinceRent == 0 {
		return fmt.Errorf("rent: %w: nothing owed", ErrNotAllowed)
	}
	owed := RentByTier[p.HousingTier] * p.WeeksSinceRent
	if err := g.spendGold(p, owed); err != nil {
		return err
	}
	p.WeeksSinceRent = 0
	return nil
}

func (g *Game) SetHousing(id string, tier int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if tier < HousingHomeless || tier > HousingNoble || tier == p.HousingTier {
		return fmt.Errorf("housing: %w", ErrBadTarget)
	}
	if tier > p.HousingTier {
		deposit := RentByTier[tier] * 2
		if err := g.spendGold(p, deposit); err != nil {
			return err
		}
	}
	p.HousingTier = tier
	p.WeeksSinceRent = 0
	if tier == HousingHomeless {
		p.AddHappiness(-10)
	}
	return nil
}

func (g *Game) Deposit(id string, amount int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("deposit: %w", ErrBadTarget)
	}
	if err := g.spendGold(p, amount); err != nil {
		return err
	}
	p.Savings += amount
	return nil
}

func (g *Game) Withdraw(id string, amount int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if amount <= 0 || p.Savings < amount {
		return fmt.Errorf("withdraw: %w", ErrBadTarget)
	}
	p.Savings -= amount
	p.Gold += amount
	return nil
}

// TakeLoan grants at most MaxLoanPerShift gold per lifetime shift
// worked, and only when no loan is outstanding.
func (g *Game) TakeLoan(id string, amount int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.LoanAmount > 0 {
		return fmt.Errorf("loan: %w: outstanding loan", ErrNotAllowed)
	}
	limit := p.ShiftsWorked * g.tun.MaxLoanPerShift
	if amount <= 0 || amount > limit {
		return fmt.Errorf("loan: %w: limit %d", ErrNotAllowed, limit)
	}
	p.LoanAmount = amount
	p.Gold += amount
	p.WeeksSinceLoanPayment = 0
	return nil
}

func (g *Game) RepayLoan(id string, amount int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.LoanAmount == 0 {
		return fmt.Errorf("repay: %w: no loan", ErrNotAllowed)
	}
	if amount <= 0 {
		return fmt.Errorf("repay: %w", ErrBadTarget)
	}
	if amount > p.LoanAmount {
		amount = p.LoanAmount
	}
	if err := g.spendGold(p, amount); err != nil {
		return err
	}
	p.LoanAmount -= amount
	p.WeeksSinceLoanPayment = 0
	if p.LoanAmount == 0 {
		p.LoanDefaulted = false
	}
	return nil
}

func (g *Game) itemPrice(def catalogs.ItemDef) int {
	price := def.Price
	if f := g.ActiveFestival(); f != nil && f.ShopDiscount > 0 {
		price = int(float64(price) * (1 - f.ShopDiscount))
	}
	return price
}

func (g *Game) BuyItem(id, itemID string, qty int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	def, ok := g.cats.Items.ByID[itemID]
	if !ok {
		return fmt.Errorf("buy: %w: %s", ErrBadTarget, itemID)
	}
	if qty <= 0 {
		qty = 1
	}
	if def.Shop != "" && p.Location != def.Shop {
		return fmt.Errorf("buy: %w: not at %s", ErrNotAllowed, def.Shop)
	}
	if err := g.spendGold(p, g.itemPrice(def)*qty); err != nil {
		return err
	}
	switch def.Kind {
	case "FOOD", "FRESH_FOOD":
		p.AddFood(def.FoodValue * qty)
		p.AddHappiness(def.Happiness * qty)
	case "CLOTHING":
		p.AddClothing(100)
		if def.ClothingTier > p.ClothingTier {
			p.ClothingTier = def.ClothingTier
		}
	case "HEALING":
		p.AddHealth(def.HealthValue * qty)
	case "TICKET":
		p.AddHappiness(def.Happiness * qty)
	case "LOTTERY":
		p.Items[itemID] += qty
		if g.rng.Intn(100) < 2 {
			p.Gold += def.Price * 100
			p.HadRandomEventThisTurn = true
		}
	case "EQUIPMENT":
		p.Attack += def.Attack
		p.Defense += def.Defense
		p.Weapon = itemID
		p.WeaponDurability = def.Durability
	default:
		p.Items[itemID] += qty
		p.AddHappiness(def.Happiness * qty)
	}
	return nil
}

// SellItem pawns an owned item for its pawn value.
func (g *Game) SellItem(id, itemID string, qty int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	def, ok := g.cats.Items.ByID[itemID]
	if !ok {
		return fmt.Errorf("sell: %w: %s", ErrBadTarget, itemID)
	}
	if qty <= 0 {
		qty = 1
	}
	if p.Items[itemID] < qty {
		return fmt.Errorf("sell: %w: not owned", ErrNotAllowed)
	}
	p.Items[itemID] -= qty
	if p.Items[itemID] == 0 {
		delete(p.Items, itemID)
	}
	value := def.PawnValue
	if value == 0 {
		value = def.Price / 2
	}
	p.Gold += value * qty
	return nil
}

func (g *Game) BuyStock(id, stockID string, shares int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	price, ok := g.StockPrices[stockID]
	if !ok {
		return fmt.Errorf("buy stock: %w: %s", ErrBadTarget, stockID)
	}
	if shares <= 0 {
		return fmt.Errorf("buy stock: %w", ErrBadTarget)
	}
	if err := g.spendGold(p, price*shares); err != nil {
		return err
	}
	p.Shares[stockID] += shares
	return nil
}

func (g *Game) SellStock(id, stockID string, shares int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	price, ok := g.StockPrices[stockID]
	if !ok {
		return fmt.Errorf("sell stock: %w: %s", ErrBadTarget, stockID)
	}
	if shares <= 0 || p.Shares[stockID] < shares {
		return fmt.Errorf("sell stock: %w", ErrNotAllowed)
	}
	p.Shares[stockID] -= shares
	if p.Shares[stockID] == 0 {
		delete(p.Shares, stockID)
	}
	p.Gold += price * shares
	return nil
}

// GuildPassPrice is fixed; the guild does not run festival discounts.
const GuildPassPrice = 150

func (g *Game) BuyGuildPass(id string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.GuildPass {
		return fmt.Errorf("guild pass: %w: already held", ErrNotAllowed)
	}
	if err := g.spendGold(p, GuildPassPrice); err != nil {
		return err
	}
	p.GuildPass = true
	return nil
}

func (g *Game) TakeQuest(id, questID string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	q, ok := g.cats.Quests.ByID[questID]
	if !ok {
		return fmt.Errorf("take quest: %w: %s", ErrBadTarget, questID)
	}
	if !p.GuildPass || p.GuildRank < q.MinRank {
		return fmt.Errorf("take quest: %w", ErrNotAllowed)
	}
	if p.ActiveQuest != "" {
		return fmt.Errorf("take quest: %w: quest in progress", ErrNotAllowed)
	}
	p.ActiveQuest = questID
	return nil
}

func (g *Game) CompleteQuest(id string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if p.ActiveQuest == "" {
		return fmt.Errorf("complete quest: %w: none active", ErrNotAllowed)
	}
	q := g.cats.Quests.ByID[p.ActiveQuest]
	if err := g.spendTime(p, q.Hours); err != nil {
		return err
	}
	if q.HealthRisk > 0 {
		p.AddHealth(-g.rng.Intn(q.HealthRisk + 1))
	}
	p.Gold += q.Gold
	p.GuildRep += q.Reputation
	p.CompletedQuests++
	p.ActiveQuest = ""
	if q.NextStage != "" {
		// Chain stages hand off immediately; rank gates still apply.
		if next := g.cats.Quests.ByID[q.NextStage]; p.GuildRank >= next.MinRank {
			p.ActiveQuest = q.NextStage
		}
	}
	for p.GuildRep >= (p.GuildRank+1)*50 {
		p.GuildRank++
		p.AddHappiness(5)
	}
	return nil
}

// ExploreDungeon resolves one floor attempt. The per-turn attempt cap
// is the executor's concern; the world only enforces legality.
func (g *Game) ExploreDungeon(id string, floor int) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	def, ok := g.cats.Dungeons.ByFloor[floor]
	if !ok {
		return fmt.Errorf("dungeon: %w: floor %d", ErrBadTarget, floor)
	}
	if floor > 1 && !p.HasClearedFloor(floor-1) {
		return fmt.Errorf("dungeon: %w: floor %d locked", ErrNotAllowed, floor)
	}
	if len(p.CompletedDegrees) == 0 {
		return fmt.Errorf("dungeon: %w: cave entry requires a degree", ErrNotAllowed)
	}
	if err := g.spendTime(p, def.Hours); err != nil {
		return err
	}
	p.DungeonAttemptsThisTurn++
	power := PlayerPower(p)
	chance := power / float64(def.BossPower)
	if chance > 0.95 {
		chance = 0.95
	}
	if chance < 0.10 {
		chance = 0.10
	}
	if g.rng.Float64() < chance {
		reward := def.GoldReward
		if f := g.ActiveFestival(); f != nil && f.DungeonBonus > 0 {
			reward = int(float64(reward) * (1 + f.DungeonBonus))
		}
		p.Gold += reward
		if !p.HasClearedFloor(floor) {
			p.FloorsCleared = append(p.FloorsCleared, floor)
		}
		p.AddHappiness(5)
	} else {
		p.AddHealth(-def.HealthRisk)
		p.AddHappiness(-5)
	}
	if p.WeaponDurability > 0 {
		p.WeaponDurability--
		if p.WeaponDurability == 0 && p.Weapon != "" {
			wdef := g.cats.Items.ByID[p.Weapon]
			p.Attack -= wdef.Attack
			p.Defense -= wdef.Defense
			p.Weapon = ""
		}
	}
	return nil
}

// PlayerPower is the combat score used both for resolution and for
// the AI's risk gate: attack scaled by education, plus half defense.
func PlayerPower(p *Player) float64 {
	eduBonus := 0.05 * float64(len(p.CompletedDegrees))
	return float64(p.Attack)*(1+eduBonus) + float64(p.Defense)*0.5
}

func (g *Game) CastHex(id, hexID, target string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	def, ok := g.cats.Hexes.ByID[hexID]
	if !ok {
		return fmt.Errorf("cast hex: %w: %s", ErrBadTarget, hexID)
	}
	// Validate the full cast before spending anything; a refused cast
	// must leave gold, scrolls and time untouched.
	h, err := g.prepareHex(id, hexID, target)
	if err != nil {
		return err
	}
	if p.TimeRemaining < 1 {
		return fmt.Errorf("cast hex: %w", ErrNoTime)
	}
	if def.DropOnly {
		if p.Items[hexID] == 0 {
			return fmt.Errorf("cast hex: %w: scroll not owned", ErrNotAllowed)
		}
		p.Items[hexID]--
	} else if err := g.spendGold(p, HexPrice(def, 1.0)); err != nil {
		return err
	}
	_ = g.spendTime(p, 1)
	g.Hexes = append(g.Hexes, h)
	return nil
}

func (g *Game) CureSickness(id string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if !p.Sick {
		return fmt.Errorf("cure: %w: not sick", ErrNotAllowed)
	}
	if err := g.spendGold(p, 60); err != nil {
		return err
	}
	if err := g.spendTime(p, 2); err != nil {
		return err
	}
	p.Sick = false
	p.AddHealth(20)
	return nil
}

func (g *Game) EndTurn(id string) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	cur := g.CurrentPlayer()
	if cur == nil || cur.ID != p.ID {
		return fmt.Errorf("end turn: %w: not your turn", ErrNotAllowed)
	}
	p.TimeRemaining = 0
	g.advanceTurn()
	return nil
}

// Rest trades hours for health at the player's current location.
func (g *Game) Rest(id string, hours float64) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	if err := g.spendTime(p, hours); err != nil {
		return err
	}
	p.AddHealth(int(hours * 3))
	p.AddHappiness(int(hours))
	return nil
}

// AttendFestival: free cheer while a festival runs.
func (g *Game) AttendFestival(id string, hours float64) error {
	p, err := g.player(id)
	if err != nil {
		return err
	}
	f := g.ActiveFestival()
	if f == nil {
		return fmt.Errorf("festival: %w: none running", ErrNotAllowed)
	}
	if err := g.spendTime(p, hours); err != nil {
		return err
	}
	p.AddHappiness(f.Happiness)
	return nil
}
