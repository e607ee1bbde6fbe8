package world

import (
	"errors"
	"fmt"
	"math/rand"

	"guildlife.ai/internal/sim/catalogs"
	"guildlife.ai/internal/sim/tuning"
)

var (
	ErrNoPlayer   = errors.New("no such player")
	ErrNoGold     = errors.New("not enough gold")
	ErrNoTime     = errors.New("not enough time")
	ErrBadTarget  = errors.New("invalid target")
	ErrNotAllowed = errors.New("not allowed")
	ErrHexActive  = errors.New("location hex already active")
)

// Game is the authoritative game state. In networked play only the
// host owns a Game; guests receive state broadcasts.
type Game struct {
	ID   string
	Week int

	Goals   Goals
	Players map[string]*Player
	Order   []string
	turnIdx int

	Hexes       []*Hex
	StockPrices map[string]int
	FestivalID  string

	cats *catalogs.Catalogs
	tun  tuning.Tuning
	rng  *rand.Rand
}

type GameConfig struct {
	ID    string
	Seed  int64
	Goals Goals
}

func New(cfg GameConfig, cats *catalogs.Catalogs, tun tuning.Tuning) *Game {
	g := &Game{
		ID:          cfg.ID,
		Week:        1,
		Goals:       cfg.Goals,
		Players:     map[string]*Player{},
		StockPrices: map[string]int{},
		cats:        cats,
		tun:         tun,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, id := range cats.Stocks.IDs {
		g.StockPrices[id] = cats.Stocks.ByID[id].BasePrice
	}
	g.refreshFestival()
	return g
}

func (g *Game) Catalogs() *catalogs.Catalogs { return g.cats }
func (g *Game) Tuning() tuning.Tuning        { return g.tun }

func (g *Game) AddPlayer(p *Player) {
	g.Players[p.ID] = p
	g.Order = append(g.Order, p.ID)
	if len(g.Order) == 1 {
		p.TimeRemaining = g.tun.HoursPerTurn
		g.startTurn(p)
	}
}

func (g *Game) player(id string) (*Player, error) {
	p, ok := g.Players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPlayer, id)
	}
	return p, nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	if len(g.Order) == 0 {
		return nil
	}
	return g.Players[g.Order[g.turnIdx]]
}

// Rivals returns read-only snapshots of everyone but the given
// player, for comparative scoring only.
func (g *Game) Rivals(id string) []*Player {
	out := make([]*Player, 0, len(g.Order)-1)
	for _, pid := range g.Order {
		if pid != id {
			out = append(out, g.Players[pid])
		}
	}
	return out
}

func (g *Game) startTurn(p *Player) {
	p.TimeRemaining = g.tun.HoursPerTurn
	p.DungeonAttemptsThisTurn = 0
	p.HadRandomEventThisTurn = false
}

// advanceTurn moves to the next player; when the order wraps, the
// week advances and weekly upkeep runs for everyone.
func (g *Game) advanceTurn() {
	g.turnIdx++
	if g.turnIdx >= len(g.Order) {
		g.turnIdx = 0
		g.advanceWeek()
	}
	if p := g.CurrentPlayer(); p != nil {
		g.startTurn(p)
	}
}

func (g *Game) advanceWeek() {
	g.Week++
	g.expireHexes()
	g.walkStockPrices()
	g.refreshFestival()
	for _, id := range g.Order {
		g.weeklyUpkeep(g.Players[id])
	}
}

func (g *Game) refreshFestival() {
	g.FestivalID = ""
	if f := g.cats.ActiveFestival(g.Week); f != nil {
		g.FestivalID = f.ID
	}
}

// ActiveFestival returns the festival running this week, or nil.
func (g *Game) ActiveFestival() *catalogs.FestivalDef {
	if g.FestivalID == "" {
		return nil
	}
	f := g.cats.Festivals.ByID[g.FestivalID]
	return &f
}

func (g *Game) walkStockPrices() {
	for _, id := range g.cats.Stocks.IDs {
		def := g.cats.Stocks.ByID[id]
		if def.TBill {
			continue // robbery-proof and price-stable
		}
		price := g.StockPrices[id]
		swing := def.Volatility * float64(def.BasePrice)
		price += int((g.rng.Float64()*2 - 1) * swing)
		floor := def.BasePrice / 4
		if floor < 1 {
			floor = 1
		}
		if price < floor {
			price = floor
		}
		g.StockPrices[id] = price
	}
}

func (g *Game) weeklyUpkeep(p *Player) {
	p.AddFood(-g.tun.FoodDecayPerWeek)
	if p.Food <= 0 {
		p.AddHealth(-10)
		p.AddHappiness(-5)
	}
	p.AddClothing(-g.tun.ClothingWearPerWeek)
	if p.Clothing <= 0 && p.ClothingTier > 0 {
		p.ClothingTier--
		p.Clothing = 50
	}

	if p.HousingTier > HousingHomeless {
		p.WeeksSinceRent++
		if p.WeeksSinceRent > g.tun.EvictionGraceWeeks {
			p.HousingTier = HousingHomeless
			p.WeeksSinceRent = 0
			p.AddHappiness(-20)
		}
	}

	if p.LoanAmount > 0 {
		p.LoanAmount += p.LoanAmount * g.tun.LoanRatePct / 100
		p.WeeksSinceLoanPayment++
		if p.WeeksSinceLoanPayment >= g.tun.LoanDefaultWeeks {
			p.LoanDefaulted = true
		}
	}
	if p.Savings > 0 {
		p.Savings += p.Savings * g.tun.SavingsRatePct / 100
	}

	if p.Health < 30 && !p.Sick && g.rng.Intn(100) < 25 {
		p.Sick = true
	}
	if p.HousingTier == HousingSlums && p.Gold > 150 && g.rng.Intn(100) < g.tun.RobberyChanceSlumsPct {
		p.Gold -= p.Gold / 3
		p.AddHappiness(-10)
		p.HadRandomEventThisTurn = true
	}
}
