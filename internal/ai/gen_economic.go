package ai

import (
	"fmt"
)

// Economic generator: health spending, the loan lifecycle, emergency
// liquidation, small luxuries and the stock market policy.

func GenerateEconomicActions(ctx *ActionContext) []AIAction {
	p := ctx.Player
	var out []AIAction

	if p.Sick && p.Gold >= 60 && ctx.timeFor("healer", 2) {
		out = append(out, AIAction{
			Type:        ActCureSickness,
			Location:    "healer",
			Priority:    80,
			Details:     BuyDetails{Cost: 60},
			Description: "cure the sickness at the healer",
		})
	}

	out = append(out, loanActions(ctx)...)

	// Broke: liquidate before anything fancier than survival.
	if p.Gold < 75 {
		for itemID, count := range p.Items {
			if count <= 0 {
				continue
			}
			def := ctx.Cats.Items.ByID[itemID]
			value := def.PawnValue
			if value == 0 {
				value = def.Price / 2
			}
			if value <= 0 || !ctx.timeFor("pawnshop", 0.5) {
				continue
			}
			out = append(out, AIAction{
				Type:        ActPawnItem,
				Location:    "pawnshop",
				Priority:    85,
				Details:     BuyDetails{ItemID: itemID, Cost: value, Qty: 1},
				Description: fmt.Sprintf("pawn %s for %d gold", def.Name, value),
			})
			break // one pawn candidate per cycle is plenty
		}
	}

	// Small luxuries only when happiness is in focus, plus a lottery
	// flutter for gamblers.
	if ctx.Weakest == GoalHappiness {
		if def, ok := cheapestItem(ctx.Cats, "LOTTERY"); ok && ctx.Profile.Gambling > 0.6 &&
			p.Gold >= def.Price*5 && ctx.timeFor(def.Shop, 0.5) {
			out = append(out, AIAction{
				Type:        ActBuyLottery,
				Location:    def.Shop,
				Priority:    35 * ctx.Profile.Gambling,
				Details:     BuyDetails{ItemID: def.ID, Cost: def.Price, Qty: 1},
				Description: "try a lottery scroll",
			})
		}
	}

	out = append(out, stockActions(ctx)...)
	return out
}

func loanActions(ctx *ActionContext) []AIAction {
	p := ctx.Player
	var out []AIAction
	limit := p.ShiftsWorked * ctx.Tun.MaxLoanPerShift

	// Desperate and credit-worthy: borrow enough to eat and dress.
	if p.LoanAmount == 0 && p.Gold < 40 && limit >= 50 && ctx.timeFor("bank", 0.5) {
		amount := 150
		if amount > limit {
			amount = limit
		}
		out = append(out, AIAction{
			Type:        ActTakeLoan,
			Location:    "bank",
			Priority:    76,
			Details:     LoanDetails{Amount: amount},
			Description: fmt.Sprintf("borrow %d gold from the moneylender", amount),
		})
	}

	if p.LoanAmount > 0 && ctx.timeFor("bank", 0.5) {
		switch {
		case p.Gold >= p.LoanAmount+100:
			out = append(out, AIAction{
				Type:        ActRepayLoan,
				Location:    "bank",
				Priority:    58,
				Details:     LoanDetails{Amount: p.LoanAmount},
				Description: "clear the loan in full",
			})
		case p.LoanDefaulted && p.Gold > 120:
			// Partial payment in default trims the wage garnishment.
			part := p.Gold / 2
			out = append(out, AIAction{
				Type:        ActRepayLoan,
				Location:    "bank",
				Priority:    66,
				Details:     LoanDetails{Amount: part},
				Description: fmt.Sprintf("pay down %d of the defaulted loan", part),
			})
		}
	}
	return out
}

func stockActions(ctx *ActionContext) []AIAction {
	p := ctx.Player
	s := ctx.Settings
	var out []AIAction
	if len(ctx.StockPrices) == 0 || !ctx.timeFor("exchange", 0.5) {
		return nil
	}

	wealthFocus := ctx.Weakest == GoalWealth
	surplus := p.Gold - 250

	if s.PlanningDepth >= 2 && surplus > 50 {
		// T-Bills: the robbery-proof store of value.
		for _, id := range ctx.Cats.Stocks.IDs {
			def := ctx.Cats.Stocks.ByID[id]
			if !def.TBill {
				continue
			}
			price := ctx.StockPrices[id]
			if price <= 0 || surplus < price {
				continue
			}
			out = append(out, AIAction{
				Type:        ActBuyStock,
				Location:    "exchange",
				Priority:    42,
				Details:     StockDetails{StockID: id, Shares: surplus / price, Price: price},
				Description: fmt.Sprintf("park %d gold in %s", (surplus/price)*price, def.Name),
			})
			break
		}
	}

	if s.PlanningDepth >= 3 && wealthFocus && surplus > 100 {
		// Hard AI hunts undervalued stocks.
		for _, id := range ctx.Cats.Stocks.IDs {
			def := ctx.Cats.Stocks.ByID[id]
			price := ctx.StockPrices[id]
			if def.TBill || price <= 0 {
				continue
			}
			if float64(price) < float64(def.BasePrice)*0.85 && surplus >= price {
				out = append(out, AIAction{
					Type:        ActBuyStock,
					Location:    "exchange",
					Priority:    54,
					Details:     StockDetails{StockID: id, Shares: surplus / price, Price: price},
					Description: fmt.Sprintf("buy undervalued %s at %d", def.Name, price),
				})
				break
			}
		}
	} else if ctx.Profile.Gambling > 0.7 && wealthFocus && surplus > 100 {
		// Gamblers just grab the cheapest ticker on the board.
		cheapID, cheap := "", 0
		for _, id := range ctx.Cats.Stocks.IDs {
			if ctx.Cats.Stocks.ByID[id].TBill {
				continue
			}
			if price := ctx.StockPrices[id]; price > 0 && (cheapID == "" || price < cheap) {
				cheapID, cheap = id, price
			}
		}
		if cheapID != "" && surplus >= cheap {
			out = append(out, AIAction{
				Type:        ActBuyStock,
				Location:    "exchange",
				Priority:    38 * ctx.Profile.Gambling,
				Details:     StockDetails{StockID: cheapID, Shares: surplus / cheap, Price: cheap},
				Description: fmt.Sprintf("punt on %s", cheapID),
			})
		}
	}

	// Sell triggers: broke, overvalued against base price, or wealth
	// simply isn't the focus anymore.
	for id, shares := range p.Shares {
		if shares <= 0 {
			continue
		}
		def := ctx.Cats.Stocks.ByID[id]
		price := ctx.StockPrices[id]
		if price <= 0 {
			continue
		}
		overvalued := !def.TBill && float64(price) > float64(def.BasePrice)*1.2
		broke := p.Gold < 50
		switch {
		case broke:
			out = append(out, AIAction{
				Type:        ActSellStock,
				Location:    "exchange",
				Priority:    82,
				Details:     StockDetails{StockID: id, Shares: shares, Price: price},
				Description: fmt.Sprintf("sell %s to raise gold", def.Name),
			})
		case overvalued:
			out = append(out, AIAction{
				Type:        ActSellStock,
				Location:    "exchange",
				Priority:    57,
				Details:     StockDetails{StockID: id, Shares: shares, Price: price},
				Description: fmt.Sprintf("take profits on %s at %d", def.Name, price),
			})
		case !wealthFocus && !def.TBill:
			out = append(out, AIAction{
				Type:        ActSellStock,
				Location:    "exchange",
				Priority:    33,
				Details:     StockDetails{StockID: id, Shares: shares, Price: price},
				Description: fmt.Sprintf("wind down the %s position", def.Name),
			})
		}
	}

	return out
}
