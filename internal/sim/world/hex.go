package world

import (
	"fmt"
	"math"

	"guildlife.ai/internal/sim/catalogs"
)

// Hex is an active hex instance. Location hexes debuff everyone but
// the caster at a board location; player hexes debuff one rival
// directly.
type Hex struct {
	HexID          string `json:"hex_id"`
	Caster         string `json:"caster"`
	Location       string `json:"location,omitempty"`
	TargetPlayer   string `json:"target_player,omitempty"`
	WeeksRemaining int    `json:"weeks_remaining"`
}

// HexPrice returns the purchase price of a hex under a price
// modifier (festival discounts, curse-shop markup). Drop-only hexes
// have base price 0 and always price to 0.
func HexPrice(def catalogs.HexDef, modifier float64) int {
	if def.BasePrice <= 0 {
		return 0
	}
	return int(math.Round(float64(def.BasePrice) * modifier))
}

// ActiveHexAt returns the hex affecting a location from the viewer's
// perspective: nil when the viewer cast it, nil once expired,
// otherwise the hex.
func ActiveHexAt(location, viewerID string, hexes []*Hex) *Hex {
	for _, h := range hexes {
		if h.Location != location || h.WeeksRemaining <= 0 {
			continue
		}
		if h.Caster == viewerID {
			continue
		}
		return h
	}
	return nil
}

// ActiveHexOn returns the active player-targeted hex on the given
// player, or nil.
func ActiveHexOn(playerID string, hexes []*Hex) *Hex {
	for _, h := range hexes {
		if h.TargetPlayer == playerID && h.WeeksRemaining > 0 {
			return h
		}
	}
	return nil
}

// prepareHex validates a cast and builds the hex instance without
// placing it; at most one location hex may be active with a given
// caster. Callers spend resources only after a hex prepares cleanly.
func (g *Game) prepareHex(casterID, hexID, target string) (*Hex, error) {
	def, ok := g.cats.Hexes.ByID[hexID]
	if !ok {
		return nil, fmt.Errorf("cast hex: %w: %s", ErrBadTarget, hexID)
	}
	h := &Hex{HexID: hexID, Caster: casterID, WeeksRemaining: def.Weeks}
	switch def.Target {
	case "location":
		if _, ok := g.cats.Locations.ByID[target]; !ok {
			return nil, fmt.Errorf("cast hex: %w: location %s", ErrBadTarget, target)
		}
		for _, old := range g.Hexes {
			if old.Caster == casterID && old.Location != "" && old.WeeksRemaining > 0 {
				return nil, fmt.Errorf("cast hex: %w", ErrHexActive)
			}
		}
		h.Location = target
	case "player":
		if _, ok := g.Players[target]; !ok {
			return nil, fmt.Errorf("cast hex: %w: player %s", ErrBadTarget, target)
		}
		h.TargetPlayer = target
	default:
		return nil, fmt.Errorf("cast hex: bad target kind %q", def.Target)
	}
	return h, nil
}

// castHex places a hex immediately; used where the cost has already
// been paid (drops, tests).
func (g *Game) castHex(casterID, hexID, target string) error {
	h, err := g.prepareHex(casterID, hexID, target)
	if err != nil {
		return err
	}
	g.Hexes = append(g.Hexes, h)
	return nil
}

// expireHexes runs at week rollover.
func (g *Game) expireHexes() {
	live := g.Hexes[:0]
	for _, h := range g.Hexes {
		h.WeeksRemaining--
		if h.WeeksRemaining > 0 {
			live = append(live, h)
		}
	}
	g.Hexes = live
}
