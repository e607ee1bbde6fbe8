package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Catalogs bundles the static content tables. Everything here is
// read-only after Load; game and AI code look things up by stable
// string ids.
type Catalogs struct {
	Jobs      JobCatalog
	Degrees   DegreeCatalog
	Dungeons  DungeonCatalog
	Quests    QuestCatalog
	Items     ItemCatalog
	Stocks    StockCatalog
	Hexes     HexCatalog
	Festivals FestivalCatalog
	Locations LocationCatalog
}

type JobCatalog struct {
	ByID   map[string]JobDef
	IDs    []string
	Digest string
}

type JobDef struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Location        string   `json:"location"`
	BaseWage        int      `json:"base_wage"`
	RequiredDegrees []string `json:"required_degrees,omitempty"`
	MinClothingTier int      `json:"min_clothing_tier"`
	MinExperience   int      `json:"min_experience"`
	MinDependability int     `json:"min_dependability"`
}

type DegreeCatalog struct {
	ByID   map[string]DegreeDef
	IDs    []string
	Digest string
}

type DegreeDef struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Cost     int      `json:"cost"`
	Sessions int      `json:"sessions"`
	Prereqs  []string `json:"prereqs,omitempty"`
}

type DungeonCatalog struct {
	ByFloor map[int]DungeonFloorDef
	Floors  []int
	Digest  string
}

type DungeonFloorDef struct {
	Floor      int    `json:"floor"`
	Name       string `json:"name"`
	BossPower  int    `json:"boss_power"`
	GoldReward int    `json:"gold_reward"`
	Hours      float64 `json:"hours"`
	HealthRisk int    `json:"health_risk"`
}

type QuestCatalog struct {
	ByID   map[string]QuestDef
	IDs    []string
	Digest string
}

// QuestDef covers plain quests, bounties and chain stages; Kind is
// "quest", "bounty" or "chain".
type QuestDef struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Gold       int     `json:"gold"`
	Hours      float64 `json:"hours"`
	HealthRisk int     `json:"health_risk"`
	MinRank    int     `json:"min_rank"`
	Reputation int     `json:"reputation"`
	NextStage  string  `json:"next_stage,omitempty"`
}

type ItemCatalog struct {
	ByID   map[string]ItemDef
	IDs    []string
	Digest string
}

// ItemDef kinds: "FOOD","FRESH_FOOD","CLOTHING","HEALING","TICKET",
// "LOTTERY","APPLIANCE","EQUIPMENT".
type ItemDef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Price        int    `json:"price"`
	Shop         string `json:"shop"`
	FoodValue    int    `json:"food_value,omitempty"`
	Happiness    int    `json:"happiness,omitempty"`
	HealthValue  int    `json:"health_value,omitempty"`
	ClothingTier int    `json:"clothing_tier,omitempty"`
	Attack       int    `json:"attack,omitempty"`
	Defense      int    `json:"defense,omitempty"`
	Durability   int    `json:"durability,omitempty"`
	PawnValue    int    `json:"pawn_value,omitempty"`
}

type StockCatalog struct {
	ByID   map[string]StockDef
	IDs    []string
	Digest string
}

type StockDef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BasePrice  int     `json:"base_price"`
	Volatility float64 `json:"volatility"`
	TBill      bool    `json:"t_bill,omitempty"`
}

type HexCatalog struct {
	ByID   map[string]HexDef
	IDs    []string
	Digest string
}

// HexDef target is "location" or "player". DropOnly hexes cannot be
// bought; they only come from dungeon drops and have BasePrice 0.
type HexDef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Target    string `json:"target"`
	BasePrice int    `json:"base_price"`
	Weeks     int    `json:"weeks"`
	Effect    string `json:"effect"`
	DropOnly  bool   `json:"drop_only,omitempty"`
}

type FestivalCatalog struct {
	ByID   map[string]FestivalDef
	IDs    []string
	Digest string
}

type FestivalDef struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	WeekEvery    int     `json:"week_every"`
	WeekOffset   int     `json:"week_offset"`
	ShopDiscount float64 `json:"shop_discount,omitempty"`
	StudyBonus   float64 `json:"study_bonus,omitempty"`
	WorkBonus    float64 `json:"work_bonus,omitempty"`
	DungeonBonus float64 `json:"dungeon_bonus,omitempty"`
	Happiness    int     `json:"happiness,omitempty"`
}

type LocationCatalog struct {
	ByID   map[string]LocationDef
	IDs    []string
	Digest string
}

// LocationDef positions sit on a ring (the town board); travel cost
// between two locations is the minimum ring distance times the tuned
// hours-per-step.
type LocationDef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Pos  int    `json:"pos"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadJobs(filepath.Join(configDir, "jobs.json"), &c.Jobs); err != nil {
		return nil, err
	}
	if err := loadDegrees(filepath.Join(configDir, "degrees.json"), &c.Degrees); err != nil {
		return nil, err
	}
	if err := loadDungeons(filepath.Join(configDir, "dungeons.json"), &c.Dungeons); err != nil {
		return nil, err
	}
	if err := loadQuests(filepath.Join(configDir, "quests.json"), &c.Quests); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadStocks(filepath.Join(configDir, "stocks.json"), &c.Stocks); err != nil {
		return nil, err
	}
	if err := loadHexes(filepath.Join(configDir, "hexes.json"), &c.Hexes); err != nil {
		return nil, err
	}
	if err := loadFestivals(filepath.Join(configDir, "festivals.json"), &c.Festivals); err != nil {
		return nil, err
	}
	if err := loadLocations(filepath.Join(configDir, "locations.json"), &c.Locations); err != nil {
		return nil, err
	}
	return &c, nil
}

// RingSize is the number of board positions; see configs/locations.json.
const RingSize = 12

// TravelSteps returns the minimum ring distance between two locations.
func (lc *LocationCatalog) TravelSteps(from, to string) int {
	a, okA := lc.ByID[from]
	b, okB := lc.ByID[to]
	if !okA || !okB || from == to {
		return 0
	}
	d := a.Pos - b.Pos
	if d < 0 {
		d = -d
	}
	if RingSize-d < d {
		d = RingSize - d
	}
	return d
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadJobs(path string, out *JobCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []JobDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("jobs.json: %w", err)
	}
	out.ByID = map[string]JobDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("jobs.json: empty id")
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadDegrees(path string, out *DegreeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []DegreeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("degrees.json: %w", err)
	}
	out.ByID = map[string]DegreeDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("degrees.json: empty id")
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadDungeons(path string, out *DungeonCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []DungeonFloorDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("dungeons.json: %w", err)
	}
	out.ByFloor = map[int]DungeonFloorDef{}
	for _, d := range defs {
		if d.Floor <= 0 {
			return fmt.Errorf("dungeons.json: floor must be >= 1")
		}
		out.ByFloor[d.Floor] = d
	}
	out.Floors = make([]int, 0, len(out.ByFloor))
	for f := range out.ByFloor {
		out.Floors = append(out.Floors, f)
	}
	sort.Ints(out.Floors)
	return nil
}

func loadQuests(path string, out *QuestCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []QuestDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("quests.json: %w", err)
	}
	out.ByID = map[string]QuestDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("quests.json: empty id")
		}
		switch d.Kind {
		case "quest", "bounty", "chain":
		default:
			return fmt.Errorf("quests.json: %s: bad kind %q", d.ID, d.Kind)
		}
		out.ByID[d.ID] = d
	}
	for _, d := range out.ByID {
		if d.NextStage != "" {
			if _, ok := out.ByID[d.NextStage]; !ok {
				return fmt.Errorf("quests.json: %s: unknown next_stage %q", d.ID, d.NextStage)
			}
		}
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.ByID = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadStocks(path string, out *StockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []StockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("stocks.json: %w", err)
	}
	out.ByID = map[string]StockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("stocks.json: empty id")
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadHexes(path string, out *HexCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []HexDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("hexes.json: %w", err)
	}
	out.ByID = map[string]HexDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("hexes.json: empty id")
		}
		if d.DropOnly && d.BasePrice != 0 {
			return fmt.Errorf("hexes.json: %s: drop_only hex must have base_price 0", d.ID)
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadFestivals(path string, out *FestivalCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []FestivalDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("festivals.json: %w", err)
	}
	out.ByID = map[string]FestivalDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("festivals.json: empty id")
		}
		if d.WeekEvery <= 0 {
			return fmt.Errorf("festivals.json: %s: week_every must be >= 1", d.ID)
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadLocations(path string, out *LocationCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	var defs []LocationDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("locations.json: %w", err)
	}
	out.ByID = map[string]LocationDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("locations.json: empty id")
		}
		if d.Pos < 0 || d.Pos >= RingSize {
			return fmt.Errorf("locations.json: %s: pos out of ring", d.ID)
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func sortedKeys[M map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ActiveFestival returns the festival running in the given week, or nil.
func (c *Catalogs) ActiveFestival(week int) *FestivalDef {
	for _, id := range c.Festivals.IDs {
		f := c.Festivals.ByID[id]
		if week >= f.WeekOffset && (week-f.WeekOffset)%f.WeekEvery == 0 {
			return &f
		}
	}
	return nil
}
