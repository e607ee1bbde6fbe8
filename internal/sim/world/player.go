package world

// Housing tiers, lowest to highest.
const (
	HousingHomeless = 0
	HousingSlums    = 1
	HousingLodgings = 2
	HousingNoble    = 3
)

// RentByTier is the weekly rent owed per housing tier.
var RentByTier = [4]int{0, 40, 80, 160}

// Goals are the victory targets chosen at game start. A target <= 0
// disables that goal. Education is measured in points, not degrees.
type Goals struct {
	Wealth    int `json:"wealth"`
	Happiness int `json:"happiness"`
	Education int `json:"education"`
	Career    int `json:"career"`
	Adventure int `json:"adventure"`
}

// Player is the full per-player record. All numeric stats on 0-100
// scales are clamped by every mutator; TimeRemaining never goes
// negative.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsAI        bool   `json:"is_ai"`
	Personality string `json:"personality,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`

	Gold                  int  `json:"gold"`
	Savings               int  `json:"savings"`
	Investments           int  `json:"investments"`
	LoanAmount            int  `json:"loan_amount"`
	LoanDefaulted         bool `json:"loan_defaulted"`
	WeeksSinceLoanPayment int  `json:"weeks_since_loan_payment"`

	Happiness    int `json:"happiness"`
	Health       int `json:"health"`
	Food         int `json:"food"`
	Clothing     int `json:"clothing"`
	ClothingTier int `json:"clothing_tier"`

	Dependability int `json:"dependability"`
	Experience    int `json:"experience"`

	CompletedDegrees []string       `json:"completed_degrees"`
	StudyProgress    map[string]int `json:"study_progress"`
	ReadyToGraduate  []string       `json:"ready_to_graduate"`

	CurrentJob   string `json:"current_job,omitempty"`
	Wage         int    `json:"wage"`
	ShiftsAtJob  int    `json:"shifts_at_job"`
	ShiftsWorked int    `json:"shifts_worked"`

	Location       string `json:"location"`
	HousingTier    int    `json:"housing_tier"`
	WeeksSinceRent int    `json:"weeks_since_rent"`

	GuildPass       bool   `json:"guild_pass"`
	GuildRank       int    `json:"guild_rank"`
	GuildRep        int    `json:"guild_rep"`
	ActiveQuest     string `json:"active_quest,omitempty"`
	CompletedQuests int    `json:"completed_quests"`

	FloorsCleared    []int  `json:"floors_cleared"`
	Attack           int    `json:"attack"`
	Defense          int    `json:"defense"`
	Weapon           string `json:"weapon,omitempty"`
	WeaponDurability int    `json:"weapon_durability"`

	Sick bool `json:"sick"`

	Items  map[string]int `json:"items"`
	Shares map[string]int `json:"shares"`

	TimeRemaining float64 `json:"time_remaining"`

	DungeonAttemptsThisTurn int  `json:"dungeon_attempts_this_turn"`
	HadRandomEventThisTurn  bool `json:"had_random_event_this_turn"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (p *Player) AddHappiness(d int) { p.Happiness = clamp(p.Happiness+d, 0, 100) }
func (p *Player) AddHealth(d int)    { p.Health = clamp(p.Health+d, 0, 100) }
func (p *Player) AddFood(d int)      { p.Food = clamp(p.Food+d, 0, 100) }
func (p *Player) AddClothing(d int)  { p.Clothing = clamp(p.Clothing+d, 0, 100) }

func (p *Player) HasDegree(id string) bool {
	for _, d := range p.CompletedDegrees {
		if d == id {
			return true
		}
	}
	return false
}

func (p *Player) HasClearedFloor(floor int) bool {
	for _, f := range p.FloorsCleared {
		if f == floor {
			return true
		}
	}
	return false
}

func (p *Player) HighestFloorCleared() int {
	best := 0
	for _, f := range p.FloorsCleared {
		if f > best {
			best = f
		}
	}
	return best
}

// NetWorth excludes stock holdings; callers with a price table add
// those separately.
func (p *Player) NetWorth() int {
	return p.Gold + p.Savings + p.Investments - p.LoanAmount
}

func NewPlayer(id, name string, isAI bool) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		IsAI:          isAI,
		Gold:          200,
		Happiness:     50,
		Health:        100,
		Food:          80,
		Clothing:      60,
		ClothingTier:  1,
		Attack:        5,
		Defense:       3,
		HousingTier:   HousingSlums,
		Location:      "plaza",
		StudyProgress: map[string]int{},
		Items:         map[string]int{},
		Shares:        map[string]int{},
	}
}
