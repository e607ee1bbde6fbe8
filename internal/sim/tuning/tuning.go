package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	HoursPerTurn       float64 `yaml:"hours_per_turn"`
	TravelHoursPerStep float64 `yaml:"travel_hours_per_step"`
	RentCadenceWeeks   int     `yaml:"rent_cadence_weeks"`
	WorkShiftHours     float64 `yaml:"work_shift_hours"`
	StudySessionHours  float64 `yaml:"study_session_hours"`

	FoodDecayPerWeek      int `yaml:"food_decay_per_week"`
	ClothingWearPerWeek   int `yaml:"clothing_wear_per_week"`
	EvictionGraceWeeks    int `yaml:"eviction_grace_weeks"`
	RobberyChanceSlumsPct int `yaml:"robbery_chance_slums_pct"`

	LoanRatePct      int `yaml:"loan_rate_pct"`
	SavingsRatePct   int `yaml:"savings_rate_pct"`
	GarnishWagePct   int `yaml:"garnish_wage_pct"`
	MaxLoanPerShift  int `yaml:"max_loan_per_shift"`
	LoanDefaultWeeks int `yaml:"loan_default_weeks"`

	Difficulty map[string]DifficultyPreset `yaml:"difficulty"`
}

// DifficultyPreset is the yaml shape of one AI capability tier.
// planning_depth and decision_delay_ms define the tier and are never
// touched by runtime adjustment.
type DifficultyPreset struct {
	Aggressiveness   float64 `yaml:"aggressiveness"`
	PlanningDepth    int     `yaml:"planning_depth"`
	MistakeChance    float64 `yaml:"mistake_chance"`
	EfficiencyWeight float64 `yaml:"efficiency_weight"`
	DecisionDelayMs  int     `yaml:"decision_delay_ms"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Default returns the tuning used when no tuning.yaml is present
// (tests, headless simulation).
func Default() Tuning {
	return Tuning{
		ProtocolVersion:       "1.0",
		HoursPerTurn:          60,
		TravelHoursPerStep:    0.5,
		RentCadenceWeeks:      4,
		WorkShiftHours:        6,
		StudySessionHours:     4,
		FoodDecayPerWeek:      15,
		ClothingWearPerWeek:   5,
		EvictionGraceWeeks:    3,
		RobberyChanceSlumsPct: 10,
		LoanRatePct:           10,
		SavingsRatePct:        2,
		GarnishWagePct:        25,
		MaxLoanPerShift:       50,
		LoanDefaultWeeks:      4,
		Difficulty: map[string]DifficultyPreset{
			"easy":   {Aggressiveness: 0.3, PlanningDepth: 1, MistakeChance: 0.25, EfficiencyWeight: 0.4, DecisionDelayMs: 1200},
			"medium": {Aggressiveness: 0.6, PlanningDepth: 2, MistakeChance: 0.10, EfficiencyWeight: 0.7, DecisionDelayMs: 800},
			"hard":   {Aggressiveness: 0.85, PlanningDepth: 3, MistakeChance: 0.02, EfficiencyWeight: 0.95, DecisionDelayMs: 400},
		},
	}
}
