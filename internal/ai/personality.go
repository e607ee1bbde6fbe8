package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile biases generator thresholds per AI opponent. Weights are
// scalar multipliers applied to scored candidates; the tunables gate
// risk thresholds (stock picking, dungeon floors, food buying).
type Profile struct {
	Name string `yaml:"-"`

	Education float64 `yaml:"education"`
	Wealth    float64 `yaml:"wealth"`
	Combat    float64 `yaml:"combat"`
	Social    float64 `yaml:"social"`
	Caution   float64 `yaml:"caution"`
	Rivalry   float64 `yaml:"rivalry"`
	Gambling  float64 `yaml:"gambling"`

	PreferredGoal  string  `yaml:"preferred_goal"`
	GoldBufferFrac float64 `yaml:"gold_buffer_frac"`
	FoodCaution    float64 `yaml:"food_caution"`
	DungeonRisk    float64 `yaml:"dungeon_risk"`
}

// DefaultProfile is the neutral personality used when no profile is
// configured for an opponent.
func DefaultProfile() Profile {
	return Profile{
		Name:           "grimwald",
		Education:      1.0,
		Wealth:         1.0,
		Combat:         1.0,
		Social:         1.0,
		Caution:        1.0,
		Rivalry:        1.0,
		Gambling:       0.5,
		PreferredGoal:  GoalWealth,
		GoldBufferFrac: 0.2,
		FoodCaution:    1.0,
		DungeonRisk:    1.0,
	}
}

func LoadProfiles(path string) (map[string]Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var byName map[string]Profile
	if err := yaml.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("personalities.yaml: %w", err)
	}
	for name, p := range byName {
		p.Name = name
		if p.PreferredGoal == "" {
			p.PreferredGoal = GoalWealth
		}
		byName[name] = p
	}
	return byName, nil
}
