package ai

import (
	"time"

	"guildlife.ai/internal/sim/tuning"
)

// Settings are the live difficulty dials for one AI player.
// PlanningDepth and DecisionDelay define the capability tier and are
// never adjusted at runtime; the other three are rubber-banded.
type Settings struct {
	Aggressiveness   float64
	PlanningDepth    int
	MistakeChance    float64
	EfficiencyWeight float64
	DecisionDelay    time.Duration
}

func SettingsFromPreset(p tuning.DifficultyPreset) Settings {
	return Settings{
		Aggressiveness:   p.Aggressiveness,
		PlanningDepth:    p.PlanningDepth,
		MistakeChance:    p.MistakeChance,
		EfficiencyWeight: p.EfficiencyWeight,
		DecisionDelay:    time.Duration(p.DecisionDelayMs) * time.Millisecond,
	}
}

// PerformanceRecord is one human-vs-AI progress sample.
type PerformanceRecord struct {
	Week          int
	HumanProgress float64
	AIProgress    float64
	Gap           float64
}

const (
	perfHistoryCap  = 20
	perfMinWeek     = 5
	perfMinSamples  = 3
	perfTrendWeight = 0.3
	perfSignalClamp = 0.5
)

// PerformanceTracker is per-game-session state recording the
// human-vs-AI progress gap per AI player.
type PerformanceTracker struct {
	history map[string][]PerformanceRecord
}

func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{history: map[string][]PerformanceRecord{}}
}

func (t *PerformanceTracker) Reset() {
	t.history = map[string][]PerformanceRecord{}
}

// Record stores one sample. Early weeks are noise and samples
// without any human baseline mean nothing, so both are dropped.
// A second sample for the same week replaces the first.
func (t *PerformanceTracker) Record(playerID string, week int, humanAvg, aiProgress float64, humanCount int) {
	if week < perfMinWeek || humanCount == 0 {
		return
	}
	rec := PerformanceRecord{
		Week:          week,
		HumanProgress: humanAvg,
		AIProgress:    aiProgress,
		Gap:           humanAvg - aiProgress,
	}
	h := t.history[playerID]
	for i := range h {
		if h[i].Week == week {
			h[i] = rec
			t.history[playerID] = h
			return
		}
	}
	h = append(h, rec)
	if len(h) > perfHistoryCap {
		h = h[len(h)-perfHistoryCap:]
	}
	t.history[playerID] = h
}

func (t *PerformanceTracker) Records(playerID string) []PerformanceRecord {
	return t.history[playerID]
}

// Adjustment is the adjuster's output: multiplicative on mistake
// chance, additive on aggressiveness and efficiency.
type Adjustment struct {
	MistakeMultiplier   float64
	AggressivenessBoost float64
	EfficiencyBoost     float64
}

// CalculateAdjustment turns the gap history into a rubber-band
// signal. Recent samples weigh up to four times older ones; a
// short-term trend (last sample minus the first of the last three)
// is mixed in at 0.3. The combined signal is clamped to half a goal
// either way so one blowout week cannot flip the AI's character.
func (t *PerformanceTracker) CalculateAdjustment(playerID string) (Adjustment, bool) {
	h := t.history[playerID]
	if len(h) < perfMinSamples {
		return Adjustment{}, false
	}
	var sum, wsum float64
	n := len(h)
	for i, rec := range h {
		w := 1.0
		if n > 1 {
			w = 1 + 3*float64(i)/float64(n-1)
		}
		sum += rec.Gap * w
		wsum += w
	}
	avgGap := sum / wsum
	trend := h[n-1].Gap - h[n-3].Gap
	signal := avgGap + perfTrendWeight*trend
	if signal > perfSignalClamp {
		signal = perfSignalClamp
	}
	if signal < -perfSignalClamp {
		signal = -perfSignalClamp
	}
	return Adjustment{
		MistakeMultiplier:   1 - signal,
		AggressivenessBoost: 0.3 * signal,
		EfficiencyBoost:     0.3 * signal,
	}, true
}

// Adjustment safety bounds.
const (
	minMistakeChance = 0.005
	maxMistakeChance = 0.35
	minDial          = 0.1
	maxDial          = 1.0
)

// ApplyAdjustment nudges the tunable dials within safe bounds.
// The capability tier (depth, delay) is left alone.
func ApplyAdjustment(s Settings, a Adjustment) Settings {
	s.MistakeChance = clampf(s.MistakeChance*a.MistakeMultiplier, minMistakeChance, maxMistakeChance)
	s.Aggressiveness = clampf(s.Aggressiveness+a.AggressivenessBoost, minDial, maxDial)
	s.EfficiencyWeight = clampf(s.EfficiencyWeight+a.EfficiencyBoost, minDial, maxDial)
	return s
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
