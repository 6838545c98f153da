// Package metrics derives scores and summaries from a state tree. Every
// function is pure: it reads the supplied state and never mutates it.
package metrics

import (
	"math"
	"strconv"

	"sprintpulse/pkg/domain"
)

// DefaultPhasePrompt accompanies the fallback phase when the user has not
// picked one for the current week.
const DefaultPhasePrompt = "Select your emotional state."

// CalculateWES returns the weekly execution score for the current week: the
// rounded percentage of current-week tactics marked complete. It is 0 when the
// week has no tactics.
func CalculateWES(state domain.AppState) int {
	return WeekScore(state, state.CurrentWeek)
}

// WeekScore computes the execution score for an arbitrary week.
func WeekScore(state domain.AppState, week int) int {
	total, done := 0, 0
	for _, g := range state.Goals {
		for _, t := range g.Tactics {
			if t.EffectiveWeek() != week {
				continue
			}
			total++
			if t.Completed {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return roundHalfUp(float64(done) / float64(total) * 100)
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// EmotionalPhase is the phase shown for the current week.
type EmotionalPhase struct {
	Phase domain.Phase
	// Message is empty when the user picked the phase themselves.
	Message string
	// Default is true when Phase is the fallback rather than a stored choice.
	Default bool
}

// EvaluateEmotionalPhase returns the stored phase for the current week, or the
// Peaceful fallback with a prompt.
func EvaluateEmotionalPhase(state domain.AppState) EmotionalPhase {
	if p, ok := state.EmotionalHistory[state.CurrentWeek]; ok && p != "" {
		return EmotionalPhase{Phase: p}
	}
	return EmotionalPhase{Phase: domain.PhasePeaceful, Message: DefaultPhasePrompt, Default: true}
}

// CalculateStrategicHours counts model-week slots tagged action. One slot is
// one hour.
func CalculateStrategicHours(state domain.AppState) int {
	n := 0
	for _, b := range state.ModelWeek {
		if b == domain.BlockAction {
			n++
		}
	}
	return n
}

// TierName classifies an execution score.
type TierName string

// Score tiers.
const (
	TierGood TierName = "good"
	TierWarn TierName = "warn"
	TierBad  TierName = "bad"
)

// Tier pairs a tier with the message shown next to the score.
type Tier struct {
	Name    TierName
	Message string
}

// ScoreTier maps a score onto the good (>=85), warn (>=65) or bad tier.
func ScoreTier(score int) Tier {
	switch {
	case score >= 85:
		return Tier{Name: TierGood, Message: "Excellent! Statistically likely to hit goals."}
	case score >= 65:
		return Tier{Name: TierWarn, Message: "Keep pushing. Focus on high-impact tactics."}
	default:
		return Tier{Name: TierBad, Message: "Lagging behind. Reclaim your calendar."}
	}
}

// Point is one chart sample.
type Point struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// Series returns the archived history as chart points labelled W<week>, in
// history order. It is rebuilt from scratch on every call.
func Series(state domain.AppState) []Point {
	out := make([]Point, 0, len(state.Metrics.WESHistory))
	for _, h := range state.Metrics.WESHistory {
		out = append(out, Point{Label: "W" + strconv.Itoa(h.Week), Score: h.Score})
	}
	return out
}

// Summary is the dashboard view of the current week.
type Summary struct {
	Week           int                `json:"week"`
	SprintComplete bool               `json:"sprintComplete"`
	Vision         string             `json:"vision"`
	Score          int                `json:"score"`
	Tier           TierName           `json:"tier"`
	TierMessage    string             `json:"tierMessage"`
	Phase          domain.Phase       `json:"phase"`
	PhaseMessage   string             `json:"phaseMessage,omitempty"`
	StrategicHours int                `json:"strategicHours"`
	Tactics        int                `json:"tactics"`
	Completed      int                `json:"completed"`
	Lag            string             `json:"lag,omitempty"`
	Lead           string             `json:"lead,omitempty"`
	HealthLogs     []domain.HealthLog `json:"healthLogs"`
	DueDates       []domain.DueDate   `json:"dueDates"`
	History        []Point            `json:"history"`
}

// Summarize assembles everything a dashboard renders after a mutation.
func Summarize(state domain.AppState) Summary {
	score := CalculateWES(state)
	tier := ScoreTier(score)
	phase := EvaluateEmotionalPhase(state)
	s := Summary{
		Week:           state.CurrentWeek,
		SprintComplete: state.CurrentWeek >= domain.SprintCompleteWeek,
		Vision:         state.Vision,
		Score:          score,
		Tier:           tier.Name,
		TierMessage:    tier.Message,
		Phase:          phase.Phase,
		PhaseMessage:   phase.Message,
		StrategicHours: CalculateStrategicHours(state),
		Lag:            state.MetricValue(state.CurrentWeek, domain.MetricLag),
		Lead:           state.MetricValue(state.CurrentWeek, domain.MetricLead),
		HealthLogs:     HealthLogsForWeek(state, state.CurrentWeek),
		DueDates:       append([]domain.DueDate{}, state.DueDates...),
		History:        Series(state),
	}
	for _, g := range state.Goals {
		for _, t := range g.Tactics {
			if t.EffectiveWeek() == state.CurrentWeek {
				s.Tactics++
				if t.Completed {
					s.Completed++
				}
			}
		}
	}
	return s
}

// HealthLogsForWeek filters health logs captured during week, newest first.
func HealthLogsForWeek(state domain.AppState, week int) []domain.HealthLog {
	out := []domain.HealthLog{}
	for _, h := range state.HealthLogs {
		if h.Week == week {
			out = append(out, h)
		}
	}
	return out
}
