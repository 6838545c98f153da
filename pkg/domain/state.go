// Package domain defines the persistent state tree, value types, and
// default-resolution helpers used by sprintpulse.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SchemaVersion is the version stamped on freshly created state trees. No
// load path branches on it yet.
const SchemaVersion = 1

// Sprint boundaries.
const (
	// FirstWeek is the first week of a sprint.
	FirstWeek = 1
	// LastWeek is the last week that carries tactics and metrics.
	LastWeek = 12
	// SprintCompleteWeek marks a finished sprint; the week counter stops here.
	SprintCompleteWeek = 13
)

// AppState is the root of the single mutable state tree.
type AppState struct {
	Version            int                     `json:"version"`
	OnboardingComplete bool                    `json:"onboardingComplete"`
	CurrentWeek        int                     `json:"currentWeek"`
	Vision             string                  `json:"vision"`
	Goals              []Goal                  `json:"goals"`
	Metrics            Metrics                 `json:"metrics"`
	EmotionalHistory   map[int]Phase           `json:"emotionalHistory"`
	HealthLogs         []HealthLog             `json:"healthLogs"`
	OpenWeeks          map[string]map[int]bool `json:"openWeeks"`
	DueDates           []DueDate               `json:"dueDates,omitempty"`
	ModelWeek          map[SlotKey]BlockType   `json:"modelWeek,omitempty"`
}

// Goal is a top-level 12-week objective. Tactics of every week live in one
// ordered list and are grouped by their week at read time.
type Goal struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Tactics []Tactic `json:"tactics"`
}

// Tactic is a weekly actionable item under a goal.
type Tactic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	// Week is optional on the wire; zero means unset. Use EffectiveWeek.
	Week int `json:"week,omitempty"`
}

// UnmarshalJSON accepts the week as a number or a numeric string. An empty
// string, false, or null leave the week unset.
func (t *Tactic) UnmarshalJSON(data []byte) error {
	type plain Tactic
	var wire struct {
		plain
		Week json.RawMessage `json:"week"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	week, err := parseLooseWeek(wire.Week)
	if err != nil {
		return fmt.Errorf("tactic %s: %w", wire.ID, err)
	}
	*t = Tactic(wire.plain)
	t.Week = week
	return nil
}

func parseLooseWeek(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return 0, nil
	}
	var n json.Number
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		n = json.Number(strings.TrimSpace(s))
	} else if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("week %s is not a number", raw)
	}
	if week, err := strconv.Atoi(n.String()); err == nil {
		return week, nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("week %s is not a whole number", raw)
	}
	return int(f), nil
}

// EffectiveWeek resolves the tactic's week, treating an unset week as week 1.
func (t Tactic) EffectiveWeek() int {
	if t.Week <= 0 {
		return FirstWeek
	}
	return t.Week
}

// WeekSnapshot archives the outcome of a completed week.
type WeekSnapshot struct {
	Week           int    `json:"week"`
	Score          int    `json:"score"`
	StrategicHours int    `json:"strategicHours"`
	Lag            string `json:"lag,omitempty"`
	Lead           string `json:"lead,omitempty"`
}

// HealthLog is a dated free-text note bound to the week it was captured in.
type HealthLog struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Week int    `json:"week"`
	Note string `json:"note"`
}

// DueDate is a free-text deadline entry.
type DueDate struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

// DueDateField names an editable DueDate field.
type DueDateField string

// Editable due date fields.
const (
	DueDateTitle    DueDateField = "title"
	DueDateType     DueDateField = "type"
	DueDateDuration DueDateField = "duration"
)

// Set assigns value to the named field and reports whether the field exists.
func (d *DueDate) Set(field DueDateField, value string) bool {
	switch field {
	case DueDateTitle:
		d.Title = value
	case DueDateType:
		d.Type = value
	case DueDateDuration:
		d.Duration = value
	default:
		return false
	}
	return true
}

// Phase is the self-reported emotional phase for a week.
type Phase string

// Phases offered to the user, in display order.
const (
	PhaseAmazed      Phase = "Amazed"
	PhasePeaceful    Phase = "Peaceful"
	PhasePassionate  Phase = "Passionate"
	PhaseFrustrated  Phase = "Frustrated"
	PhasePurposeless Phase = "Purposeless"
	PhaseDepressed   Phase = "Depressed"
)

// Phases lists the selectable emotional phases.
func Phases() []Phase {
	return []Phase{PhaseAmazed, PhasePeaceful, PhasePassionate, PhaseFrustrated, PhasePurposeless, PhaseDepressed}
}

// FindGoal returns a pointer into s.Goals for id.
func (s *AppState) FindGoal(id string) (*Goal, bool) {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return &s.Goals[i], true
		}
	}
	return nil, false
}

// FindTactic returns a pointer into g.Tactics for id.
func (g *Goal) FindTactic(id string) (*Tactic, bool) {
	i := g.TacticIndex(id)
	if i < 0 {
		return nil, false
	}
	return &g.Tactics[i], true
}

// TacticIndex returns the position of id in g.Tactics or -1.
func (g *Goal) TacticIndex(id string) int {
	for i := range g.Tactics {
		if g.Tactics[i].ID == id {
			return i
		}
	}
	return -1
}

// TacticsForWeek returns copies of the goal's tactics whose effective week is week, in list order.
func (g Goal) TacticsForWeek(week int) []Tactic {
	var out []Tactic
	for _, t := range g.Tactics {
		if t.EffectiveWeek() == week {
			out = append(out, t)
		}
	}
	return out
}

// MetricValue returns the lag or lead text recorded for week.
func (s AppState) MetricValue(week int, kind MetricKind) string {
	return s.Metrics.Values[MetricKey{Week: week, Kind: kind}]
}

// BlockAt resolves the tag of a model-week slot; absent slots are empty.
func (s AppState) BlockAt(key SlotKey) BlockType {
	if b, ok := s.ModelWeek[key]; ok && b != "" {
		return b
	}
	return BlockEmpty
}

// IsOpen reports whether the goal's accordion for week is expanded.
func (s AppState) IsOpen(goalID string, week int) bool {
	return s.OpenWeeks[goalID][week]
}

// Clone returns a deep copy of the state tree. Empty collections stay
// non-nil so a clone encodes exactly like its source.
func (s AppState) Clone() AppState {
	out := s
	out.Goals = slices.Clone(s.Goals)
	for i := range out.Goals {
		out.Goals[i].Tactics = slices.Clone(out.Goals[i].Tactics)
	}
	out.Metrics = s.Metrics.clone()
	out.EmotionalHistory = cloneMap(s.EmotionalHistory)
	out.HealthLogs = slices.Clone(s.HealthLogs)
	if s.OpenWeeks != nil {
		out.OpenWeeks = make(map[string]map[int]bool, len(s.OpenWeeks))
		for id, weeks := range s.OpenWeeks {
			out.OpenWeeks[id] = cloneMap(weeks)
		}
	}
	out.DueDates = slices.Clone(s.DueDates)
	out.ModelWeek = cloneMap(s.ModelWeek)
	return out
}

// Normalize replaces nil collections a loaded document may carry (explicit
// nulls, missing members) with empty ones so mutations never write to a nil
// map. The week counter is clamped into [FirstWeek, SprintCompleteWeek].
func (s *AppState) Normalize() {
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	for i := range s.Goals {
		if s.Goals[i].Tactics == nil {
			s.Goals[i].Tactics = []Tactic{}
		}
	}
	if s.Metrics.WESHistory == nil {
		s.Metrics.WESHistory = []WeekSnapshot{}
	}
	if s.EmotionalHistory == nil {
		s.EmotionalHistory = map[int]Phase{}
	}
	if s.HealthLogs == nil {
		s.HealthLogs = []HealthLog{}
	}
	if s.OpenWeeks == nil {
		s.OpenWeeks = map[string]map[int]bool{}
	}
	switch {
	case s.CurrentWeek < FirstWeek:
		s.CurrentWeek = FirstWeek
	case s.CurrentWeek > SprintCompleteWeek:
		s.CurrentWeek = SprintCompleteWeek
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
