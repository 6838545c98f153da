package domain

// DefaultVision is the placeholder vision of a fresh install.
const DefaultVision = "Define your 12-week vision here..."

// DefaultState returns the state tree a new user starts with, including one
// example goal so the planner is not empty on first launch.
func DefaultState() AppState {
	return AppState{
		Version:            SchemaVersion,
		OnboardingComplete: false,
		CurrentWeek:        FirstWeek,
		Vision:             DefaultVision,
		Goals: []Goal{
			{
				ID:    "g1",
				Title: "Launch MVP Website",
				Tactics: []Tactic{
					{ID: "t1", Title: "Draft PRFAQ", Completed: false},
					{ID: "t2", Title: "Set up Repo", Completed: true},
				},
			},
		},
		Metrics:          Metrics{WESHistory: []WeekSnapshot{}},
		EmotionalHistory: map[int]Phase{},
		HealthLogs:       []HealthLog{},
		OpenWeeks:        map[string]map[int]bool{},
	}
}
