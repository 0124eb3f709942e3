package models

// SnakeProgress is the durable record of the counting snake game.
type SnakeProgress struct {
	CompletedLevels       []int          `json:"completedLevels"`
	HighScores            map[string]int `json:"highScores"`
	TotalNumbersCollected int            `json:"totalNumbersCollected"`
	TotalGamesPlayed      int            `json:"totalGamesPlayed"`
	Achievements          []string       `json:"achievements"`
	BestStreak            int            `json:"bestStreak"`
	CurrentStreak         int            `json:"currentStreak"`
}

// NewSnakeProgress returns an empty record.
func NewSnakeProgress() SnakeProgress {
	return SnakeProgress{
		CompletedLevels: []int{},
		HighScores:      map[string]int{},
		Achievements:    []string{},
	}
}

// HasCompleted reports whether level is in the completed set.
func (p SnakeProgress) HasCompleted(level int) bool {
	for _, l := range p.CompletedLevels {
		if l == level {
			return true
		}
	}
	return false
}
