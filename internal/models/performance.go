package models

import "time"

// PerformanceEntry is the latest snapshot of a learner's result on one puzzle.
type PerformanceEntry struct {
	PuzzleID   string    `json:"puzzleId"`
	Attempts   int       `json:"attempts"`
	Time       float64   `json:"time"`
	HintsUsed  int       `json:"hintsUsed"`
	Success    bool      `json:"success"`
	RecordedAt time.Time `json:"timestamp"`
}

// PerformanceHistory is keyed by puzzle id; one entry per id.
type PerformanceHistory map[string]PerformanceEntry

// PerformanceMetrics is the input to a performance upsert. Zero Attempts
// is recorded as 1.
type PerformanceMetrics struct {
	Attempts  int     `json:"attempts"`
	Time      float64 `json:"time"`
	HintsUsed int     `json:"hintsUsed"`
	Success   bool    `json:"success"`
}

// Adjustment is the advisor's difficulty recommendation.
type Adjustment string

const (
	AdjustIncrease Adjustment = "increase"
	AdjustDecrease Adjustment = "decrease"
	AdjustMaintain Adjustment = "maintain"
)

// Recommendation is the advisor's pick for the next puzzle.
type Recommendation struct {
	Tier   Tier   `json:"level"`
	Puzzle Puzzle `json:"puzzle"`
	Reason string `json:"reason"`
}

// PerformanceSummary aggregates a tier's performance entries.
type PerformanceSummary struct {
	TotalPuzzles int     `json:"totalPuzzles"`
	SuccessRate  int     `json:"successRate"`
	AvgTime      int     `json:"avgTime"`
	AvgAttempts  float64 `json:"avgAttempts"`
	SkillLevel   Tier    `json:"skillLevel"`
}
