package models

// SideEffectFailure describes one persistence step of a submission that
// failed. The outcome still carries the optimistic values.
type SideEffectFailure struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
	Queued    bool   `json:"queued"`
}

// SubmitOutcome is everything the presentation layer needs after a
// submission: whether it was right, stars, and celebration triggers.
type SubmitOutcome struct {
	SessionID       string              `json:"sessionId"`
	IsCorrect       bool                `json:"isCorrect"`
	Attempt         int                 `json:"attempt"`
	ElapsedSeconds  int                 `json:"elapsedSeconds"`
	Stars           int                 `json:"stars"`
	Explanation     string              `json:"explanation,omitempty"`
	Streak          *StreakState        `json:"streak,omitempty"`
	StreakMilestone bool                `json:"streakMilestone"`
	NewAchievements []Achievement       `json:"newAchievements,omitempty"`
	Failures        []SideEffectFailure `json:"failures,omitempty"`
}
