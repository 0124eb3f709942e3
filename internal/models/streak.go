package models

import "time"

type StreakState struct {
	CurrentStreak int        `json:"currentStreak"`
	LongestStreak int        `json:"longestStreak"`
	LastPlayDate  *time.Time `json:"lastPlayDate"`
	TotalDays     int        `json:"totalDays"`
}
