package models

// DailyChallenge is the once-per-day puzzle pick. Date is the local
// calendar day formatted as 2006-01-02.
type DailyChallenge struct {
	Date      string `json:"date"`
	Puzzle    Puzzle `json:"puzzle"`
	Tier      Tier   `json:"level"`
	Completed bool   `json:"completed"`
}
