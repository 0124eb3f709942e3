package models

// TierProgress is the durable record of one tier.
type TierProgress struct {
	Completed    []string       `json:"completed"`
	CurrentLevel int            `json:"currentLevel"`
	Stars        map[string]int `json:"stars"`
}

// NewTierProgress returns an empty record.
func NewTierProgress() *TierProgress {
	return &TierProgress{Completed: []string{}, Stars: map[string]int{}}
}

// IsCompleted reports whether puzzleID is in the completed set.
func (p *TierProgress) IsCompleted(puzzleID string) bool {
	for _, id := range p.Completed {
		if id == puzzleID {
			return true
		}
	}
	return false
}

// TotalStars sums the best star rating of every puzzle in the tier.
func (p *TierProgress) TotalStars() int {
	total := 0
	for _, s := range p.Stars {
		total += s
	}
	return total
}

// Progress maps every tier to its record.
type Progress map[Tier]*TierProgress

// NewProgress returns a record with every tier present and empty.
func NewProgress() Progress {
	p := make(Progress, len(Tiers))
	for _, t := range Tiers {
		p[t] = NewTierProgress()
	}
	return p
}

// Normalize fills in tiers and maps missing from a decoded record.
func (p Progress) Normalize() Progress {
	if p == nil {
		return NewProgress()
	}
	for _, t := range Tiers {
		tp, ok := p[t]
		if !ok || tp == nil {
			p[t] = NewTierProgress()
			continue
		}
		if tp.Completed == nil {
			tp.Completed = []string{}
		}
		if tp.Stars == nil {
			tp.Stars = map[string]int{}
		}
	}
	return p
}

// Tier returns the record for t, never nil.
func (p Progress) Tier(t Tier) *TierProgress {
	if tp, ok := p[t]; ok && tp != nil {
		return tp
	}
	return NewTierProgress()
}

// CompletedCount is the size of t's completed set.
func (p Progress) CompletedCount(t Tier) int {
	return len(p.Tier(t).Completed)
}

// PuzzleUnlocked reports whether the puzzle at index of t is playable: the
// first always is, the rest once index puzzles of t are completed.
func (p Progress) PuzzleUnlocked(t Tier, index int) bool {
	return index <= 0 || index <= p.CompletedCount(t)
}

// TotalCompleted counts completed puzzles across all tiers.
func (p Progress) TotalCompleted() int {
	total := 0
	for _, tp := range p {
		if tp != nil {
			total += len(tp.Completed)
		}
	}
	return total
}

// PerfectCount counts puzzles rated 3 stars across all tiers.
func (p Progress) PerfectCount() int {
	count := 0
	for _, tp := range p {
		if tp == nil {
			continue
		}
		for _, s := range tp.Stars {
			if s == 3 {
				count++
			}
		}
	}
	return count
}
