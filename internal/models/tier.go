package models

// Tier is a named difficulty bucket partitioning the puzzle catalog.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Tiers lists every tier from easiest to hardest.
var Tiers = []Tier{TierBeginner, TierIntermediate, TierAdvanced}

// ParseTier returns the tier named s and whether it exists.
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Valid()
}

func (t Tier) Valid() bool {
	switch t {
	case TierBeginner, TierIntermediate, TierAdvanced:
		return true
	}
	return false
}

// Next returns the next-harder tier, if any.
func (t Tier) Next() (Tier, bool) {
	switch t {
	case TierBeginner:
		return TierIntermediate, true
	case TierIntermediate:
		return TierAdvanced, true
	}
	return "", false
}

// Prev returns the next-easier tier, if any.
func (t Tier) Prev() (Tier, bool) {
	switch t {
	case TierAdvanced:
		return TierIntermediate, true
	case TierIntermediate:
		return TierBeginner, true
	}
	return "", false
}

// DisplayName is the label shown on the level select screen.
func (t Tier) DisplayName() string {
	switch t {
	case TierBeginner:
		return "Beginner"
	case TierIntermediate:
		return "Intermediate"
	case TierAdvanced:
		return "Advanced"
	}
	return string(t)
}

// AgeGroup is the recommended learner age for the tier.
func (t Tier) AgeGroup() string {
	switch t {
	case TierBeginner:
		return "Ages 4-6"
	case TierIntermediate:
		return "Ages 7-9"
	case TierAdvanced:
		return "Ages 10+"
	}
	return "All Ages"
}
