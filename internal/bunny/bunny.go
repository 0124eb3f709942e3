// Package bunny holds the arithmetic checks and scoring of the bunny helper
// game. Level content lives in the catalog; durable progress lives in the
// services package.
package bunny

import (
	"math"

	"github.com/starydv7/puzzle/internal/models"
)

// ValidMode reports whether mode is one of models.BunnyModes.
func ValidMode(mode string) bool {
	for _, m := range models.BunnyModes {
		if m == mode {
			return true
		}
	}
	return false
}

// ShareResult is the verdict on a share-mode distribution.
type ShareResult struct {
	IsFair            bool  `json:"isFair"`
	ExpectedPerFriend int   `json:"expectedPerFriend"`
	Remainder         int   `json:"remainder"`
	Distribution      []int `json:"distribution"`
}

// IsSharingFair reports whether perFriend splits total evenly among friends.
// Every friend needs a share, and a total that does not divide evenly is
// never fair.
func IsSharingFair(perFriend []int, total, friends int) ShareResult {
	res := ShareResult{Distribution: perFriend}
	if friends <= 0 {
		return res
	}
	res.ExpectedPerFriend = total / friends
	res.Remainder = total % friends

	allEqual := len(perFriend) == friends
	for _, n := range perFriend {
		if n != res.ExpectedPerFriend {
			allEqual = false
			break
		}
	}
	res.IsFair = allEqual && res.Remainder == 0
	return res
}

// GroupResult is the verdict on a party-mode grouping.
type GroupResult struct {
	IsCorrect     bool `json:"isCorrect"`
	CorrectGroups int  `json:"correctGroups"`
	ValidGroups   int  `json:"validGroups"`
	Remainder     int  `json:"remainder"`
}

// IsGroupingCorrect checks groups, given as the item count of each group,
// against total items split into groups of groupSize.
func IsGroupingCorrect(groups []int, groupSize, total int) GroupResult {
	var res GroupResult
	if groupSize <= 0 {
		return res
	}
	res.CorrectGroups = total / groupSize
	res.Remainder = total % groupSize
	for _, n := range groups {
		if n == groupSize {
			res.ValidGroups++
		}
	}
	res.IsCorrect = res.ValidGroups == res.CorrectGroups && res.Remainder == 0
	return res
}

// Mistake kinds used by fix-mode levels.
const (
	MistakeOneExtra   = "one_extra"
	MistakeOneMissing = "one_missing"
	MistakeUneven     = "uneven"
)

// Scenario is a fix-mode puzzle: a wrong distribution the learner repairs.
type Scenario struct {
	Distribution        []int  `json:"distribution"`
	CorrectDistribution []int  `json:"correctDistribution"`
	ItemType            string `json:"itemType"`
	TotalItems          int    `json:"totalItems"`
	NumFriends          int    `json:"numFriends"`
}

// MistakeScenario builds the fair split of the level's items, with any
// remainder going to the first friends, then applies the level's mistake
// to a copy. An unknown mistake leaves the copy fair.
func MistakeScenario(level models.BunnyLevel) Scenario {
	s := Scenario{ItemType: level.ItemType, TotalItems: level.Items, NumFriends: level.Friends}
	if level.Friends <= 0 {
		return s
	}

	correct := make([]int, level.Friends)
	per := level.Items / level.Friends
	for i := range correct {
		correct[i] = per
	}
	for i := 0; i < level.Items%level.Friends; i++ {
		correct[i]++
	}

	dist := append([]int(nil), correct...)
	switch level.Mistake {
	case MistakeOneExtra:
		dist[0]++
	case MistakeOneMissing:
		dist[0] = max(0, dist[0]-1)
	case MistakeUneven:
		dist[0] += 2
		if len(dist) > 1 {
			dist[1] = max(0, dist[1]-1)
		}
	}

	s.Distribution = dist
	s.CorrectDistribution = correct
	return s
}

var difficultyMultiplier = map[string]float64{
	"easy":   1,
	"medium": 1.5,
	"hard":   2,
}

// Score is 100 points, plus up to 50 for speed, minus 10 per extra attempt,
// scaled by the level difficulty. A zero time earns no speed bonus.
func Score(difficulty string, seconds float64, attempts int) int {
	base := 100.0
	if seconds > 0 {
		base += math.Max(0, 50-seconds)
	}
	if attempts > 1 {
		base -= float64(attempts-1) * 10
	}
	mult, ok := difficultyMultiplier[difficulty]
	if !ok {
		mult = 1
	}
	return max(0, int(math.Floor(base*mult)))
}

// Reward ids accepted by AddReward.
const (
	RewardCarrotCoins   = "carrotCoins"
	RewardBunnyHats     = "bunnyHats"
	RewardHouseItems    = "houseItems"
	RewardAnimalFriends = "animalFriends"
	RewardGardenDecor   = "gardenDecor"
)

// AddReward grants one unit of the named currency. It reports false for an
// unknown id and leaves r unchanged.
func AddReward(r *models.BunnyRewards, id string) bool {
	switch id {
	case RewardCarrotCoins:
		r.CarrotCoins++
	case RewardBunnyHats:
		r.BunnyHats++
	case RewardHouseItems:
		r.HouseItems++
	case RewardAnimalFriends:
		r.AnimalFriends++
	case RewardGardenDecor:
		r.GardenDecor++
	default:
		return false
	}
	return true
}
