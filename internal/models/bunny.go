package models

// BunnyRewards is the cosmetic currency ledger. Balances only grow.
type BunnyRewards struct {
	CarrotCoins   int `json:"carrotCoins"`
	BunnyHats     int `json:"bunnyHats"`
	HouseItems    int `json:"houseItems"`
	AnimalFriends int `json:"animalFriends"`
	GardenDecor   int `json:"gardenDecor"`
}

// BunnyProgress is the durable record of the bunny helper game.
type BunnyProgress struct {
	CompletedLevels map[string][]int `json:"completedLevels"`
	Scores          map[string]int   `json:"scores"`
	Rewards         BunnyRewards     `json:"rewards"`
	BunnyHappiness  int              `json:"bunnyHappiness"`
	HouseLevel      int              `json:"houseLevel"`
	TotalHelps      int              `json:"totalHelps"`
}

// NewBunnyProgress returns an empty record.
func NewBunnyProgress() BunnyProgress {
	return BunnyProgress{
		CompletedLevels: map[string][]int{},
		Scores:          map[string]int{},
		HouseLevel:      1,
	}
}

// HasCompleted reports whether levelID is completed in mode.
func (p BunnyProgress) HasCompleted(mode string, levelID int) bool {
	for _, id := range p.CompletedLevels[mode] {
		if id == levelID {
			return true
		}
	}
	return false
}

// Bunny game modes.
const (
	BunnyModeCollect = "collect"
	BunnyModeShare   = "share"
	BunnyModeParty   = "party"
	BunnyModeFix     = "fix"
)

// BunnyModes lists every mode in menu order.
var BunnyModes = []string{BunnyModeCollect, BunnyModeShare, BunnyModeParty, BunnyModeFix}

// BunnyLevel is one static level. Which fields apply depends on the mode:
// collect uses Target, share and fix use Items and Friends, party uses
// Items and GroupSize.
type BunnyLevel struct {
	ID         int    `json:"id"`
	Target     int    `json:"target,omitempty"`
	Items      int    `json:"items,omitempty"`
	Friends    int    `json:"friends,omitempty"`
	GroupSize  int    `json:"groupSize,omitempty"`
	ItemType   string `json:"itemType"`
	Mistake    string `json:"mistake,omitempty"`
	Difficulty string `json:"difficulty"`
}

// BunnyReward describes one reward currency offered after a level.
type BunnyReward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}
