package bunny_test

import (
	"testing"

	"github.com/starydv7/puzzle/internal/bunny"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsSharingFair(t *testing.T) {
	tests := []struct {
		name      string
		perFriend []int
		total     int
		friends   int
		fair      bool
		expected  int
		remainder int
	}{
		{"even split", []int{3, 3, 3}, 9, 3, true, 3, 0},
		{"uneven split", []int{4, 3, 2}, 9, 3, false, 3, 0},
		{"indivisible total", []int{3, 3, 3}, 10, 3, false, 3, 1},
		{"no friends", []int{}, 4, 0, false, 0, 0},
		{"a friend left out", []int{3, 3}, 9, 3, false, 3, 0},
		{"too many shares", []int{3, 3, 3, 3}, 9, 3, false, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := bunny.IsSharingFair(tt.perFriend, tt.total, tt.friends)
			assert.Equal(t, tt.fair, res.IsFair)
			assert.Equal(t, tt.expected, res.ExpectedPerFriend)
			assert.Equal(t, tt.remainder, res.Remainder)
			assert.Equal(t, tt.perFriend, res.Distribution)
		})
	}
}

func TestIsGroupingCorrect(t *testing.T) {
	tests := []struct {
		name    string
		groups  []int
		size    int
		total   int
		correct bool
		valid   int
	}{
		{"three pairs", []int{2, 2, 2}, 2, 6, true, 3},
		{"one group short", []int{2, 2, 1, 1}, 2, 6, false, 2},
		{"extra group", []int{3, 3, 3, 3}, 3, 9, false, 4},
		{"remainder never correct", []int{4, 4}, 4, 9, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := bunny.IsGroupingCorrect(tt.groups, tt.size, tt.total)
			assert.Equal(t, tt.correct, res.IsCorrect)
			assert.Equal(t, tt.valid, res.ValidGroups)
			assert.Equal(t, tt.total/tt.size, res.CorrectGroups)
		})
	}
}

func TestMistakeScenario(t *testing.T) {
	tests := []struct {
		name    string
		level   models.BunnyLevel
		dist    []int
		correct []int
	}{
		{
			name:    "one extra",
			level:   models.BunnyLevel{Items: 6, Friends: 2, Mistake: bunny.MistakeOneExtra, ItemType: "carrot"},
			dist:    []int{4, 3},
			correct: []int{3, 3},
		},
		{
			name:    "one missing",
			level:   models.BunnyLevel{Items: 9, Friends: 3, Mistake: bunny.MistakeOneMissing},
			dist:    []int{2, 3, 3},
			correct: []int{3, 3, 3},
		},
		{
			name:    "uneven",
			level:   models.BunnyLevel{Items: 12, Friends: 3, Mistake: bunny.MistakeUneven},
			dist:    []int{6, 3, 4},
			correct: []int{4, 4, 4},
		},
		{
			name:    "remainder goes to the first friends",
			level:   models.BunnyLevel{Items: 7, Friends: 3},
			dist:    []int{3, 2, 2},
			correct: []int{3, 2, 2},
		},
		{
			name:    "one missing never goes negative",
			level:   models.BunnyLevel{Items: 0, Friends: 2, Mistake: bunny.MistakeOneMissing},
			dist:    []int{0, 0},
			correct: []int{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := bunny.MistakeScenario(tt.level)
			assert.Equal(t, tt.dist, s.Distribution)
			assert.Equal(t, tt.correct, s.CorrectDistribution)
			assert.Equal(t, tt.level.Items, s.TotalItems)
			assert.Equal(t, tt.level.Friends, s.NumFriends)
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		seconds    float64
		attempts   int
		want       int
	}{
		{"fast easy first try", "easy", 10, 1, 140},
		{"slow easy", "easy", 80, 1, 100},
		{"medium with retries", "medium", 20, 3, 165},
		{"hard", "hard", 25.5, 1, 249},
		{"zero time gets no bonus", "easy", 0, 1, 100},
		{"unknown difficulty is easy", "wild", 50, 1, 100},
		{"never negative", "easy", 100, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bunny.Score(tt.difficulty, tt.seconds, tt.attempts))
		})
	}
}

func TestAddReward(t *testing.T) {
	var r models.BunnyRewards
	assert.True(t, bunny.AddReward(&r, bunny.RewardCarrotCoins))
	assert.True(t, bunny.AddReward(&r, bunny.RewardCarrotCoins))
	assert.True(t, bunny.AddReward(&r, bunny.RewardGardenDecor))
	assert.False(t, bunny.AddReward(&r, "gold"))

	assert.Equal(t, models.BunnyRewards{CarrotCoins: 2, GardenDecor: 1}, r)
}

func TestValidMode(t *testing.T) {
	for _, m := range models.BunnyModes {
		assert.True(t, bunny.ValidMode(m))
	}
	assert.False(t, bunny.ValidMode("dig"))
}
