package snake

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Rand is the randomness source for food placement. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// SharedRand draws from the process-wide generator and is safe for
// concurrent runs.
var SharedRand Rand = globalRand{}

// Mode is a skip-counting step.
type Mode struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Step        int     `json:"step"`
	Description string  `json:"description"`
	Multiplier  float64 `json:"multiplier"`
}

var (
	CountBy1  = Mode{Key: "COUNT_BY_1", Name: "Count by 1", Step: 1, Description: "1, 2, 3, 4, 5...", Multiplier: 1}
	CountBy2  = Mode{Key: "COUNT_BY_2", Name: "Count by 2", Step: 2, Description: "2, 4, 6, 8, 10...", Multiplier: 1.2}
	CountBy3  = Mode{Key: "COUNT_BY_3", Name: "Count by 3", Step: 3, Description: "3, 6, 9, 12, 15...", Multiplier: 1.5}
	CountBy5  = Mode{Key: "COUNT_BY_5", Name: "Count by 5", Step: 5, Description: "5, 10, 15, 20, 25...", Multiplier: 2}
	CountBy10 = Mode{Key: "COUNT_BY_10", Name: "Count by 10", Step: 10, Description: "10, 20, 30, 40, 50...", Multiplier: 2.5}
)

// Difficulty controls tick speed and starting length.
type Difficulty struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	SpeedMs     int     `json:"speedMs"`
	GridSize    int     `json:"gridSize"`
	StartLength int     `json:"startLength"`
	Multiplier  float64 `json:"multiplier"`
}

var (
	Easy   = Difficulty{Key: "EASY", Name: "Easy", SpeedMs: 200, GridSize: 20, StartLength: 3, Multiplier: 1}
	Medium = Difficulty{Key: "MEDIUM", Name: "Medium", SpeedMs: 150, GridSize: 20, StartLength: 4, Multiplier: 1.5}
	Hard   = Difficulty{Key: "HARD", Name: "Hard", SpeedMs: 100, GridSize: 20, StartLength: 5, Multiplier: 2}
)

// Interval is the time between ticks.
func (d Difficulty) Interval() time.Duration {
	return time.Duration(d.SpeedMs) * time.Millisecond
}

// Difficulties lists every difficulty from slowest to fastest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts EASY, MEDIUM or HARD in any case.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if strings.EqualFold(d.Key, s) {
			return d, true
		}
	}
	return Difficulty{}, false
}

// MaxLevel is the highest snake level.
const MaxLevel = 10

// WinTarget is how many correct numbers win a run.
const WinTarget = 20

// Level is the full configuration of one run.
type Level struct {
	Level       int        `json:"level"`
	Mode        Mode       `json:"mode"`
	MaxNumber   int        `json:"maxNumber"`
	StartNumber int        `json:"startNumber"`
	Difficulty  Difficulty `json:"difficulty"`
}

type levelDef struct {
	mode      Mode
	maxNumber int
}

var levels = map[int]levelDef{
	1:  {CountBy1, 20},
	2:  {CountBy1, 50},
	3:  {CountBy2, 20},
	4:  {CountBy2, 50},
	5:  {CountBy3, 30},
	6:  {CountBy3, 60},
	7:  {CountBy5, 50},
	8:  {CountBy5, 100},
	9:  {CountBy10, 100},
	10: {CountBy10, 200},
}

// LevelConfig returns the configuration for level. Unknown levels use
// level 1's mode but keep the requested level number.
func LevelConfig(level int, difficulty Difficulty) Level {
	def, ok := levels[level]
	if !ok {
		def = levels[1]
	}
	return Level{
		Level:      level,
		Mode:       def.mode,
		MaxNumber:  def.maxNumber,
		Difficulty: difficulty,
	}
}

// GenerateSequence returns start+step, start+2*step, ... of the given length.
func GenerateSequence(mode Mode, start, length int) []int {
	seq := make([]int, 0, length)
	current := start
	for i := 0; i < length; i++ {
		current += mode.Step
		seq = append(seq, current)
	}
	return seq
}

// Score rewards collected numbers plus a small speed bonus that is gone
// after the first second.
func Score(collected int, elapsed time.Duration, difficulty Difficulty, mode Mode) int {
	base := float64(collected * 10)
	bonus := math.Max(0, 1000-float64(elapsed.Milliseconds()))
	return int(math.Floor((base + bonus) * difficulty.Multiplier * mode.Multiplier))
}

const maxDistractorDraws = 200

// GenerateDistractors returns up to count distinct positive numbers within
// five of correct that do not belong to correct's step class. Count-by-one
// has no other step class, so only the value itself is excluded there.
func GenerateDistractors(correct int, mode Mode, count int, rng Rand) []int {
	seen := make(map[int]bool, count)
	out := make([]int, 0, count)
	for draws := 0; len(out) < count && draws < maxDistractorDraws; draws++ {
		wrong := correct + rng.IntN(10) - 5
		if wrong == correct || wrong <= 0 || seen[wrong] {
			continue
		}
		if mode.Step > 1 && wrong%mode.Step == correct%mode.Step {
			continue
		}
		seen[wrong] = true
		out = append(out, wrong)
	}
	return out
}
