package snake

import (
	"strings"
	"time"
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = map[Direction]string{Up: "UP", Down: "DOWN", Left: "LEFT", Right: "RIGHT"}

func (d Direction) String() string { return directionNames[d] }

// ParseDirection accepts UP, DOWN, LEFT or RIGHT in any case.
func ParseDirection(s string) (Direction, bool) {
	for d, name := range directionNames {
		if strings.EqualFold(name, s) {
			return d, true
		}
	}
	return 0, false
}

func (d Direction) delta() Point {
	switch d {
	case Up:
		return Point{0, -1}
	case Down:
		return Point{0, 1}
	case Left:
		return Point{-1, 0}
	default:
		return Point{1, 0}
	}
}

func (d Direction) opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Food is a number placed on the grid.
type Food struct {
	Point
	Number    int  `json:"number"`
	IsCorrect bool `json:"isCorrect"`
}

type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "playing"
}

// Terminal reports whether the run is over.
func (s Status) Terminal() bool { return s != Playing }

// LossReason says why a run was lost.
const (
	ReasonWall        = "wall"
	ReasonSelf        = "self"
	ReasonWrongNumber = "wrong_number"
)

// DistractorCount is how many wrong numbers share the grid with the correct one.
const DistractorCount = 3

const sequenceLength = 100

// Game is one snake run. It is not safe for concurrent use; Runner
// serializes access.
type Game struct {
	cfg      Level
	rng      Rand
	now      func() time.Time
	sequence []int

	body      []Point
	heading   Direction
	moved     Direction
	foods     []Food
	index     int
	collected int
	status    Status
	reason    string
	startedAt time.Time
	endedAt   time.Time
}

// NewGame lays the snake along the middle row with its head at the right
// end, heading right, and places the first numbers.
func NewGame(cfg Level, rng Rand, now func() time.Time) *Game {
	if now == nil {
		now = time.Now
	}
	grid := cfg.Difficulty.GridSize
	body := make([]Point, 0, cfg.Difficulty.StartLength)
	for i := cfg.Difficulty.StartLength - 1; i >= 0; i-- {
		body = append(body, Point{X: i, Y: grid / 2})
	}
	g := &Game{
		cfg:       cfg,
		rng:       rng,
		now:       now,
		sequence:  GenerateSequence(cfg.Mode, cfg.StartNumber, sequenceLength),
		body:      body,
		heading:   Right,
		moved:     Right,
		startedAt: now(),
	}
	g.spawnFood()
	return g
}

// Expected is the next number the learner must collect.
func (g *Game) Expected() int {
	if g.index < len(g.sequence) {
		return g.sequence[g.index]
	}
	return 0
}

func (g *Game) Status() Status { return g.status }

// Turn changes heading for the next tick. Reversing against the last move
// is ignored and reported as false.
func (g *Game) Turn(d Direction) bool {
	if g.status.Terminal() || d == g.moved.opposite() {
		return false
	}
	g.heading = d
	return true
}

// Tick advances the snake one cell and returns the resulting status.
func (g *Game) Tick() Status {
	if g.status.Terminal() {
		return g.status
	}

	head := g.body[0]
	delta := g.heading.delta()
	next := Point{X: head.X + delta.X, Y: head.Y + delta.Y}

	grid := g.cfg.Difficulty.GridSize
	if next.X < 0 || next.X >= grid || next.Y < 0 || next.Y >= grid {
		g.finish(Lost, ReasonWall)
		return g.status
	}

	food, eaten := g.foodAt(next)
	growing := eaten && food.Number == g.Expected()

	// The tail cell is vacated this tick unless the snake grows.
	body := g.body
	if !growing {
		body = body[:len(body)-1]
	}
	for _, p := range body {
		if p == next {
			g.finish(Lost, ReasonSelf)
			return g.status
		}
	}

	g.body = append([]Point{next}, body...)
	g.moved = g.heading

	if !eaten {
		return g.status
	}
	if !growing {
		g.finish(Lost, ReasonWrongNumber)
		return g.status
	}

	g.collected++
	g.index++
	if g.collected >= WinTarget {
		g.foods = nil
		g.finish(Won, "")
		return g.status
	}
	g.spawnFood()
	return g.status
}

func (g *Game) finish(s Status, reason string) {
	g.status = s
	g.reason = reason
	g.endedAt = g.now()
}

func (g *Game) foodAt(p Point) (Food, bool) {
	for _, f := range g.foods {
		if f.Point == p {
			return f, true
		}
	}
	return Food{}, false
}

// spawnFood places the expected number and its distractors on free cells.
func (g *Game) spawnFood() {
	g.foods = g.foods[:0]
	expected := g.Expected()
	if expected == 0 {
		return
	}
	numbers := append([]int{expected}, GenerateDistractors(expected, g.cfg.Mode, DistractorCount, g.rng)...)
	for i, n := range numbers {
		p, ok := g.freeCell()
		if !ok {
			return
		}
		g.foods = append(g.foods, Food{Point: p, Number: n, IsCorrect: i == 0})
	}
}

const maxPlacementDraws = 100

func (g *Game) freeCell() (Point, bool) {
	grid := g.cfg.Difficulty.GridSize
	for i := 0; i < maxPlacementDraws; i++ {
		p := Point{X: g.rng.IntN(grid), Y: g.rng.IntN(grid)}
		if g.occupied(p) {
			continue
		}
		return p, true
	}
	return Point{}, false
}

func (g *Game) occupied(p Point) bool {
	for _, b := range g.body {
		if b == p {
			return true
		}
	}
	for _, f := range g.foods {
		if f.Point == p {
			return true
		}
	}
	return false
}

// Elapsed is the run time so far, or the final run time once terminal.
func (g *Game) Elapsed() time.Duration {
	if g.status.Terminal() {
		return g.endedAt.Sub(g.startedAt)
	}
	return g.now().Sub(g.startedAt)
}

// Score is the run's score at this moment.
func (g *Game) Score() int {
	return Score(g.collected, g.Elapsed(), g.cfg.Difficulty, g.cfg.Mode)
}

// State is a copy of the run for presentation.
type State struct {
	Level      int     `json:"level"`
	Difficulty string  `json:"difficulty"`
	Mode       Mode    `json:"mode"`
	GridSize   int     `json:"gridSize"`
	Snake      []Point `json:"snake"`
	Heading    string  `json:"heading"`
	Foods      []Food  `json:"foods"`
	Expected   int     `json:"expected"`
	Collected  int     `json:"collected"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
	Score      int     `json:"score"`
	ElapsedMs  int64   `json:"elapsedMs"`
}

func (g *Game) State() State {
	return State{
		Level:      g.cfg.Level,
		Difficulty: g.cfg.Difficulty.Key,
		Mode:       g.cfg.Mode,
		GridSize:   g.cfg.Difficulty.GridSize,
		Snake:      append([]Point(nil), g.body...),
		Heading:    g.heading.String(),
		Foods:      append([]Food(nil), g.foods...),
		Expected:   g.Expected(),
		Collected:  g.collected,
		Status:     g.status.String(),
		Reason:     g.reason,
		Score:      g.Score(),
		ElapsedMs:  g.Elapsed().Milliseconds(),
	}
}

// Config returns the level configuration the run was started with.
func (g *Game) Config() Level { return g.cfg }

// Collected is the number of correct values eaten so far.
func (g *Game) Collected() int { return g.collected }
