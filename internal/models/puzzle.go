package models

// Puzzle is a static catalog entry. Exactly one of Pattern, Sequence or
// Items carries the display payload.
type Puzzle struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Pattern     []string `json:"pattern,omitempty"`
	Sequence    []int    `json:"sequence,omitempty"`
	Items       []string `json:"items,omitempty"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

// CorrectOption returns the text of the correct option.
func (p Puzzle) CorrectOption() string {
	if p.Correct < 0 || p.Correct >= len(p.Options) {
		return ""
	}
	return p.Options[p.Correct]
}

// ShuffledPuzzle is a per-session view of a puzzle with permuted options.
// Correct points at the same option text as in the source puzzle.
type ShuffledPuzzle struct {
	Puzzle
	Tier Tier `json:"tier"`
}
