package models

// Chapter is a story-mode chapter grouping catalog puzzles.
type Chapter struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Theme           string   `json:"theme"`
	UnlockCondition string   `json:"unlockCondition"`
	Puzzles         []string `json:"puzzles"`
}

// ChapterProgress is how far a learner is through a chapter.
type ChapterProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ThemeColors are presentation hints attached to a story theme.
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
}
