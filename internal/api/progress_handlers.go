package api

import (
	"net/http"

	"github.com/starydv7/puzzle/internal/achievement"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/services"
)

type streakView struct {
	models.StreakState
	Current   int    `json:"current"`
	Message   string `json:"message"`
	Milestone bool   `json:"milestone"`
}

type achievementView struct {
	models.Achievement
	Unlocked bool `json:"unlocked"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.Progress.GetProgress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if err := s.Progress.ResetProgress(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("puzzle progress reset")
	w.WriteHeader(http.StatusNoContent)
}

// handleStreak shows the stored streak plus what playing today would make it.
func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, err := s.Streak.CurrentStreak(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	preview, err := s.Streak.Preview(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, streakView{
		StreakState: preview,
		Current:     current,
		Message:     services.StreakMessage(preview.CurrentStreak),
		Milestone:   services.IsStreakMilestone(preview.CurrentStreak),
	})
}

func (s *Server) handleDailyChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.Daily.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, challenge)
}

// handleAchievements lists every achievement with its unlocked flag.
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.Achievements.Unlocked(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	earned := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		earned[a.ID] = true
	}

	defs := achievement.Definitions()
	out := make([]achievementView, 0, len(defs))
	for _, a := range defs {
		out = append(out, achievementView{Achievement: a, Unlocked: earned[a.ID]})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleNewAchievements(w http.ResponseWriter, r *http.Request) {
	fresh, err := s.Achievements.CheckNew(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if fresh == nil {
		fresh = []models.Achievement{}
	}
	writeJSON(w, r, http.StatusOK, fresh)
}

func (s *Server) handleAdjustment(w http.ResponseWriter, r *http.Request) {
	tier, ok := tierParam(w, r)
	if !ok {
		return
	}
	adj := s.Adaptive.CalculateDifficultyAdjustment(r.Context(), tier)
	writeJSON(w, r, http.StatusOK, map[string]any{"tier": tier, "adjustment": adj})
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	tier, ok := tierParam(w, r)
	if !ok {
		return
	}
	rec, err := s.Adaptive.GetRecommendedPuzzle(r.Context(), tier)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	tier, ok := tierParam(w, r)
	if !ok {
		return
	}
	summary, err := s.Adaptive.GetPerformanceSummary(r.Context(), tier)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.Story.ListChapters(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chapters)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Settings.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, err := s.Settings.Get(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	// Fields missing from the body keep their current values.
	req := current
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := s.Settings.Update(ctx, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}
