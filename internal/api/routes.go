package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// The snake stream is long-lived and bypasses the request timeout.
	r.Get("/snake/runs/{id}/stream", s.handleSnakeStream)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(s.RequestTimeout))

		r.Get("/tiers", s.handleTiers)
		r.Get("/tiers/{tier}/puzzles", s.handleTierPuzzles)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/select", s.handleSelect)
		r.Post("/sessions/{id}/hint", s.handleHint)
		r.Post("/sessions/{id}/submit", s.handleSubmit)

		r.Get("/progress", s.handleProgress)
		r.Delete("/progress", s.handleResetProgress)
		r.Get("/streak", s.handleStreak)
		r.Get("/daily-challenge", s.handleDailyChallenge)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/achievements/new", s.handleNewAchievements)
		r.Get("/adaptive/{tier}/adjustment", s.handleAdjustment)
		r.Get("/adaptive/{tier}/recommendation", s.handleRecommendation)
		r.Get("/adaptive/{tier}/summary", s.handleSummary)
		r.Get("/story/chapters", s.handleChapters)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Post("/snake/runs", s.handleStartSnakeRun)
		r.Get("/snake/runs/{id}", s.handleGetSnakeRun)
		r.Post("/snake/runs/{id}/turn", s.handleSnakeTurn)
		r.Delete("/snake/runs/{id}", s.handleStopSnakeRun)
		r.Get("/snake/progress", s.handleSnakeProgress)
		r.Delete("/snake/progress", s.handleResetSnakeProgress)

		r.Get("/bunny/levels/{mode}", s.handleBunnyLevels)
		r.Post("/bunny/levels/{mode}/{id}/complete", s.handleBunnyComplete)
		r.Post("/bunny/share/check", s.handleShareCheck)
		r.Post("/bunny/group/check", s.handleGroupCheck)
		r.Get("/bunny/rewards", s.handleBunnyRewards)
		r.Get("/bunny/progress", s.handleBunnyProgress)
		r.Delete("/bunny/progress", s.handleResetBunnyProgress)
	})
	return r
}
