package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
)

type startSessionRequest struct {
	Tier     models.Tier `json:"tier"`
	PuzzleID string      `json:"puzzleId"`
	Daily    bool        `json:"daily"`
}

type selectRequest struct {
	Index *int `json:"index"`
}

// handleStartSession starts a puzzle session. With daily set and no puzzle
// id it plays today's challenge.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if req.Daily && req.PuzzleID == "" {
		challenge, err := s.Daily.Get(ctx)
		if err != nil {
			handleError(w, r, err)
			return
		}
		req.Tier = challenge.Tier
		req.PuzzleID = challenge.Puzzle.ID
	}
	if req.PuzzleID == "" {
		handleError(w, r, errors.NewBadRequestError("puzzleId is required"))
		return
	}
	log.Debug("start session request: tier=%s puzzle=%s daily=%t", req.Tier, req.PuzzleID, req.Daily)

	snap, err := s.Play.StartSession(ctx, req.Tier, req.PuzzleID, req.Daily)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Play.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Index == nil {
		handleError(w, r, errors.NewBadRequestError("index is required"))
		return
	}

	snap, err := s.Play.Select(r.Context(), chi.URLParam(r, "id"), *req.Index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	hint, err := s.Play.Hint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"hint": hint})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	outcome, err := s.Play.SubmitAnswer(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if len(outcome.Failures) > 0 {
		log.Warn("submission %s finished with %d failed side effects", outcome.SessionID, len(outcome.Failures))
	}
	writeJSON(w, r, http.StatusOK, outcome)
}
