package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starydv7/puzzle/internal/bunny"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/services"
)

type shareCheckRequest struct {
	PerFriend []int `json:"perFriend"`
	Total     int   `json:"total"`
	Friends   int   `json:"friends"`
}

type groupCheckRequest struct {
	Groups    []int `json:"groups"`
	GroupSize int   `json:"groupSize"`
	Total     int   `json:"total"`
}

type bunnyCompleteRequest struct {
	Seconds  float64 `json:"time"`
	Attempts int     `json:"attempts"`
	Reward   string  `json:"reward"`
}

type bunnyCompleteResponse struct {
	Score    int                  `json:"score"`
	Message  string               `json:"message"`
	Progress models.BunnyProgress `json:"progress"`
}

type checkResponse[T any] struct {
	Result  T      `json:"result"`
	Message string `json:"message"`
}

func (s *Server) handleBunnyLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.Bunny.Levels(r.Context(), chi.URLParam(r, "mode"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, levels)
}

func (s *Server) handleBunnyComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	mode := chi.URLParam(r, "mode")
	levelID, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req bunnyCompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Reward == "" {
		handleError(w, r, errors.NewBadRequestError("reward is required"))
		return
	}

	unlocked, err := s.Bunny.IsLevelUnlocked(ctx, mode, levelID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !unlocked {
		handleError(w, r, errors.NewConflictError("bunny level is locked"))
		return
	}

	progress, score, err := s.Bunny.RecordLevelCompletion(ctx, services.BunnyCompletion{
		Mode:     mode,
		LevelID:  levelID,
		Seconds:  req.Seconds,
		Attempts: req.Attempts,
		Reward:   req.Reward,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("bunny completion recorded: mode=%s level=%d score=%d", mode, levelID, score)
	writeJSON(w, r, http.StatusOK, bunnyCompleteResponse{
		Score:    score,
		Message:  s.randomLine(s.Catalog.BunnyMessages("happy")),
		Progress: progress,
	})
}

func (s *Server) handleShareCheck(w http.ResponseWriter, r *http.Request) {
	var req shareCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Friends <= 0 {
		handleError(w, r, errors.NewValidationError("friends", "must be positive"))
		return
	}

	res := bunny.IsSharingFair(req.PerFriend, req.Total, req.Friends)
	writeJSON(w, r, http.StatusOK, checkResponse[bunny.ShareResult]{
		Result:  res,
		Message: s.mascotLine(res.IsFair),
	})
}

func (s *Server) handleGroupCheck(w http.ResponseWriter, r *http.Request) {
	var req groupCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.GroupSize <= 0 {
		handleError(w, r, errors.NewValidationError("groupSize", "must be positive"))
		return
	}

	res := bunny.IsGroupingCorrect(req.Groups, req.GroupSize, req.Total)
	writeJSON(w, r, http.StatusOK, checkResponse[bunny.GroupResult]{
		Result:  res,
		Message: s.mascotLine(res.IsCorrect),
	})
}

func (s *Server) mascotLine(success bool) string {
	if success {
		return s.randomLine(s.Catalog.BunnyMessages("happy"))
	}
	return s.randomLine(s.Catalog.BunnyMessages("encourage"))
}

func (s *Server) handleBunnyRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Catalog.BunnyRewards())
}

func (s *Server) handleBunnyProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.Bunny.Progress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleResetBunnyProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.Bunny.Reset(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
