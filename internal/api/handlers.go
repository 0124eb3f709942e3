package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/puzzle"
	"github.com/starydv7/puzzle/internal/repository"
	"github.com/starydv7/puzzle/internal/services"
)

type Server struct {
	Store          repository.KVStore
	Catalog        *catalog.Catalog
	Progress       services.ProgressService
	Streak         services.StreakService
	Daily          services.DailyChallengeService
	Achievements   services.AchievementService
	Adaptive       services.AdaptiveService
	Story          services.StoryService
	Settings       services.SettingsService
	Play           services.PlayService
	Snake          services.SnakeService
	Bunny          services.BunnyService
	Rand           puzzle.Rand
	RequestTimeout time.Duration
}

type tierView struct {
	Tier       models.Tier `json:"tier"`
	Name       string      `json:"name"`
	AgeGroup   string      `json:"ageGroup"`
	Puzzles    int         `json:"puzzles"`
	Completed  int         `json:"completed"`
	TotalStars int         `json:"totalStars"`
	Unlocked   bool        `json:"unlocked"`
}

type puzzleView struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Stars    int    `json:"stars"`
	Unlocked bool   `json:"unlocked"`
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	log.Debug("listing tiers")

	progress, err := s.Progress.GetProgress(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}

	tiers := make([]tierView, 0, len(models.Tiers))
	for _, t := range models.Tiers {
		unlocked, err := s.Progress.IsTierUnlocked(ctx, t)
		if err != nil {
			handleError(w, r, err)
			return
		}
		tiers = append(tiers, tierView{
			Tier:       t,
			Name:       t.DisplayName(),
			AgeGroup:   t.AgeGroup(),
			Puzzles:    s.Catalog.Size(t),
			Completed:  progress.CompletedCount(t),
			TotalStars: progress.Tier(t).TotalStars(),
			Unlocked:   unlocked,
		})
	}
	writeJSON(w, r, http.StatusOK, tiers)
}

func (s *Server) handleTierPuzzles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	tier, ok := tierParam(w, r)
	if !ok {
		return
	}
	log.Debug("listing puzzles for tier %s", tier)

	progress, err := s.Progress.GetProgress(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	stars := progress.Tier(tier).Stars

	puzzles := s.Catalog.Puzzles(tier)
	out := make([]puzzleView, 0, len(puzzles))
	for i, p := range puzzles {
		out = append(out, puzzleView{
			ID:       p.ID,
			Type:     p.Type,
			Index:    i,
			Stars:    stars[p.ID],
			Unlocked: progress.PuzzleUnlocked(tier, i),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// tierParam reads the {tier} URL parameter, writing a 400 when it is unknown.
func tierParam(w http.ResponseWriter, r *http.Request) (models.Tier, bool) {
	tier, ok := models.ParseTier(chi.URLParam(r, "tier"))
	if !ok {
		handleError(w, r, errors.NewBadRequestError("unknown tier: "+chi.URLParam(r, "tier")))
		return "", false
	}
	return tier, true
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid "+name+": "+raw))
		return 0, false
	}
	return v, true
}

// randomLine picks one of lines using the server's random source.
func (s *Server) randomLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	if s.Rand == nil {
		return lines[0]
	}
	return lines[s.Rand.IntN(len(lines))]
}
