package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/snake"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type startSnakeRequest struct {
	Level      int    `json:"level"`
	Difficulty string `json:"difficulty"`
}

type turnRequest struct {
	Direction string `json:"direction"`
}

type snakeRunView struct {
	ID        string      `json:"id"`
	HighScore int         `json:"highScore"`
	State     snake.State `json:"state"`
}

func (s *Server) handleStartSnakeRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	req := startSnakeRequest{Level: 1, Difficulty: snake.Easy.Key}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("start snake run request: level=%d difficulty=%s", req.Level, req.Difficulty)

	runner, err := s.Snake.StartRun(ctx, req.Level, req.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	state := runner.Snapshot()
	best, err := s.Snake.HighScore(ctx, req.Level, state.Difficulty)
	if err != nil {
		log.Warn("failed to read snake high score: %v", err)
	}
	writeJSON(w, r, http.StatusCreated, snakeRunView{ID: runner.ID, HighScore: best, State: state})
}

func (s *Server) handleGetSnakeRun(w http.ResponseWriter, r *http.Request) {
	runner, err := s.Snake.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snakeRunView{ID: runner.ID, State: runner.Snapshot()})
}

func (s *Server) handleSnakeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	dir, ok := snake.ParseDirection(req.Direction)
	if !ok {
		handleError(w, r, errors.NewBadRequestError("direction must be UP, DOWN, LEFT or RIGHT"))
		return
	}

	state, err := s.Snake.Turn(r.Context(), chi.URLParam(r, "id"), dir)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleStopSnakeRun(w http.ResponseWriter, r *http.Request) {
	if err := s.Snake.StopRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSnakeStream pushes every frame of a run over a websocket. Text
// messages of the form {"direction":"UP"} steer the snake.
func (s *Server) handleSnakeStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	id := chi.URLParam(r, "id")

	runner, err := s.Snake.Run(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Debug("snake stream opened: run=%s", id)

	frames, unsubscribe := runner.Subscribe()
	defer unsubscribe()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			var req turnRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			dir, ok := snake.ParseDirection(req.Direction)
			if !ok {
				log.Debug("ignoring stream message with direction %q", req.Direction)
				continue
			}
			if _, err := s.Snake.Turn(ctx, id, dir); err != nil {
				log.Debug("turn from stream rejected: %v", err)
			}
		}
	}()

	for {
		select {
		case <-readDone:
			log.Debug("snake stream closed by client: run=%s", id)
			return
		case frame, ok := <-frames:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
				log.Debug("snake stream finished: run=%s", id)
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.Warn("snake stream write failed: %v", err)
				return
			}
		}
	}
}

func (s *Server) handleSnakeProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.Snake.Progress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleResetSnakeProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.Snake.Reset(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
