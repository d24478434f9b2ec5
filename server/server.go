package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"tictactoe3d/engine"
	"tictactoe3d/game"
	"tictactoe3d/searcher"
)

var (
	ErrGameNotFound = errors.New("game not found")
	errHumanTurn    = errors.New("waiting for the human move")
)

// Server hosts independent games over HTTP. Each game owns its board and searcher and
// is serialised by its own mutex, so different games progress concurrently.
type Server struct {
	mu         sync.Mutex
	games      map[int]*session
	nextID     int
	difficulty game.Difficulty
	newMinimax func() *searcher.Minimax
}

type session struct {
	mu     sync.Mutex
	id     int
	engine *engine.Engine
}

// New returns a server whose games default to difficulty. newMinimax is called once
// per game; nil uses searcher.NewMinimax with default options.
func New(difficulty game.Difficulty, newMinimax func() *searcher.Minimax) *Server {
	if newMinimax == nil {
		newMinimax = func() *searcher.Minimax { return searcher.NewMinimax() }
	}
	return &Server{
		games:      make(map[int]*session),
		difficulty: difficulty,
		newMinimax: newMinimax,
	}
}

type createRequest struct {
	Difficulty string `json:"difficulty"`
}

type moveDTO struct {
	Mark string    `json:"mark"`
	Cell game.Cell `json:"cell"`
}

type gameResponse struct {
	ID         int         `json:"id"`
	Difficulty string      `json:"difficulty"`
	Board      string      `json:"board"`
	Status     string      `json:"status"`
	Winner     string      `json:"winner,omitempty"`
	Line       []game.Cell `json:"line,omitempty"`
	History    []moveDTO   `json:"history"`
	Reply      *game.Cell  `json:"reply,omitempty"`
	Score      *int        `json:"score,omitempty"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
		r.Post("/{id}/moves", s.handleMove)
		r.Post("/{id}/reply", s.handleReply)
	})
	return r
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	difficulty := s.difficulty
	if payload.Difficulty != "" {
		difficulty = game.ParseDifficulty(payload.Difficulty)
	}

	s.mu.Lock()
	s.nextID++
	sess := &session{id: s.nextID, engine: engine.NewGame(difficulty, s.newMinimax())}
	s.games[sess.id] = sess
	s.mu.Unlock()

	log.Info().Int("game", sess.id).Stringer("difficulty", difficulty).Msg("created game")
	writeJSON(w, http.StatusCreated, sess.response())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, sess.response())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	delete(s.games, sess.id)
	s.mu.Unlock()

	log.Info().Int("game", sess.id).Msg("deleted game")
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": sess.id})
}

// handleMove applies the human move and, while the game continues, the automated reply.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var cell game.Cell
	if err := json.NewDecoder(r.Body).Decode(&cell); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.engine.ApplyHumanMove(cell); err != nil {
		writeError(w, err)
		return
	}
	if sess.engine.Outcome().Status != game.InProgress {
		writeJSON(w, http.StatusOK, sess.response())
		return
	}

	sess.reply(w, r)
}

// handleReply retries an automated move that failed after the human had moved.
func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.engine.HumanToMove() {
		writeError(w, errHumanTurn)
		return
	}
	sess.reply(w, r)
}

// reply must be called with sess.mu held.
func (sess *session) reply(w http.ResponseWriter, r *http.Request) {
	cell, metric, err := sess.engine.ChooseMove(r.Context())
	if err != nil {
		log.Error().Err(err).Int("game", sess.id).Msg("automated move failed")
		writeError(w, err)
		return
	}
	resp := sess.response()
	resp.Reply = &cell
	resp.Score = &metric.Score
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lookup(r *http.Request) (*session, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return nil, ErrGameNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return sess, nil
}

// response must be called with sess.mu held.
func (sess *session) response() gameResponse {
	outcome := sess.engine.Outcome()
	history := sess.engine.History()
	moves := make([]moveDTO, 0, len(history))
	for _, m := range history {
		moves = append(moves, moveDTO{Mark: m.Mark.String(), Cell: m.Cell})
	}
	resp := gameResponse{
		ID:         sess.id,
		Difficulty: sess.engine.Difficulty().String(),
		Board:      sess.engine.Board().Layout(),
		Status:     outcome.Status.String(),
		History:    moves,
	}
	if outcome.Status == game.Win {
		resp.Winner = outcome.Winner.String()
		resp.Line = outcome.Line[:]
	}
	return resp
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrOutOfRange), errors.Is(err, game.ErrInvalidCell):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrCellOccupied), errors.Is(err, game.ErrGameOver),
		errors.Is(err, engine.ErrNotHumanTurn), errors.Is(err, errHumanTurn):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("handled request")
		}()
		next.ServeHTTP(ww, r)
	})
}
