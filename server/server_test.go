package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe3d/game"
	"tictactoe3d/searcher"
)

func newTestServer() http.Handler {
	return New(game.Easy, func() *searcher.Minimax {
		return searcher.NewMinimax(searcher.WithSeed(3))
	}).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) gameResponse {
	t.Helper()
	var resp gameResponse
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp))
	return resp
}

func move(c game.Cell) string {
	data, _ := json.Marshal(c)
	return string(data)
}

func TestPing(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/ping", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestCreateGame(t *testing.T) {
	h := newTestServer()

	t.Run("defaults", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games", "")

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		resp := decode(t, rec)
		require.Equal(t, 1, resp.ID)
		require.Equal(t, "easy", resp.Difficulty)
		require.Equal(t, "in_progress", resp.Status)
		require.Equal(t, strings.Repeat(".", game.NumCells), resp.Board)
		require.Empty(t, resp.History)
	})

	t.Run("named difficulty", func(t *testing.T) {
		resp := decode(t, do(t, h, http.MethodPost, "/api/games", `{"difficulty":"hard"}`))
		require.Equal(t, 2, resp.ID)
		require.Equal(t, "hard", resp.Difficulty)
	})

	t.Run("unknown difficulty falls back to easy", func(t *testing.T) {
		resp := decode(t, do(t, h, http.MethodPost, "/api/games", `{"difficulty":"nightmare"}`))
		require.Equal(t, "easy", resp.Difficulty)
	})

	t.Run("invalid payload", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games", `{`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAndDeleteGame(t *testing.T) {
	h := newTestServer()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/games", "").Code)

	t.Run("existing game", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, decode(t, rec).ID)
	})

	t.Run("unknown game", func(t *testing.T) {
		require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/games/99", "").Code)
		require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/games/abc", "").Code)
		require.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/games/99", "").Code)
	})

	t.Run("deleted game is gone", func(t *testing.T) {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/api/games/1", "").Code)
		require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/games/1", "").Code)
	})
}

func TestMove(t *testing.T) {
	h := newTestServer()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/games", "").Code)

	t.Run("human move gets an automated reply", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games/1/moves", move(game.Cell{}))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode(t, rec)
		require.Equal(t, "in_progress", resp.Status)
		require.NotNil(t, resp.Reply)
		require.NotNil(t, resp.Score)
		require.Len(t, resp.History, 2)
		require.Equal(t, "X", resp.History[0].Mark)
		require.Equal(t, game.Cell{}, resp.History[0].Cell)
		require.Equal(t, "O", resp.History[1].Mark)
		require.Equal(t, *resp.Reply, resp.History[1].Cell)

		b, err := game.ParseBoard(resp.Board)
		require.NoError(t, err)
		require.Equal(t, 1, b.Count(game.MarkA))
		require.Equal(t, 1, b.Count(game.MarkB))
	})

	t.Run("occupied cell", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games/1/moves", move(game.Cell{}))
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("out of range", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games/1/moves", move(game.Cell{Layer: 4}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid payload", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games/1/moves", `{"layer":"one"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown game", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games/7/moves", move(game.Cell{}))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reply is only available while the automated move is pending", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games/1/reply", "")
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("played to the end", func(t *testing.T) {
		resp := decode(t, do(t, h, http.MethodGet, "/api/games/1", ""))
		for resp.Status == "in_progress" {
			b, err := game.ParseBoard(resp.Board)
			require.NoError(t, err)
			rec := do(t, h, http.MethodPost, "/api/games/1/moves", move(b.EmptyCells()[0]))
			require.Equal(t, http.StatusOK, rec.Code)
			resp = decode(t, rec)
		}

		require.Contains(t, []string{"win", "draw"}, resp.Status)
		if resp.Status == "win" {
			require.Contains(t, []string{"X", "O"}, resp.Winner)
			require.Len(t, resp.Line, game.Size)
		}

		rec := do(t, h, http.MethodPost, "/api/games/1/moves", move(game.Cell{Layer: 3, Row: 3, Col: 3}))
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGamesAreIndependent(t *testing.T) {
	h := newTestServer()
	do(t, h, http.MethodPost, "/api/games", "")
	do(t, h, http.MethodPost, "/api/games", "")

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/games/1/moves", move(game.Cell{})).Code)

	resp := decode(t, do(t, h, http.MethodGet, "/api/games/2", ""))
	require.Equal(t, strings.Repeat(".", game.NumCells), resp.Board)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/games/2/moves", move(game.Cell{})).Code)
}
