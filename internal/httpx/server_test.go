// path: internal/httpx/server_test.go
package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shibainu432/3D-Chesss/internal/engine"
	"github.com/Shibainu432/3D-Chesss/internal/session"
)

func testHandler(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	m := session.NewManager(nil, nil, nil)
	s := NewServer(nil, m)
	return s.Routes(), m
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func mustParse(t *testing.T, s string) engine.Coord {
	t.Helper()
	c, ok := engine.ParseCoord(s)
	require.True(t, ok, "coordinate %q", s)
	return c
}

func createGame(t *testing.T, h http.Handler) engine.GameSnapshot {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/games", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Game engine.GameSnapshot `json:"game"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Game.ID)
	return resp.Game
}

func TestCreateAndFetchGame(t *testing.T) {
	h, _ := testHandler(t)
	game := createGame(t, h)
	assert.Len(t, game.Pieces, 32)
	assert.Equal(t, engine.White, game.Turn)

	rec := doJSON(t, h, http.MethodGet, "/api/games/"+game.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = doJSON(t, h, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Games []string `json:"games"`
	}
	decode(t, rec, &list)
	assert.Contains(t, list.Games, game.ID)
}

func TestUnknownGameIs404(t *testing.T) {
	h, _ := testHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/api/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegalTargetsEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	game := createGame(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/games/"+game.ID+"/legal?from=a1b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Moves []engine.Move `json:"moves"`
	}
	decode(t, rec, &resp)
	assert.Len(t, resp.Moves, 2)

	rec = doJSON(t, h, http.MethodGet, "/api/games/"+game.ID+"/legal?from=zz9", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Selecting the opponent's piece is rejected, not empty.
	rec = doJSON(t, h, http.MethodGet, "/api/games/"+game.ID+"/legal?from=a1g", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	game := createGame(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/games/"+game.ID+"/moves",
		map[string]string{"from": "a1b", "to": "a1d"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Outcome engine.MoveOutcome `json:"outcome"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, game.ID, resp.Outcome.GameID)
	assert.Empty(t, resp.Outcome.PromotionToken)

	rec = doJSON(t, h, http.MethodPost, "/api/games/"+game.ID+"/moves",
		map[string]string{"from": "a1g", "to": "h8h"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/games/"+game.ID+"/moves",
		map[string]string{"from": "a1g", "to": "a1e", "promotion": "king"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveRejectsMalformedJSON(t *testing.T) {
	h, _ := testHandler(t)
	game := createGame(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/games/"+game.ID+"/moves",
		strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromotionFlowOverHTTP(t *testing.T) {
	h, m := testHandler(t)

	// Seed a promotion-ready position straight into the manager; the HTTP
	// layer only needs to drive the final two calls.
	promo, err := engine.RestoreGame(engine.GameSnapshot{
		ID:   "promo-http",
		Turn: engine.White,
		Pieces: []engine.PieceState{
			{Type: engine.King, Color: engine.White, Pos: mustParse(t, "a1a")},
			{Type: engine.Pawn, Color: engine.White, Pos: mustParse(t, "d1g"), Moved: true},
			{Type: engine.King, Color: engine.Black, Pos: mustParse(t, "h8h")},
		},
	})
	require.NoError(t, err)
	m.Adopt(promo)

	rec := doJSON(t, h, http.MethodPost, "/api/games/promo-http/moves",
		map[string]string{"from": "d1g", "to": "d1h"})
	require.Equal(t, http.StatusOK, rec.Code)
	var pending struct {
		Outcome engine.MoveOutcome `json:"outcome"`
	}
	decode(t, rec, &pending)
	require.NotEmpty(t, pending.Outcome.PromotionToken)

	// A second move while the choice is outstanding conflicts.
	rec = doJSON(t, h, http.MethodPost, "/api/games/promo-http/moves",
		map[string]string{"from": "a1a", "to": "a2a"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/games/promo-http/promotion",
		map[string]string{"token": pending.Outcome.PromotionToken, "choice": "queen"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/games/promo-http", nil)
	var state struct {
		Game engine.GameSnapshot `json:"game"`
	}
	decode(t, rec, &state)
	assert.Equal(t, engine.Black, state.Game.Turn)
}

func TestResetEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	game := createGame(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/games/"+game.ID+"/moves",
		map[string]string{"from": "a1b", "to": "a1d"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/games/"+game.ID+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Game engine.GameSnapshot `json:"game"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, engine.White, resp.Game.Turn)
	assert.Len(t, resp.Game.Pieces, 32)
}

func TestOversizedBodyRejected(t *testing.T) {
	h, _ := testHandler(t)
	game := createGame(t, h)

	huge := fmt.Sprintf(`{"from":"a1b","to":"a1d","promotion":%q}`,
		strings.Repeat("x", int(maxJSONBodyBytes)+1))
	req := httptest.NewRequest(http.MethodPost, "/api/games/"+game.ID+"/moves",
		strings.NewReader(huge))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := testHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chess_http_request_duration_seconds")
}
