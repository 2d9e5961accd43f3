// path: internal/httpx/server.go

// Package httpx is the JSON boundary over the session manager. Coordinates
// travel as three-character algebraic strings (file a-h, rank 1-8, layer a-h,
// e.g. "e1a"); game state travels as full snapshots.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shibainu432/3D-Chesss/internal/engine"
	"github.com/Shibainu432/3D-Chesss/internal/session"
)

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// Server wires the HTTP layer to the session manager.
type Server struct {
	logger  *zap.Logger
	manager *session.Manager
	srvMu   sync.Mutex
	srv     *http.Server
}

// NewServer builds a Server over the manager.
func NewServer(logger *zap.Logger, manager *session.Manager) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{logger: logger, manager: manager}
}

// Listen starts the HTTP server and blocks until it stops.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.logger.Info("http listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Routes configures the ServeMux. Exported so tests can drive the handlers
// through httptest without a listener.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/games", s.withJSON(s.handleCreate))
	mux.HandleFunc("GET /api/games", s.withJSON(s.handleList))
	mux.HandleFunc("GET /api/games/{id}", s.withJSON(s.handleState))
	mux.HandleFunc("GET /api/games/{id}/legal", s.withJSON(s.handleLegal))
	mux.HandleFunc("POST /api/games/{id}/moves", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /api/games/{id}/promotion", s.withJSON(s.handlePromotion))
	mux.HandleFunc("POST /api/games/{id}/reset", s.withJSON(s.handleReset))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return withMetrics(mux)
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

// writeEngineError maps the session/engine sentinels onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrPromotionOutstanding):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func parseCoordParam(w http.ResponseWriter, raw, label string) (engine.Coord, bool) {
	c, ok := engine.ParseCoord(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid "+label+" coordinate")
		return engine.Coord{}, false
	}
	return c, true
}

// ---- API: lifecycle ----

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	snap := s.manager.CreateGame(r.Context())
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"game": snap})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"games": s.manager.ListGames()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.manager.Snapshot(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]any{"game": snap})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		r.Body.Close()
	}
	snap, err := s.manager.ResetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]any{"game": snap})
}

// ---- API: legal targets ----

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	from, ok := parseCoordParam(w, r.URL.Query().Get("from"), "from")
	if !ok {
		return
	}
	moves, err := s.manager.LegalTargets(r.PathValue("id"), from)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if moves == nil {
		moves = []engine.Move{}
	}
	writeJSON(w, map[string]any{"from": from, "moves": moves})
}

// ---- API: moves ----

type moveBody struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	from, ok := parseCoordParam(w, body.From, "from")
	if !ok {
		return
	}
	to, ok := parseCoordParam(w, body.To, "to")
	if !ok {
		return
	}
	promotion := engine.NoPieceType
	if raw := strings.TrimSpace(body.Promotion); raw != "" {
		pt, ok := engine.ParsePieceType(raw)
		if !ok || !pt.Promotable() {
			writeError(w, http.StatusBadRequest, "invalid promotion choice")
			return
		}
		promotion = pt
	}

	out, err := s.manager.ProposeMove(r.Context(), r.PathValue("id"), from, to, promotion)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]any{"outcome": out})
}

// ---- API: promotion ----

type promotionBody struct {
	Token  string `json:"token"`
	Choice string `json:"choice"`
}

func (s *Server) handlePromotion(w http.ResponseWriter, r *http.Request) {
	var body promotionBody
	if !decodeBody(w, r, &body) {
		return
	}
	choice, ok := engine.ParsePieceType(strings.TrimSpace(body.Choice))
	if !ok || !choice.Promotable() {
		writeError(w, http.StatusBadRequest, "invalid promotion choice")
		return
	}
	out, err := s.manager.ResolvePromotion(r.Context(), r.PathValue("id"), body.Token, choice)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]any{"outcome": out})
}
