// Package api exposes the engine over HTTP: match creation and status,
// frame listing, a websocket frame stream and prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/match"
	"github.com/snakearena/arena/replay"
	"github.com/snakearena/arena/rules"
)

// Server routes HTTP requests to the match controllers it owns.
type Server struct {
	hs    *http.Server
	store replay.Store

	mu      sync.Mutex
	matches map[string]*match.Controller
}

// New returns a server listening on addr, archiving matches to store.
func New(addr string, store replay.Store) *Server {
	s := &Server{
		store:   store,
		matches: map[string]*match.Controller{},
	}

	router := httprouter.New()
	router.POST("/matches", s.createMatch)
	router.POST("/matches/:id/abort", s.abortMatch)
	router.GET("/matches/:id", s.matchStatus)
	router.GET("/matches/:id/frames", s.listFrames)
	router.GET("/socket/:id", s.streamFrames)
	router.Handler("GET", "/metrics", promhttp.Handler())

	s.hs = &http.Server{
		Addr:    addr,
		Handler: cors.AllowAll().Handler(router),
	}
	return s
}

// WaitForExit blocks serving requests until the listener fails.
func (s *Server) WaitForExit() {
	log.Infof("Arena engine listening on %s", s.hs.Addr)
	if err := s.hs.ListenAndServe(); err != nil {
		log.WithError(err).Error("Error while listening")
	}
}

// StatusResponse is returned from the match status endpoint.
type StatusResponse struct {
	Game      *board.Game   `json:"game"`
	LastFrame *board.Frame  `json:"lastFrame,omitempty"`
	Result    *board.Result `json:"result,omitempty"`
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	game := &board.Game{}
	if err := json.NewDecoder(r.Body).Decode(game); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rules.ApplyDefaults(game)

	c, err := match.NewController(game, match.NewHTTPProvider(), s.store)
	if err != nil {
		if _, ok := err.(rules.ConfigurationError); ok {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	s.matches[game.ID] = c
	s.mu.Unlock()

	go func() {
		if _, err := c.Run(context.Background()); err != nil {
			log.WithError(err).WithField("game", game.ID).Error("match failed")
		}
	}()

	writeJSON(w, map[string]string{"id": game.ID})
}

func (s *Server) abortMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	c, ok := s.matches[ps.ByName("id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, replay.ErrNotFound)
		return
	}
	c.Abort()
	writeJSON(w, map[string]string{"id": ps.ByName("id")})
}

func (s *Server) matchStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	game, err := s.store.GetMatch(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := StatusResponse{Game: game}
	if last, err := s.store.ListFrames(r.Context(), id, 1, -1); err == nil && len(last) > 0 {
		resp.LastFrame = last[0]
	}

	s.mu.Lock()
	c, ok := s.matches[id]
	s.mu.Unlock()
	if ok {
		resp.Result = c.Result()
	} else if game.Status == board.GameStatusComplete && resp.LastFrame != nil {
		result := rules.ResultOf(resp.LastFrame)
		resp.Result = &result
	}

	writeJSON(w, resp)
}

func (s *Server) listFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	frames, err := s.store.ListFrames(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"frames": frames})
}

func queryInt(r *http.Request, key string, defaults int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaults
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaults
	}
	return i
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to write response")
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if err == replay.ErrNotFound {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		log.WithError(encErr).Error("unable to write error response")
	}
}
