/* server.go
 * Contains the HTTP server: the router, the middleware chain and the Start function that listens for incoming
 * connections
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const idPattern = "{id:[0-9a-fA-F]{24}}"

// NewServer builds the server and its routes
// Preconditions: Receives the server configuration with an API
// Postconditions: Returns the server, ready to Start or to serve requests through Handler
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 15 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{api: cfg.API, cfg: cfg}
	if cfg.RateLimit > 0 {
		s.limiter = newClientLimiter(cfg.RateLimit, cfg.RateBurst, cfg.RateIdle, clockwork.NewRealClock())
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	s.handler = c.Handler(s.rateLimit(s.routes()))
	return s
}

// Handler returns the full handler chain of the server
func (s *Server) Handler() http.Handler {
	return s.handler
}

// routes registers every endpoint
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "route not found"})
	})

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)

	private := r.PathPrefix("/api").Subrouter()
	private.Use(s.authenticate)

	// Participants
	private.HandleFunc("/participants/me", s.getProfile).Methods(http.MethodGet)
	private.HandleFunc("/participants/me", s.updateProfile).Methods(http.MethodPut)
	private.HandleFunc("/participants/me/dependents", s.listDependents).Methods(http.MethodGet)
	private.HandleFunc("/participants/me/dependents", s.addDependent).Methods(http.MethodPost)
	private.HandleFunc("/participants/me/dependents/"+idPattern, s.renameDependent).Methods(http.MethodPut)
	private.HandleFunc("/participants/me/dependents/"+idPattern, s.removeDependent).Methods(http.MethodDelete)

	// Pools
	private.HandleFunc("/pools/active", s.getActivePool).Methods(http.MethodGet)
	private.HandleFunc("/pools/admin", s.listAdminPools).Methods(http.MethodGet)
	private.HandleFunc("/pools", s.createPool).Methods(http.MethodPost)
	private.HandleFunc("/pools/"+idPattern, s.getPool).Methods(http.MethodGet)
	private.HandleFunc("/pools/"+idPattern, s.updatePool).Methods(http.MethodPut)
	private.HandleFunc("/pools/"+idPattern+"/join", s.joinPool).Methods(http.MethodPost)
	private.HandleFunc("/pools/"+idPattern+"/leave", s.leavePool).Methods(http.MethodPost)
	private.HandleFunc("/pools/"+idPattern+"/activate", s.activatePool).Methods(http.MethodPost)
	private.HandleFunc("/pools/"+idPattern+"/participants", s.poolParticipants).Methods(http.MethodGet)

	// Games
	private.HandleFunc("/games/upcoming", s.upcomingGames).Methods(http.MethodGet)
	private.HandleFunc("/pools/"+idPattern+"/games", s.listGames).Methods(http.MethodGet)
	private.HandleFunc("/pools/"+idPattern+"/games", s.createGame).Methods(http.MethodPost)
	private.HandleFunc("/games/"+idPattern, s.updateGame).Methods(http.MethodPut)
	private.HandleFunc("/games/"+idPattern+"/complete", s.recordGameResult).Methods(http.MethodPut)

	// Picks
	private.HandleFunc("/picks", s.submitPicks).Methods(http.MethodPost)
	private.HandleFunc("/picks/summary", s.picksSummary).Methods(http.MethodGet)
	private.HandleFunc("/pools/"+idPattern+"/admin/picks", s.adminSubmitPicks).Methods(http.MethodPost)
	private.HandleFunc("/pools/"+idPattern+"/picks", s.listPicks).Methods(http.MethodGet)
	private.HandleFunc("/pools/"+idPattern+"/picks/status", s.pickStatus).Methods(http.MethodGet)

	// Standings
	private.HandleFunc("/standings", s.standings).Methods(http.MethodGet)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Start listens for incoming connections until the context is cancelled, then shuts the server down
// Preconditions: Receives a context that is cancelled to stop the server
// Postconditions: Returns nil after a clean shutdown, or the error that stopped the server
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
