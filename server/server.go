// Package server provides the tunacmd HTTP REST server, which lets remote
// operators log in and send commands to a running world.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/server/api"
	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/service"
	"go.uber.org/zap"
)

// server:
//  POST   /login          - accepts account and password and returns a jwt.
//  DELETE /login/{id}     - ends account authentication and invalidates its jwts.
//  POST   /tokens         - refreshes the token without requiring credentials (requires auth)
//  POST   /commands       - runs a command as the account or its player (requires auth)
//  GET    /commands       - lists the commands and their usage.
//  POST   /players/join   - brings the account's player online (requires auth)
//  POST   /players/leave  - takes the account's player offline (requires auth)
//  POST   /accounts       - create a new account (admin auth required)
//  GET    /accounts       - get all accounts (admin auth required)
//  GET    /accounts/{id}  - get info on an account (auth required)
//  DELETE /accounts/{id}  - delete an account (auth required)
//  GET    /info           - get version info on the server.
//  GET    /metrics        - prometheus metrics, outside of the API prefix.

// Backend is what the server runs commands against.
type Backend struct {
	// Registry lists the commands that can be sent.
	Registry *command.Registry

	// Dispatcher runs commands. It may be shared with the server console.
	Dispatcher *command.Dispatcher

	// World is the world Dispatcher's commands act on. Accounts join it as
	// players.
	World *game.World

	// Metrics is served at /metrics if not nil.
	Metrics http.Handler

	// Log receives server logs. If nil, nothing is logged.
	Log *zap.Logger
}

// Server is an HTTP REST server for sending commands to a tunacmd world. The
// zero-value of a Server should not be used directly; call New() to get one
// ready for use.
type Server struct {
	cfg    Config
	db     dao.Store
	svc    service.Service
	router http.Handler
	log    *zap.Logger
	srv    *http.Server
}

// New creates a new Server from cfg that runs commands with be. Unset values
// in cfg are given their defaults.
func New(cfg Config, be Backend) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if be.Registry == nil || be.Dispatcher == nil || be.World == nil {
		return nil, fmt.Errorf("backend: registry, dispatcher, and world must be set")
	}

	log := be.Log
	if log == nil {
		log = zap.NewNop()
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg: cfg,
		db:  db,
		log: log,
		svc: service.Service{
			DB:           db,
			Registry:     be.Registry,
			Dispatcher:   be.Dispatcher,
			World:        be.World,
			PasswordCost: cfg.PasswordCost,
		},
	}

	a := api.API{
		Backend:     s.svc,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
		Log:         log.Named("http"),
		WorldName:   be.World.Name(),
	}
	s.router = newRouter(a, be.Metrics)

	// built here and not in ListenAndServe so that a Shutdown that comes
	// before the listener is up still makes ListenAndServe return.
	s.srv = &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Service gives direct access to the operations the API exposes.
func (s *Server) Service() service.Service {
	return s.svc
}

// ServeHTTP routes a request to the API.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ListenAndServe listens on the configured address until Shutdown is called.
// It returns nil after a clean shutdown, including when Shutdown was called
// before it.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("address", s.cfg.ListenAddress))
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for active ones to finish, and
// then closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return s.Close()
}

// Close closes the database without waiting for requests.
func (s *Server) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
