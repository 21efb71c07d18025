// Package api provides the HTTP REST API and WebSocket server for Fleet Core.
//
// It exposes owner, car and repair record operations, repair report
// queries and real-time refresh events to user interfaces.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fleetcore/internal/car"
	"fleetcore/internal/infrastructure/config"
	"fleetcore/internal/infrastructure/database"
	"fleetcore/internal/infrastructure/logging"
	"fleetcore/internal/owner"
	"fleetcore/internal/refresh"
	"fleetcore/internal/repair"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Logger      *logging.Logger
	Owners      *owner.Registry
	Cars        *car.Registry
	Repairs     *repair.Registry
	Broadcaster *refresh.Broadcaster
	DB          *database.DB
	Version     string
}

// Server is the HTTP API server for Fleet Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	owners  *owner.Registry
	cars    *car.Registry
	repairs *repair.Registry
	bcast   *refresh.Broadcaster
	db      *database.DB
	version string
	server  *http.Server
	hub     *Hub
	cancel  context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Owners == nil || deps.Cars == nil || deps.Repairs == nil {
		return nil, fmt.Errorf("owner, car and repair registries are required")
	}

	return &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		owners:  deps.Owners,
		cars:    deps.Cars,
		repairs: deps.Repairs,
		bcast:   deps.Broadcaster,
		db:      deps.DB,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, subscribes to the
// refresh broadcaster for real-time relay, and launches the HTTP
// listener in a background goroutine. The server can be stopped with
// Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	s.subscribeRefreshEvents()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// subscribeRefreshEvents relays broadcaster topics to WebSocket clients
// subscribed to the matching channel.
func (s *Server) subscribeRefreshEvents() {
	if s.bcast == nil {
		return
	}
	for _, topic := range []refresh.Topic{refresh.TopicOwners, refresh.TopicCars, refresh.TopicRepairs} {
		topic := topic
		s.bcast.SubscribeFunc(topic, func(_ context.Context) error {
			s.hub.Broadcast(string(topic), map[string]any{"topic": string(topic)})
			return nil
		})
	}
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	if s.server == nil {
		return fmt.Errorf("API server not started")
	}
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check: %w", err)
		}
	}
	return nil
}
