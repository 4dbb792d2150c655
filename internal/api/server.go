package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/netmcp/internal/device"
	"github.com/nerrad567/netmcp/internal/infrastructure/config"
	"github.com/nerrad567/netmcp/internal/infrastructure/influxdb"
	"github.com/nerrad567/netmcp/internal/infrastructure/logging"
	"github.com/nerrad567/netmcp/internal/infrastructure/mqtt"
	"github.com/nerrad567/netmcp/internal/mcp"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// sinkCheckTimeout bounds each sink probe made by /health.
const sinkCheckTimeout = 2 * time.Second

// healthChecker is implemented by the optional event sinks.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Store    *device.Store
	MQTT     *mqtt.Client     // optional; nil disables MQTT events
	InfluxDB *influxdb.Client // optional; nil disables change history
	Version  string
}

// Server is the HTTP API server for netmcp.
//
// It manages the HTTP listener, routes, middleware, the MCP dispatcher and
// the WebSocket hub. The server is created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	store      *device.Store
	dispatcher *mcp.Dispatcher
	events     *EventNotifier
	mqtt       *mqtt.Client
	influx     *influxdb.Client
	sinks      map[string]healthChecker
	version    string
	server     *http.Server
	hub        *Hub
	startTime  time.Time
	cancel     context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called, but its router can be
// served directly via Handler().
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("device store is required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		store:     deps.Store,
		mqtt:      deps.MQTT,
		influx:    deps.InfluxDB,
		version:   deps.Version,
		startTime: time.Now(),
		sinks:     make(map[string]healthChecker),
	}

	s.hub = NewHub(s.wsCfg, s.logger.Component("websocket"))

	s.events = NewEventNotifier(s.hub, s.logger.Component("events"))
	if deps.MQTT != nil {
		s.events.SetPublisher(deps.MQTT)
		s.sinks["mqtt"] = deps.MQTT
	}
	if deps.InfluxDB != nil {
		s.events.SetHistory(deps.InfluxDB)
		s.sinks["influxdb"] = deps.InfluxDB
	}

	s.dispatcher = mcp.NewDispatcher(s.store)
	s.dispatcher.SetLogger(s.logger.Component("mcp"))
	s.dispatcher.SetNotifier(s.events)

	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
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

// HealthCheck verifies the API server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
