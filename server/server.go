// Package server implements the timetable HTTP server: the REST API, CORS,
// request logging, and SSE change notifications.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/comms"
	"github.com/GoCodeAlone/timetable/config"
	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/server/api"
	"github.com/GoCodeAlone/timetable/server/ws"
	"github.com/GoCodeAlone/timetable/suggest"
	"github.com/GoCodeAlone/timetable/task"
)

// Server is the timetable HTTP server.
type Server struct {
	cfg     config.Config
	mux     *http.ServeMux
	httpSrv *http.Server
	logger  *zap.Logger

	tasks     task.Store
	inventory inventory.Store
	suggester suggest.Suggester
	bus       comms.Bus
	hub       *ws.Hub

	routesOnce  sync.Once
	handler     http.Handler
	unsubscribe func()

	startTime time.Time
	version   string
}

// New creates a new Server with the given config and logger.
func New(cfg config.Config, ver string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:       cfg,
		mux:       http.NewServeMux(),
		logger:    logger,
		hub:       ws.NewHub(logger.Named("sse")),
		startTime: time.Now(),
		version:   ver,
	}
}

// SetTaskStore attaches a task store to the server.
func (s *Server) SetTaskStore(store task.Store) {
	s.tasks = store
}

// SetInventoryStore attaches an inventory store to the server.
func (s *Server) SetInventoryStore(store inventory.Store) {
	s.inventory = store
}

// SetSuggester attaches a schedule suggester. Without one, suggestion
// requests are answered with 503.
func (s *Server) SetSuggester(sug suggest.Suggester) {
	s.suggester = sug
}

// SetBus attaches a comms bus to the server. Every event published on it is
// forwarded to SSE clients.
func (s *Server) SetBus(bus comms.Bus) {
	s.bus = bus
}

// Handler returns the fully wired HTTP handler. Routes are registered on the
// first call.
func (s *Server) Handler() http.Handler {
	s.routesOnce.Do(func() {
		s.registerRoutes()
		s.handler = s.logRequests(corsMiddleware(s.mux))
	})
	return s.handler
}

// Start registers routes and begins listening.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr
	if addr == "" {
		addr = ":8081"
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}
	s.logger.Info("server listening", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	h := &api.Handlers{
		Tasks:     s.tasks,
		Inventory: s.inventory,
		Suggester: s.suggester,
		Bus:       s.bus,
		Logger:    s.logger.Named("api"),
		Version:   s.version,
		StartAt:   s.startTime,
	}
	h.RegisterRoutes(s.mux)

	s.mux.HandleFunc("GET /events", s.hub.ServeSSE)

	if s.bus != nil {
		s.unsubscribe = s.bus.Subscribe(comms.AllTypes, s.hub.Forward)
	}
}

// corsMiddleware lets browser clients on any origin call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
