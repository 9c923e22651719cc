package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/openalpha/lp-incentives/api/handlers"
	"github.com/openalpha/lp-incentives/api/middleware"
	apitypes "github.com/openalpha/lp-incentives/api/types"
	"github.com/openalpha/lp-incentives/api/websocket"
	"github.com/openalpha/lp-incentives/config"
	"github.com/openalpha/lp-incentives/metrics"
)

// RequestIDHeader carries the id assigned to every request
const RequestIDHeader = "X-Request-ID"

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	router     *mux.Router
	config     config.APIConfig
	logger     log.Logger

	ledger  apitypes.Ledger
	metrics *metrics.Collector

	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new API server over ledger. A nil collector
// disables request metrics.
func NewServer(cfg config.APIConfig, ledger apitypes.Ledger, logger log.Logger, collector *metrics.Collector) *Server {
	logger = logger.With("module", "api")

	rlConfig := middleware.DefaultRateLimitConfig()
	rlConfig.TxPerSecond = cfg.RateLimitPerSecond
	rlConfig.TxBurst = cfg.RateLimitBurst

	wsConfig := websocket.DefaultServerConfig()

	if collector != nil {
		rlConfig.OnLimit = collector.RecordRateLimitHit
		wsConfig.OnConnectionChange = collector.RecordWSConnection
		wsConfig.HubConfig.OnBroadcast = collector.RecordWSMessage
	}

	s := &Server{
		config:      cfg,
		logger:      logger,
		ledger:      ledger,
		metrics:     collector,
		rateLimiter: middleware.NewRateLimiter(rlConfig),
		wsServer:    websocket.NewServer(wsConfig, logger),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestMiddleware, corsMiddleware, middleware.RateLimitMiddleware(s.rateLimiter))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if s.config.EnableWebsocket {
		r.HandleFunc("/ws", s.wsServer.HandleWebSocket)
		r.HandleFunc("/ws/stats", s.wsServer.HandleStats).Methods(http.MethodGet)
	}

	handlers.NewIncentivesHandler(s.ledger, s.logger).
		RegisterRoutes(r, middleware.TxRateLimitMiddleware(s.rateLimiter))

	// preflight requests for any path
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// PublishEvents forwards committed ledger events to websocket subscribers.
// It matches the ledger's event listener signature.
func (s *Server) PublishEvents(height int64, events sdk.Events) {
	hub := s.wsServer.GetHub()
	for _, ev := range events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, a := range ev.Attributes {
			attrs[a.Key] = a.Value
		}
		hub.PublishEvent(&websocket.EventMessage{
			Height:     height,
			Type:       ev.Type,
			Attributes: attrs,
		})
	}
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.wsServer.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	s.logger.Info("API server started",
		"address", ln.Addr().String(),
		"websocket", s.config.EnableWebsocket,
		"tx_rate_limit", s.config.RateLimitPerSecond,
	)

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apitypes.HealthResponse{
		Status:     "healthy",
		LastHeight: s.ledger.LastHeight(),
		Timestamp:  time.Now().Unix(),
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestMiddleware assigns a request id and records request metrics
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		// the websocket upgrader needs the raw writer to hijack
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		if s.metrics != nil {
			s.metrics.RecordAPIRequest(r.Method, path, strconv.Itoa(rec.status), timer.ElapsedMs())
		}
		s.logger.Debug("HTTP request",
			"request_id", requestID,
			"method", r.Method,
			"path", path,
			"status", rec.status,
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
