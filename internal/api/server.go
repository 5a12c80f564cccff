// =============================
// File: internal/api/server.go
// =============================
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/amm"
	"github.com/rovshanmuradov/bonding-curve/internal/config"
	"github.com/rovshanmuradov/bonding-curve/internal/export"
)

// CallerHeader carries the base58 identity of the caller. Authentication
// happens in front of this service.
const CallerHeader = "X-Caller"

const maxBodyBytes = 1 << 20

// Server bundles dependencies for the HTTP API.
type Server struct {
	router   *chi.Mux
	engine   *amm.Engine
	exporter *export.TradeExporter
	logger   *zap.Logger
	started  time.Time
}

// NewServer constructs a Server with registered routes. metrics may be nil.
func NewServer(engine *amm.Engine, metrics http.Handler, logger *zap.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		engine:   engine,
		exporter: export.NewTradeExporter(logger),
		logger:   logger.Named("api"),
		started:  time.Now(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.healthzHandler)
	if metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics)
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/config", s.getConfigHandler)
		r.Post("/config", s.initializeHandler)
		r.Put("/config", s.updateConfigHandler)

		r.Get("/pools", s.listPoolsHandler)
		r.Post("/pools", s.createPoolHandler)

		r.Route("/pools/{pool}", func(r chi.Router) {
			r.Get("/", s.getPoolHandler)
			r.Post("/liquidity", s.addLiquidityHandler)
			r.Delete("/liquidity", s.removeLiquidityHandler)
			r.Post("/buy", s.buyHandler)
			r.Post("/sell", s.sellHandler)
			r.Get("/quote/buy", s.quoteBuyHandler)
			r.Get("/quote/sell", s.quoteSellHandler)
			r.Get("/market-cap", s.marketCapHandler)
			r.Get("/trades", s.tradesHandler)
			r.Get("/trades/export", s.exportTradesHandler)
		})

		r.Post("/tokens", s.createTokenHandler)
	})

	return s
}

// Handler exposes the underlying router for integration tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", cfg.Addr))
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

	s.logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeJSON(w, status, errorBody(err, status))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
