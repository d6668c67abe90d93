package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/observability"
)

// NewRouter wires /health, /status and /metrics.
func NewRouter(handler *Handler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.HandleFunc("/status", handler.GetStatus).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	return router
}

// StatusServer exposes sweep progress and metrics while a sweep runs.
type StatusServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
	done   chan struct{}
}

// Listen binds addr (":0" picks a free port) and starts serving in the background.
func Listen(addr string, handler *Handler, logger *zap.Logger) (*StatusServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &StatusServer{
		srv: &http.Server{
			Handler:      NewRouter(handler, logger),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		ln:     ln,
		logger: logger,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		logger.Info("status server starting", zap.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server", zap.Error(err))
		}
	}()
	return s, nil
}

// Addr returns the bound address.
func (s *StatusServer) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops accepting requests and waits for the serve goroutine.
func (s *StatusServer) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}
