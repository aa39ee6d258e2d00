package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// StatusServer serves the status API over HTTP.
type StatusServer struct {
	server *http.Server
	ready  chan struct{}

	mu   sync.Mutex
	addr string

	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, addr string, logger *logger.Logger) *StatusServer {
	return &StatusServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ready:  make(chan struct{}),
		logger: logger,
	}
}

func (h *StatusServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()
	close(h.ready)

	h.logger.Info().Str("addr", h.addr).Msg("status server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Err(err).Msg("status server shutdown")
		return err
	}
	h.logger.Info().Msg("status server shut down gracefully")

	return nil
}

func (h *StatusServer) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

// Ready is closed once the listener is bound.
func (h *StatusServer) Ready() <-chan struct{} {
	return h.ready
}
