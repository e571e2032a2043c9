// Package reportserver serves a comparison report over HTTP.
package reportserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"evalcmp/internal/report"
)

// Config captures the settings for serving a report.
type Config struct {
	Addr   string
	Export *report.Export
	DBPath string
}

// Serve starts an HTTP server and blocks until ctx is done. ready, when set,
// receives the bound address once the listener is open.
func Serve(ctx context.Context, cfg Config, ready func(addr string)) error {
	if ctx == nil {
		return errors.New("reportserver: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("reportserver: addr is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if ready != nil {
		ready(listener.Addr().String())
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
