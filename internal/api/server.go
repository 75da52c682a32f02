package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/youruser/mockupapp/internal/config"
)

// Serve runs the HTTP server until ctx is done, then drains in-flight
// requests for up to ten seconds.
func Serve(ctx context.Context, cfg config.Config, svc Restorer, l *log.Logger) error {
	r := NewEngine(NewHandler(svc, l, cfg.Server.MaxBodyBytes), cfg.Server.Mode)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		l.Info("starting server", "addr", "http://localhost:"+cfg.Server.Port, "config", cfg)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	l.Info("shutting down")
	return srv.Shutdown(shutdown)
}
