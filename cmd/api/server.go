package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// serve runs srv until a signal arrives on stop or the listener fails.
// It never exits the process so deferred cleanup in main still runs.
func serve(srv *http.Server, stop <-chan os.Signal, shutdownTimeout time.Duration, logger zerolog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case s := <-stop:
		logger.Info().Str("signal", s.String()).Msg("Shutting down")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
