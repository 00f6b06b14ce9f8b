package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// NewMux routes path to the hub's websocket endpoint.
func NewMux(path string, hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(path, hub)
	return mux
}

// ListenAndServe runs the hub and serves its websocket endpoint on address
// until ctx is done.
func ListenAndServe(ctx context.Context, address, path string, hub *Hub, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              address,
		Handler:           NewMux(path, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("websocket server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting WebSocket server",
		zap.String("address", address),
		zap.String("path", path))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
