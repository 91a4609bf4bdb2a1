package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/nvimsul/pkg/adapters/http"
	"github.com/aretw0/nvimsul/pkg/adapters/mcp"
)

const shutdownTimeout = 5 * time.Second

// RunServe exposes one SUL over HTTP until ctx is cancelled.
func RunServe(ctx context.Context, env *Env) error {
	sul, err := env.NewSUL()
	if err != nil {
		return err
	}
	defer sul.Close()

	handler := httpAdapter.NewHandler(sul, sul.Alphabet(),
		httpAdapter.WithMetrics(env.Metrics.Handler()),
		httpAdapter.WithLogger(env.Logger),
	)
	srv := &http.Server{
		Addr:    env.Config.Addr,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		env.Logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		return nil
	}
}

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunMCP exposes one SUL as Model Context Protocol tools.
func RunMCP(ctx context.Context, env *Env, transport string) error {
	sul, err := env.NewSUL()
	if err != nil {
		return err
	}
	defer sul.Close()

	srv := mcp.NewServer(sul, sul.Alphabet(), mcp.WithLogger(env.Logger))
	switch transport {
	case TransportStdio:
		// Logs go to stderr; stdout carries JSON-RPC.
		env.Logger.Info("Starting MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		if err := srv.ServeSSE(ctx, env.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		env.Logger.Info("MCP server stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: %s, %s)", transport, TransportStdio, TransportSSE)
	}
}
