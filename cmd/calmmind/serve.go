package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/rpggio/calmmind/internal/mcp"
	"github.com/rpggio/calmmind/internal/refresh"
	"github.com/rpggio/calmmind/internal/transport"
)

const (
	shutdownTimeout   = 5 * time.Second
	mcpSessionTimeout = 30 * time.Minute
)

func newServeCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "" && mode != "stdio" && mode != "http" {
				return fmt.Errorf("unknown transport %q (want stdio or http)", mode)
			}
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()
			if mode != "" {
				a.cfg.Transport.Mode = mode
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.startPoller(ctx); err != nil {
				return err
			}

			resolver := transport.NewKeyResolver(a.apiKeys, a.cfg.Auth.IsAdmin)
			mcpServer := mcp.NewServer(mcp.Config{
				Services:      a.services(),
				Resolver:      resolver,
				AuthEnabled:   a.cfg.Auth.Enabled,
				TransportMode: a.cfg.Transport.Mode,
				Logger:        a.logger,
			})

			a.logger.Info("starting calmmind",
				"version", version,
				"transport", a.cfg.Transport.Mode,
				"db", a.cfg.DB.Path,
				"auth", a.cfg.Auth.Enabled)

			if a.cfg.Transport.Mode == "http" {
				return a.runHTTP(ctx, mcpServer, resolver)
			}
			return runStdio(ctx, a.logger, mcpServer)
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "stdio or http (defaults to transport.mode)")
	return cmd
}

// startPoller launches the background stress refresher when an interval is
// configured. It stops with ctx.
func (a *app) startPoller(ctx context.Context) error {
	rc := a.cfg.Refresh
	if rc.Interval <= 0 {
		return nil
	}
	opts := refresh.Options{
		Owner:     rc.Owner,
		Interval:  rc.Interval,
		Threshold: rc.Threshold,
		Source:    a.dashboard,
		Recorder:  a.students,
		Logger:    a.logger,
	}
	if rc.Notify {
		opts.Notifier = refresh.DesktopNotifier{AppName: "calmmind"}
	}
	poller, err := refresh.NewPoller(opts)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	go func() {
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("refresh stopped", "error", err)
		}
	}()
	return nil
}

func runStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")
	// Run returns when stdin closes or ctx is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func (a *app) runHTTP(ctx context.Context, server *sdkmcp.Server, resolver mcp.Resolver) error {
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: mcpSessionTimeout},
	)

	opts := transport.Options{MCP: streamable, Logger: a.logger}
	if a.cfg.Auth.Enabled {
		opts.Auth = transport.AuthMiddleware(resolver)
	}
	router := transport.NewServer(mcp.NewHandler(a.services()), opts)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
