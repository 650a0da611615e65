package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taskrelay/internal/logging"
	"taskrelay/internal/server"
	"taskrelay/internal/store"
)

// serveCmd runs the relay server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay server",
	Long: `Serves the command/result queue over HTTP. Documents live as YAML
files under the configured storage directory; every API endpoint requires
the configured bearer token. The operator dashboard is at /ui/.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.Token == "" {
		return fmt.Errorf("server.token is required (set RELAY_TOKEN or the config file)")
	}

	st, err := store.New(cfg.Server.StorageDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(st, cfg.Server.Token),
	}

	logging.Boot("relay server listening on %s (storage: %s)", cfg.Server.Addr, cfg.Server.StorageDir)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Log enqueues as they land instead of waiting for a poll.
		err := st.Watch(ctx, func(name string) {
			logging.Server("command enqueued: %s", name)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("relay server failed: %w", err)
	}
	logging.Boot("relay server stopped")
	return nil
}
