package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/fixture"
	"github.com/evgengiga/dashbord/internal/source"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveFixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-fixture",
		Short: "Serve a payload file over the backend HTTP API",
		Long: `Run a local server that answers login and dashboard requests from a
payload file or directory, for demos and testing without the real backend.`,
		RunE: runServeFixture,
	}

	cmd.Flags().String("payload", "", "JSON payload file or directory")
	cmd.Flags().String("addr", "", "listen address (default fixture.addr)")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func runServeFixture(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	payloadPath, _ := cmd.Flags().GetString("payload")
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = settings.Fixture.Addr
	}

	if settings.Fixture.Secret == "" {
		slog.Warn("fixture.secret is not set, tokens are valid until restart")
	}

	srv := fixture.NewServer(source.NewFileSource(payloadPath), fixture.Config{
		Users:       settings.Fixture.Users,
		Secret:      settings.Fixture.Secret,
		CORSOrigins: settings.Fixture.CORSOrigins,
		TokenTTL:    settings.Fixture.TokenTTL,
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Fixture server listening", "addr", addr, "payload", payloadPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("fixture server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("fixture server shutdown: %w", err)
	}
	slog.Info("Fixture server stopped")
	return nil
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage offline dashboard snapshots",
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			olderThan, _ := cmd.Flags().GetDuration("older-than")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.PruneSnapshots(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Удалено снимков: %d", n)))
			return nil
		},
	}
	prune.Flags().Duration("older-than", 30*24*time.Hour, "delete snapshots fetched earlier than this")
	cmd.AddCommand(prune)

	return cmd
}
