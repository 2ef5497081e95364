package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/rushmax/internal/api"
	"github.com/mcoot/rushmax/internal/config"
	"github.com/mcoot/rushmax/internal/factory"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "rushmax",
		Short: "Quiz matchmaking and leaderboard server",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(cmd.Flags()); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, os.Stdout)
		},
	}

	cfg.RegisterFlags(cmd.Flags())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	logger := cfg.NewLogger(stdout)
	slog.SetDefault(logger)

	app, err := factory.New(ctx, factory.ConfigFrom(cfg, logger))
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("closing storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		InstanceID:      app.InstanceID,
		Registry:        app.Registry,
		LobbyController: app.LobbyController,
		GameController:  app.GameController,
		Questions:       app.Questions,
		Leaderboard:     app.Leaderboard,
		Judge:           app.Judge,
		Sweeper:         app.Reaper,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr()
	server, err := api.Listen(router, serverConfig, logger)
	if err != nil {
		return err
	}

	logger.Info("server configured",
		slog.String("instance_id", app.InstanceID),
		slog.String("storage", cfg.Storage),
		slog.Int("questions", app.Questions.Count()),
		slog.Int("quorum", cfg.Quorum),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	if cfg.ReapInterval > 0 {
		g.Go(func() error {
			return app.Reaper.Run(gctx, cfg.ReapInterval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
