package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/health-tracker/internal/config"
	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/observability"
	"github.com/jonathan/health-tracker/internal/server"
	"github.com/jonathan/health-tracker/internal/server/ratelimit"
)

type serveOptions struct {
	port    int
	migrate bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes the tracking, recommendation and estimate endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "Port to listen on (overrides config and PORT)")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.migrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	analyzer, cleanup, err := buildAnalyzer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		Store:          database,
		Analyzer:       analyzer,
		JWTConfig:      jwtConfig,
		PasswordConfig: passwordConfig,
		RateLimit:      ratelimit.LoadConfig(),
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting healthtrack", zap.Int("port", cfg.Port))
	return srv.Start(ctx)
}
