package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/cs-journey/internal/analytics"
	"github.com/Zachkp/cs-journey/internal/config"
	"github.com/Zachkp/cs-journey/internal/logging"
	"github.com/Zachkp/cs-journey/internal/portfolio"
	"github.com/Zachkp/cs-journey/internal/server"
	"github.com/Zachkp/cs-journey/internal/session"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, port string

	cmd := &cobra.Command{
		Use:           "cs-journey",
		Short:         "Serve the CS Journey portfolio dashboard.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to an optional YAML config file")
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Addr()),
		zap.Duration("session_ttl", cfg.Session.TTL),
		zap.Bool("admin_enabled", cfg.Admin.Enabled()),
		zap.String("version", Version),
	)
	if cfg.Session.GeneratedSecret {
		logger.Warn("SESSION_SECRET not set, using a random secret; sessions reset on restart")
	}

	tracker, err := analytics.Open(ctx, cfg.Analytics.DSN, logger)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()
	if _, err := tracker.Cleanup(ctx, cfg.Analytics.Retention); err != nil {
		logger.Warn("Analytics cleanup failed", zap.Error(err))
	}

	var admin *analytics.Admin
	if cfg.Admin.Enabled() {
		admin, err = analytics.NewAdmin(tracker, cfg.Admin.Username, cfg.Admin.Password, cfg.Session.SecureCookie, logger)
		if err != nil {
			return err
		}
		logger.Info("Admin access available at /admin/login")
	} else {
		logger.Info("ADMIN_PASSWORD not set, admin pages disabled")
	}

	content := portfolio.Default()
	store := session.NewStore(content, cfg.Session.TTL, session.WithLogger(logger))
	go store.Run(ctx, cfg.Session.SweepInterval)

	srv, err := server.New(server.Options{
		Content:       content,
		Store:         store,
		SessionSecret: cfg.Session.Secret,
		SecureCookie:  cfg.Session.SecureCookie,
		Tracker:       tracker,
		Admin:         admin,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Addr())
}
