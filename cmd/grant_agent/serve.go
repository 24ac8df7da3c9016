package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/grant-assist/internal/cache"
	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/db"
	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/llm"
	"github.com/jonathan/grant-assist/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the validation, scoring and auto-completion endpoints. Storage, caching and auto-completion are enabled when a database URL, Redis address and API key are configured.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create database tables before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Config{Server: config.ServerConfig{Port: servePort}})
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithConcurrency(cfg.Engine.Concurrency),
		server.WithGenerationTimeout(cfg.LLM.Timeout),
	}

	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer database.Close()
		if serveMigrate {
			if err := database.Migrate(ctx); err != nil {
				return err
			}
			logger.Info("database schema applied")
		}
		opts = append(opts, server.WithStore(database))
	} else {
		logger.Warn("no database configured, draft endpoints disabled")
	}

	if cfg.Redis.Addr != "" {
		reports := cache.New(cache.NewRedisClient(cfg.Redis), cfg.Redis.CacheTTL)
		defer func() { _ = reports.Close() }()
		if err := reports.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts = append(opts, server.WithCache(reports))
	}

	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.LLM.APIKey)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		opts = append(opts, server.WithGenerators(func(grantContext string) engine.FieldGenerator {
			return newGenerator(client, cfg.LLM, logger, grantContext)
		}))
	} else {
		logger.Warn("no LLM API key configured, auto-completion disabled")
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("store", cfg.Database.URL != ""),
		zap.Bool("cache", cfg.Redis.Addr != ""),
		zap.String("llm_tier", cfg.LLM.Tier),
	)

	return server.New(cfg.Server, opts...).Start(ctx)
}
