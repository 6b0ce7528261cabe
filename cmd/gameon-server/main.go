package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/gargrave/gameon-server/pkg/gameon/config"
	"github.com/gargrave/gameon-server/pkg/gameon/database"
	"github.com/gargrave/gameon-server/pkg/gameon/logger"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ratelimit"
	"github.com/gargrave/gameon-server/pkg/gameon/server"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
)

// @title GameOn API
// @version 1.0
// @description Personal catalog of games, platforms, tags and dates played.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT or OIDC ID token. Format: "Bearer {token}"

func main() {
	if err := config.LoadEnvFile(config.EnvFile(os.Args)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:   "gameon-server",
		Usage:  "game tracking catalog API",
		Flags:  config.Flags(),
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "migrate the database and serve the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "run database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg := config.FromContext(c)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Writer:      os.Stdout,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(log)

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations completed")

	return cfg, log, db, nil
}

func migrate(c *cli.Context) error {
	_, _, _, err := setup(c)
	return err
}

func serve(c *cli.Context) error {
	cfg, log, db, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := server.NewVerifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to configure authentication: %w", err)
	}

	deps := server.Deps{
		Store:       store.New(db),
		Verifier:    verifier,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.RateLimit > 0 {
		deps.RateLimiter = ratelimit.New(cfg.RateLimit, cfg.RateBurst)
		defer deps.RateLimiter.Stop()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(deps)

	return server.Run(ctx, cfg.Addr(), router, log)
}
