// Package server assembles the HTTP API: middleware, authentication and the
// resource routes.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gargrave/gameon-server/api/swagger"
	"github.com/gargrave/gameon-server/pkg/gameon/association"
	"github.com/gargrave/gameon-server/pkg/gameon/auth"
	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/config"
	"github.com/gargrave/gameon-server/pkg/gameon/games"
	"github.com/gargrave/gameon-server/pkg/gameon/importexport"
	"github.com/gargrave/gameon-server/pkg/gameon/logger"
	"github.com/gargrave/gameon-server/pkg/gameon/platforms"
	"github.com/gargrave/gameon-server/pkg/gameon/ratelimit"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
	"github.com/gargrave/gameon-server/pkg/gameon/tags"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

const shutdownTimeout = 10 * time.Second

// Deps is everything the router needs.
type Deps struct {
	Store       *store.Store
	Verifier    auth.TokenVerifier
	Logger      *slog.Logger
	CORSOrigins []string
	// RateLimiter throttles /api per client when set.
	RateLimiter *ratelimit.KeyedRateLimiter
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	v := validation.New()
	cat := catalog.NewService(d.Store, v, d.Logger)
	links := association.NewService(d.Store, v, d.Logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(d.Logger))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", logger.HeaderRequestID},
			ExposeHeaders:    []string{logger.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check endpoint
	r.GET("/health", health)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if d.RateLimiter != nil {
		api.Use(ratelimit.Middleware(d.RateLimiter))
	}
	api.GET("/health", health)

	protected := api.Group("", auth.AuthMiddleware(d.Verifier, d.Store))
	{
		auth.NewHandler(d.Store).RegisterRoutes(protected.Group("/auth"))
		games.NewHandler(cat, links).RegisterRoutes(protected)
		platforms.NewHandler(cat).RegisterRoutes(protected)
		tags.NewHandler(cat, links).RegisterRoutes(protected)
		importexport.NewHandler(cat, links).RegisterRoutes(protected)
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "gameon",
	})
}

// NewVerifier chains the configured token verifiers. Locally signed JWTs are
// tried first, then the OIDC issuer when one is configured.
func NewVerifier(ctx context.Context, cfg *config.Config) (auth.Chain, error) {
	var chain auth.Chain
	if cfg.JWTSecret != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		chain = append(chain, jwtVerifier)
	}
	if cfg.OIDCIssuer != "" {
		oidcVerifier, err := auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, oidcVerifier)
	}
	if len(chain) == 0 {
		return nil, stderrors.New("no token verifier configured")
	}
	return chain, nil
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests.
func Run(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return <-errCh
}
