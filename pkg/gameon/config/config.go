// Package config resolves server settings from flags, environment variables
// and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DefaultEnvFile = ".env"

	// devJWTSecret is only ever used outside production.
	devJWTSecret = "gameon-dev-secret"
)

// DefaultCORSOrigins is the development client whitelist.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:8080"}

type Config struct {
	Port         int
	DatabaseURL  string
	Environment  string
	LogLevel     string
	LogFormat    string
	CORSOrigins  []string
	JWTSecret    string
	OIDCIssuer   string
	OIDCClientID string
	RateLimit    float64
	RateBurst    int
}

// Flags returns the CLI flags shared by every command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file loaded before flags are parsed",
			Value: DefaultEnvFile,
		},
		&cli.IntFlag{
			Name:    "port",
			Usage:   "HTTP listen port",
			Value:   8080,
			EnvVars: []string{"GAMEON_PORT", "PORT"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "postgres://, mysql:// or a SQLite path",
			Value:   "gameon.db",
			EnvVars: []string{"GAMEON_DATABASE_URL", "DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "development, test or production",
			Value:   EnvDevelopment,
			EnvVars: []string{"GAMEON_ENV"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			EnvVars: []string{"GAMEON_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "json or text (default depends on env)",
			EnvVars: []string{"GAMEON_LOG_FORMAT"},
		},
		&cli.StringSliceFlag{
			Name:    "cors-origins",
			Usage:   "allowed browser origins",
			Value:   cli.NewStringSlice(DefaultCORSOrigins...),
			EnvVars: []string{"GAMEON_CORS_ORIGINS"},
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "HMAC secret for locally issued tokens",
			EnvVars: []string{"GAMEON_JWT_SECRET"},
		},
		&cli.StringFlag{
			Name:    "oidc-issuer",
			EnvVars: []string{"GAMEON_OIDC_ISSUER"},
		},
		&cli.StringFlag{
			Name:    "oidc-client-id",
			EnvVars: []string{"GAMEON_OIDC_CLIENT_ID"},
		},
		&cli.Float64Flag{
			Name:    "rate-limit",
			Usage:   "API requests per second per client, 0 disables",
			Value:   10,
			EnvVars: []string{"GAMEON_RATE_LIMIT"},
		},
		&cli.IntFlag{
			Name:    "rate-burst",
			Value:   20,
			EnvVars: []string{"GAMEON_RATE_BURST"},
		},
	}
}

// EnvFile finds the dotenv path before the CLI parses anything, since env
// vars are bound to flags at parse time.
func EnvFile(args []string) string {
	for i, arg := range args {
		for _, name := range []string{"--env-file", "-env-file"} {
			if arg == name && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(arg, name+"="); ok {
				return v
			}
		}
	}
	if v := os.Getenv("GAMEON_ENV_FILE"); v != "" {
		return v
	}
	return DefaultEnvFile
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromContext builds a Config from parsed flags.
func FromContext(c *cli.Context) *Config {
	cfg := &Config{
		Port:         c.Int("port"),
		DatabaseURL:  c.String("database-url"),
		Environment:  strings.ToLower(c.String("env")),
		LogLevel:     c.String("log-level"),
		LogFormat:    c.String("log-format"),
		JWTSecret:    c.String("jwt-secret"),
		OIDCIssuer:   c.String("oidc-issuer"),
		OIDCClientID: c.String("oidc-client-id"),
		RateLimit:    c.Float64("rate-limit"),
		RateBurst:    c.Int("rate-burst"),
	}
	for _, origin := range c.StringSlice("cors-origins") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}
	if cfg.JWTSecret == "" && cfg.Environment != EnvProduction {
		cfg.JWTSecret = devJWTSecret
	}
	return cfg
}

// Validate reports the first setting that cannot start a server.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	if (c.OIDCIssuer == "") != (c.OIDCClientID == "") {
		return errors.New("oidc issuer and client id must be set together")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return errors.New("rate burst must be at least 1")
	}
	if c.Environment == EnvProduction && c.JWTSecret == "" && c.OIDCIssuer == "" {
		return errors.New("production requires GAMEON_JWT_SECRET or an OIDC issuer")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
