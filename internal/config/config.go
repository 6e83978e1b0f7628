package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer     string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string   `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey string   `mapstructure:"AUTH_SIGNING_KEY"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	BlobBackend    string   `mapstructure:"BLOB_BACKEND"`
	BlobBucket     string   `mapstructure:"BLOB_BUCKET"`
	BlobBaseURL    string   `mapstructure:"BLOB_PUBLIC_BASE_URL"`
	BlobGatewayURL string   `mapstructure:"BLOB_GATEWAY_URL"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BLOB_BACKEND", "memory")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("BLOB_BACKEND")
	v.BindEnv("BLOB_BUCKET")
	v.BindEnv("BLOB_PUBLIC_BASE_URL")
	v.BindEnv("BLOB_GATEWAY_URL")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		// The main logger is not built yet at this point, so warn on a
		// throwaway one with the same format.
		warnDevMode(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
	}

	return cfg, nil
}

func warnDevMode(logger zerolog.Logger) {
	logger.Warn().Msg("server is running in DEVELOPMENT mode (ENV=development)")
	logger.Warn().Msg("DevAuthMiddleware is active; all requests get a fixed member identity")
	logger.Warn().Msg("set ENV=production and configure AUTH_SIGNING_KEY for production")
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a signing key is required so that real JWT authentication is enforced, and
// the selected blob backend must be fully configured.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY must be set when ENV=%q; refusing to start without authentication configuration", c.Env)
	}

	switch c.BlobBackend {
	case "memory":
		// tests and local development only
	case "s3":
		if c.BlobBucket == "" {
			return fmt.Errorf("BLOB_BUCKET is required when BLOB_BACKEND is \"s3\"")
		}
		if c.BlobBaseURL == "" {
			return fmt.Errorf("BLOB_PUBLIC_BASE_URL is required when BLOB_BACKEND is \"s3\"")
		}
	case "gateway":
		if c.BlobGatewayURL == "" {
			return fmt.Errorf("BLOB_GATEWAY_URL is required when BLOB_BACKEND is \"gateway\"")
		}
	default:
		return fmt.Errorf("BLOB_BACKEND must be \"memory\", \"s3\", or \"gateway\", got %q", c.BlobBackend)
	}

	if c.IsProduction() && c.BlobBackend == "memory" {
		return fmt.Errorf("BLOB_BACKEND \"memory\" is not allowed in production")
	}

	return nil
}
