package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// CatalogSourceBuiltin serves the compiled-in catalog tables; CatalogSourceDB
// reads the same shape from Postgres.
const (
	CatalogSourceBuiltin = "builtin"
	CatalogSourceDB      = "database"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CatalogSource  string   `mapstructure:"CATALOG_SOURCE"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
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
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CATALOG_SOURCE", CatalogSourceBuiltin)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CATALOG_SOURCE")
	v.BindEnv("CORS_ORIGINS")
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

	switch cfg.CatalogSource {
	case CatalogSourceBuiltin, CatalogSourceDB:
	default:
		return nil, fmt.Errorf("invalid CATALOG_SOURCE: %s", cfg.CatalogSource)
	}

	// The database is only needed when the catalog lives there or finalized
	// quotations are persisted; without a URL the server runs fully in-memory.
	if cfg.CatalogSource == CatalogSourceDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=database")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasDatabase reports whether a Postgres connection is configured at all.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}
