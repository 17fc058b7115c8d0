package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Sale settlement policies.
const (
	PoliticaAtomica = "atomica"
	PoliticaParcial = "parcial"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"` // comma separated; empty allows any

	// Database
	DBDriver    string `mapstructure:"DB_DRIVER"` // sqlite | postgres
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (empty disables the stock cache and the alert queue)
	RedisURL          string `mapstructure:"REDIS_URL"`
	StockCacheTTLSecs int    `mapstructure:"STOCK_CACHE_TTL_SECONDS"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	AlertEmail   string `mapstructure:"ALERT_EMAIL"`

	// Business
	MainWarehouseID uint   `mapstructure:"MAIN_WAREHOUSE_ID"`
	SalePolicy      string `mapstructure:"SALE_POLICY"` // atomica | parcial
	BusinessName    string `mapstructure:"BUSINESS_NAME"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 3000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("CORS_ORIGINS", "")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_URL", "inventario.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("STOCK_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("JWT_REFRESH_HOURS", 24)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("ALERT_EMAIL", "")
	viper.SetDefault("MAIN_WAREHOUSE_ID", 1)
	viper.SetDefault("SALE_POLICY", PoliticaAtomica)
	viper.SetDefault("BUSINESS_NAME", "Punto de Venta")

	// Optional .env file for local development; a missing file is fine
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	cfg.SalePolicy = strings.ToLower(cfg.SalePolicy)
	if cfg.SalePolicy != PoliticaParcial {
		cfg.SalePolicy = PoliticaAtomica
	}
	if cfg.MainWarehouseID == 0 {
		cfg.MainWarehouseID = 1
	}
	return cfg, nil
}

// AllowedOrigins splits CORS_ORIGINS into a clean list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsProduction reports whether APP_ENV selects production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
