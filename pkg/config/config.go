package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SALES_ATLAS"

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Export    ExportConfig    `mapstructure:"export"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StoreConfig struct {
	Driver       string        `mapstructure:"driver"`
	DuckDBPath   string        `mapstructure:"duckdb_path"`
	PostgresDSN  string        `mapstructure:"postgres_dsn"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type AnalyticsConfig struct {
	ForecastWindowDays  int `mapstructure:"forecast_window_days"`
	ForecastHorizonDays int `mapstructure:"forecast_horizon_days"`
	MinForecastPoints   int `mapstructure:"min_forecast_points"`
	StockWindowDays     int `mapstructure:"stock_window_days"`
	LowStockThreshold   int `mapstructure:"low_stock_threshold"`
	TopItemsLimit       int `mapstructure:"top_items_limit"`
}

type ExportConfig struct {
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.driver", DriverDuckDB)
	v.SetDefault("store.duckdb_path", "sales_atlas.db")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("store.query_timeout", 30*time.Second)

	v.SetDefault("analytics.forecast_window_days", 30)
	v.SetDefault("analytics.forecast_horizon_days", 7)
	v.SetDefault("analytics.min_forecast_points", 5)
	v.SetDefault("analytics.stock_window_days", 30)
	v.SetDefault("analytics.low_stock_threshold", 10)
	v.SetDefault("analytics.top_items_limit", 3)

	v.SetDefault("export.s3_bucket", "")
	v.SetDefault("export.s3_prefix", "exports/")

	v.SetDefault("log.level", "info")
}

// LoadConfig reads the optional config file at path and overlays
// SALES_ATLAS_* environment variables, e.g. SALES_ATLAS_SERVER_PORT.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverDuckDB:
		if c.Store.DuckDBPath == "" {
			return fmt.Errorf("store.duckdb_path is required for the duckdb driver")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	return nil
}
