package config

import (
	"fmt"

	"go-stockdash/internal/stock"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, sourced from environment
// variables with sane defaults. cmd/api loads .env first so a local file and
// real env behave the same.
type Config struct {
	Port        string
	DatabaseURL string
	AMQPURL     string

	// Alert policy knobs (see internal/stock). Band boundaries are product
	// policy, so they are configurable rather than compiled in.
	DefaultLowStockThreshold int
	HighSeverityRatio        float64
}

// Load reads configuration from the environment.
func Load() *Config {
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("LOW_STOCK_THRESHOLD", stock.DefaultLowStockThreshold)
	viper.SetDefault("HIGH_SEVERITY_RATIO", stock.DefaultHighBandRatio)
	viper.AutomaticEnv()

	dsn := viper.GetString("DATABASE_URL")
	if dsn == "" {
		// Fall back to discrete DB_* variables.
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			viper.GetString("DB_HOST"),
			viper.GetString("DB_USER"),
			viper.GetString("DB_PASSWORD"),
			viper.GetString("DB_NAME"),
			viper.GetString("DB_PORT"),
		)
	}

	return &Config{
		Port:                     viper.GetString("PORT"),
		DatabaseURL:              dsn,
		AMQPURL:                  viper.GetString("AMQP_URL"),
		DefaultLowStockThreshold: viper.GetInt("LOW_STOCK_THRESHOLD"),
		HighSeverityRatio:        viper.GetFloat64("HIGH_SEVERITY_RATIO"),
	}
}
