// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
	LogLevel  string
	LogFormat string
}

type ServerConfig struct {
	Port              string
	Mode              string
	ReadTimeout       int
	WriteTimeout      int
	AllowedOrigins    []string
	SummaryRatePerSec float64
	SummaryBurst      int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

type ForecastConfig struct {
	DefaultDays  int
	MaxDays      int
	MaxProducts  int
	Workers      int
	HistoryDays  int
	LeadTimeDays int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("SERVER_SUMMARY_RATE_PER_SEC", 1.0)
		viper.SetDefault("SERVER_SUMMARY_BURST", 5)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stockcast")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
		viper.SetDefault("FORECAST_DEFAULT_DAYS", 90)
		viper.SetDefault("FORECAST_MAX_DAYS", 365)
		viper.SetDefault("FORECAST_MAX_PRODUCTS", 50)
		viper.SetDefault("FORECAST_WORKERS", 4)
		viper.SetDefault("FORECAST_HISTORY_DAYS", 365)
		viper.SetDefault("FORECAST_LEAD_TIME_DAYS", 7)
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "console")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:              viper.GetString("SERVER_PORT"),
				Mode:              viper.GetString("SERVER_MODE"),
				ReadTimeout:       viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:      viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins:    viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				SummaryRatePerSec: viper.GetFloat64("SERVER_SUMMARY_RATE_PER_SEC"),
				SummaryBurst:      viper.GetInt("SERVER_SUMMARY_BURST"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				DefaultDays:  viper.GetInt("FORECAST_DEFAULT_DAYS"),
				MaxDays:      viper.GetInt("FORECAST_MAX_DAYS"),
				MaxProducts:  viper.GetInt("FORECAST_MAX_PRODUCTS"),
				Workers:      viper.GetInt("FORECAST_WORKERS"),
				HistoryDays:  viper.GetInt("FORECAST_HISTORY_DAYS"),
				LeadTimeDays: viper.GetInt("FORECAST_LEAD_TIME_DAYS"),
			},
			LogLevel:  viper.GetString("LOG_LEVEL"),
			LogFormat: viper.GetString("LOG_FORMAT"),
		}
	})

	return instance
}

// DefaultForecastConfig returns the forecast settings used when no environment is loaded
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		DefaultDays:  90,
		MaxDays:      365,
		MaxProducts:  50,
		Workers:      4,
		HistoryDays:  365,
		LeadTimeDays: 7,
	}
}
