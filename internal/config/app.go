package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Upstream struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Exchange struct {
	CooldownSeconds     int    `mapstructure:"cooldown_seconds"`
	HistoryLimit        int    `mapstructure:"history_limit"`
	SupportedCurrencies string `mapstructure:"supported_currencies"` // comma-separated codes
	TimeZone            string `mapstructure:"time_zone"`
}

// SupportedList splits the comma-separated currency list into codes.
func (e *Exchange) SupportedList() []string {
	parts := strings.Split(e.SupportedCurrencies, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, strings.ToUpper(p))
		}
	}
	return codes
}

type Cooldown struct {
	Backend   string `mapstructure:"backend"` // "memory" or "redis"
	RedisAddr string `mapstructure:"redis_addr"`
}

type Refresh struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	Upstream   Upstream   `mapstructure:"upstream"`
	Exchange   Exchange   `mapstructure:"exchange"`
	Cooldown   Cooldown   `mapstructure:"cooldown"`
	Refresh    Refresh    `mapstructure:"refresh"`
	Logging    Logging    `mapstructure:"logging"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("upstream.url", "https://www.cbr-xml-daily.ru/daily_json.js")
	viper.SetDefault("upstream.timeout_seconds", 5)
	viper.SetDefault("exchange.cooldown_seconds", 10)
	viper.SetDefault("exchange.history_limit", 10)
	viper.SetDefault("exchange.supported_currencies", "USD,EUR")
	viper.SetDefault("exchange.time_zone", "Local")
	viper.SetDefault("cooldown.backend", "memory")
	viper.SetDefault("refresh.enabled", false)
	viper.SetDefault("refresh.interval_seconds", 60)
	viper.SetDefault("logging.level", "info")

	// http server env vars
	_ = viper.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// upstream env vars
	_ = viper.BindEnv("upstream.url", "UPSTREAM_URL")
	_ = viper.BindEnv("upstream.timeout_seconds", "FETCH_TIMEOUT_SECONDS")

	// exchange env vars
	_ = viper.BindEnv("exchange.cooldown_seconds", "COOLDOWN_SECONDS")
	_ = viper.BindEnv("exchange.history_limit", "HISTORY_LIMIT")
	_ = viper.BindEnv("exchange.supported_currencies", "SUPPORTED_CURRENCIES")
	_ = viper.BindEnv("exchange.time_zone", "TIME_ZONE")

	// cooldown backend env vars
	_ = viper.BindEnv("cooldown.backend", "COOLDOWN_BACKEND")
	_ = viper.BindEnv("cooldown.redis_addr", "REDIS_ADDR")

	// refresh env vars
	_ = viper.BindEnv("refresh.enabled", "REFRESH_ENABLED")
	_ = viper.BindEnv("refresh.interval_seconds", "REFRESH_INTERVAL_SECONDS")

	// logging env vars
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
