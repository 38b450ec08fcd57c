package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger         `mapstructure:"logger"`
	DB         Database       `mapstructure:"database"`
	API        API            `mapstructure:"api"`
	Cache      Cache          `mapstructure:"cache"`
	Evolution  Evolution      `mapstructure:"evolution"`
	Scheduler  Scheduler      `mapstructure:"scheduler"`
	MarketData MarketData     `mapstructure:"market_data"`
	Linkup     Linkup         `mapstructure:"linkup"`
	Fastino    Fastino        `mapstructure:"fastino"`
	Gemini     Gemini         `mapstructure:"gemini"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port            int           `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	RateLimitPerSec float64       `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	MarketDataTTL     time.Duration `mapstructure:"market_data_ttl"`
}

type Evolution struct {
	VariantCount    int      `mapstructure:"variant_count"`
	MaxWorkers      int      `mapstructure:"max_workers"`
	Selector        string   `mapstructure:"selector"`
	HistoryDays     int      `mapstructure:"history_days"`
	DefaultTicker   string   `mapstructure:"default_ticker"`
	SentimentTicker []string `mapstructure:"sentiment_tickers"`
	Seed            int64    `mapstructure:"seed"`
}

type Scheduler struct {
	Enabled         bool          `mapstructure:"enabled"`
	EvolveSpec      string        `mapstructure:"evolve_spec"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

type MarketData struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	BaseTimeout      time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type Linkup struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	BaseTimeout      time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type Fastino struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	BaseTimeout      time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type Gemini struct {
	APIKey            string `mapstructure:"api_key"`
	Model             string `mapstructure:"model"`
	MaxRequestPerMin  int    `mapstructure:"max_request_per_min"`
	MaxTokenPerMinute int    `mapstructure:"max_token_per_minute"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	ChatID                    int64         `mapstructure:"chat_id"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
}

// Load reads config.yaml from the working directory. Values in .env and the
// process environment override it, with "." in keys replaced by "_".
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.request_timeout", 2*time.Minute)
	v.SetDefault("api.rate_limit_per_sec", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("cache.default_expiration", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", 20*time.Minute)
	v.SetDefault("cache.market_data_ttl", time.Hour)
	v.SetDefault("evolution.variant_count", 20)
	v.SetDefault("evolution.max_workers", 0)
	v.SetDefault("evolution.selector", "sharpe")
	v.SetDefault("evolution.history_days", 252)
	v.SetDefault("evolution.default_ticker", "SPY")
	v.SetDefault("evolution.sentiment_tickers", []string{"AAPL", "MSFT", "NVDA", "TSLA"})
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.evolve_spec", "0 22 * * 1-5")
	v.SetDefault("scheduler.timeout_duration", 10*time.Minute)
	v.SetDefault("market_data.base_url", "https://www.alphavantage.co")
	v.SetDefault("market_data.base_timeout", 15*time.Second)
	v.SetDefault("market_data.max_request_per_min", 5)
	v.SetDefault("linkup.base_url", "https://api.linkup.so/v1")
	v.SetDefault("linkup.base_timeout", 30*time.Second)
	v.SetDefault("linkup.max_request_per_min", 30)
	v.SetDefault("fastino.base_url", "https://api.fastino.ai")
	v.SetDefault("fastino.base_timeout", 30*time.Second)
	v.SetDefault("fastino.max_request_per_min", 30)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.max_request_per_min", 10)
	v.SetDefault("gemini.max_token_per_minute", 100000)
	v.SetDefault("telegram.timeout_duration", 10*time.Second)
	v.SetDefault("telegram.max_global_request_per_second", 20)
}
