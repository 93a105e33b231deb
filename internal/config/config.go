package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Clearing ClearingConfig `mapstructure:"clearing"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Cron     CronConfig     `mapstructure:"cron"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	// APIToken guards /api/*; empty disables the check (dev only).
	APIToken string `mapstructure:"api_token"`
}

type BrokerConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	AccountID string        `mapstructure:"account_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ClearingConfig parameterizes the statement clearing windows so a
// broker schedule change is a config edit, not a code change.
type ClearingConfig struct {
	Timezone       string `mapstructure:"timezone"`
	DayWindowStart string `mapstructure:"day_window_start"`
	DayWindowEnd   string `mapstructure:"day_window_end"`
}

type AnalysisConfig struct {
	MaxRangeDays int           `mapstructure:"max_range_days"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type IngestConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	LookbackDays int           `mapstructure:"lookback_days"`
	Overlap      time.Duration `mapstructure:"overlap"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Ingest  string `mapstructure:"ingest"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.api_token", "")
	v.SetDefault("broker.base_url", "https://invest-public-api.tbank.ru/rest")
	v.SetDefault("broker.timeout", "15s")
	v.SetDefault("clearing.timezone", "Europe/Moscow")
	v.SetDefault("clearing.day_window_start", "10:00:00")
	v.SetDefault("clearing.day_window_end", "14:00:00")
	v.SetDefault("analysis.max_range_days", 366)
	v.SetDefault("analysis.fetch_timeout", "15s")
	v.SetDefault("ingest.enabled", true)
	v.SetDefault("ingest.lookback_days", 30)
	v.SetDefault("ingest.overlap", "1h")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.ingest", "@every 10m")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
