// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

// Config captures all crawler configuration knobs loaded via Viper.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Players  PlayersConfig  `mapstructure:"players"`
	Leagues  LeaguesConfig  `mapstructure:"leagues"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// DatabaseConfig controls access to the relational database.
type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// HTTPConfig holds the fixed request headers and timeouts sent to both sites.
type HTTPConfig struct {
	UserAgent      string        `mapstructure:"user_agent"`
	Accept         string        `mapstructure:"accept"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	AcceptEncoding string        `mapstructure:"accept_encoding"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// FetchConfig paces attempts and backoffs.
type FetchConfig struct {
	Pause              time.Duration `mapstructure:"pause"`
	RefusedBackoff     time.Duration `mapstructure:"refused_backoff"`
	ClientErrorBackoff time.Duration `mapstructure:"client_error_backoff"`
}

// PlayersConfig locates the pesdb player list.
type PlayersConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Path      string `mapstructure:"path"`
	CursorKey string `mapstructure:"cursor_key"`
}

// LeaguesConfig locates the pesmaster league index.
type LeaguesConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	IndexPath string `mapstructure:"index_path"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PESDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/69.0.3497.92 Safari/537.36")
	v.SetDefault("http.accept",
		"text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	v.SetDefault("http.accept_language", "zh-CN,zh;q=0.9,en;q=0.8")
	v.SetDefault("http.accept_encoding", "gzip")
	v.SetDefault("http.connect_timeout", 5*time.Second)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("fetch.pause", 5*time.Second)
	v.SetDefault("fetch.refused_backoff", 60*time.Second)
	v.SetDefault("fetch.client_error_backoff", 300*time.Second)
	v.SetDefault("players.base_url", "http://pesdb.net")
	v.SetDefault("players.path", "/pes2019/")
	v.SetDefault("players.cursor_key", crawler.DefaultCursorKey)
	v.SetDefault("leagues.base_url", "https://www.pesmaster.com")
	v.SetDefault("leagues.index_path", "/pes-2019/")
	v.SetDefault("metrics.addr", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.HTTP.ConnectTimeout <= 0 {
		return fmt.Errorf("http.connect_timeout must be > 0")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if c.HTTP.ConnectTimeout > c.HTTP.Timeout {
		return fmt.Errorf("http.connect_timeout must not exceed http.timeout")
	}
	if c.Fetch.Pause < 0 || c.Fetch.RefusedBackoff < 0 || c.Fetch.ClientErrorBackoff < 0 {
		return fmt.Errorf("fetch durations must be >= 0")
	}
	if err := validateBaseURL("players.base_url", c.Players.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("leagues.base_url", c.Leagues.BaseURL); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Players.Path, "/") {
		return fmt.Errorf("players.path must start with /")
	}
	if c.Players.CursorKey == "" {
		return fmt.Errorf("players.cursor_key is required")
	}
	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns must be >= 0")
	}
	return nil
}

// RequireDatabase reports an error when no DSN is configured.
func (c Config) RequireDatabase() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	return nil
}

// RetryPolicy converts the fetch pacing into the crawler's policy.
func (c Config) RetryPolicy() crawler.RetryPolicy {
	return crawler.RetryPolicy{
		Pause:              c.Fetch.Pause,
		RefusedBackoff:     c.Fetch.RefusedBackoff,
		ClientErrorBackoff: c.Fetch.ClientErrorBackoff,
	}
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}
