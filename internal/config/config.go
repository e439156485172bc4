package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notehub/internal/constants"
	"github.com/Paintersrp/notehub/internal/pathutil"
)

const (
	DefaultPerPage        = 12
	DefaultDebounceMS     = 400
	DefaultRequestTimeout = "10s"
	DefaultLogLevel       = "info"
)

type Config struct {
	BaseURL        string `yaml:"base_url"        json:"base_url"`
	Token          string `yaml:"token,omitempty" json:"token,omitempty"`
	PerPage        int    `yaml:"per_page"        json:"per_page"`
	DebounceMS     int    `yaml:"debounce_ms"     json:"debounce_ms"`
	CacheEntries   int    `yaml:"cache_entries"   json:"cache_entries"`
	RequestTimeout string `yaml:"request_timeout" json:"request_timeout"`
	DraftFile      string `yaml:"draft_file"      json:"draft_file"`
	LogFile        string `yaml:"log_file"        json:"log_file"`
	LogLevel       string `yaml:"log_level"       json:"log_level"`

	home string `yaml:"-"`
}

var validLogLevelNames = []string{"debug", "info", "warn", "error"}

var ValidLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func ValidateLogLevel(level string) error {
	if _, valid := ValidLogLevels[strings.ToLower(level)]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid log level: %q. Please choose from %s.",
		level,
		quotedList(validLogLevelNames),
	)
}

func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base url %q: missing host", raw)
	}
	return nil
}

func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	if len(quoted) == 0 {
		return ""
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// Default returns the configuration used when the file is empty.
func Default(home string) *Config {
	cfg := &Config{home: home}
	cfg.ensureDefaults()
	return cfg
}

func (cfg *Config) ensureDefaults() {
	if cfg.PerPage == 0 {
		cfg.PerPage = DefaultPerPage
	}
	if cfg.DebounceMS == 0 {
		cfg.DebounceMS = DefaultDebounceMS
	}
	if strings.TrimSpace(cfg.RequestTimeout) == "" {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.DraftFile == "" {
		cfg.DraftFile = filepath.Join(cfg.dir(), constants.DraftFile)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.dir(), constants.LogFile)
	}
	cfg.DraftFile = pathutil.ExpandHome(cfg.DraftFile, cfg.home)
	cfg.LogFile = pathutil.ExpandHome(cfg.LogFile, cfg.home)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

func (cfg *Config) dir() string {
	return filepath.Join(cfg.home, constants.ConfigDir)
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) != 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.home = home
	cfg.ensureDefaults()
	cfg.syncWithViper()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// syncWithViper registers the file values as viper defaults, so bound flags
// and NOTEHUB_* environment variables win, then reads the merged values
// back.
func (cfg *Config) syncWithViper() {
	viper.SetDefault("base_url", cfg.BaseURL)
	viper.SetDefault("token", cfg.Token)
	viper.SetDefault("per_page", cfg.PerPage)
	viper.SetDefault("debounce_ms", cfg.DebounceMS)
	viper.SetDefault("cache_entries", cfg.CacheEntries)
	viper.SetDefault("request_timeout", cfg.RequestTimeout)
	viper.SetDefault("draft_file", cfg.DraftFile)
	viper.SetDefault("log_file", cfg.LogFile)
	viper.SetDefault("log_level", cfg.LogLevel)

	cfg.BaseURL = viper.GetString("base_url")
	cfg.Token = viper.GetString("token")
	cfg.PerPage = viper.GetInt("per_page")
	cfg.DebounceMS = viper.GetInt("debounce_ms")
	cfg.CacheEntries = viper.GetInt("cache_entries")
	cfg.RequestTimeout = viper.GetString("request_timeout")
	cfg.DraftFile = viper.GetString("draft_file")
	cfg.LogFile = viper.GetString("log_file")
	cfg.LogLevel = viper.GetString("log_level")
	cfg.ensureDefaults()
}

func (cfg *Config) Validate() error {
	if cfg.BaseURL != "" {
		if err := ValidateBaseURL(cfg.BaseURL); err != nil {
			return err
		}
	}
	if cfg.PerPage < 1 {
		return fmt.Errorf("per_page must be positive, got %d", cfg.PerPage)
	}
	if cfg.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms cannot be negative, got %d", cfg.DebounceMS)
	}
	if cfg.CacheEntries < 0 {
		return fmt.Errorf("cache_entries cannot be negative, got %d", cfg.CacheEntries)
	}
	if d, err := time.ParseDuration(cfg.RequestTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid request_timeout: %q", cfg.RequestTimeout)
	}
	return ValidateLogLevel(cfg.LogLevel)
}

func (cfg *Config) Debounce() time.Duration {
	return time.Duration(cfg.DebounceMS) * time.Millisecond
}

func (cfg *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultRequestTimeout)
	}
	return d
}

func (cfg *Config) Level() slog.Level {
	if level, ok := ValidLogLevels[cfg.LogLevel]; ok {
		return level
	}
	return slog.LevelInfo
}

func (cfg *Config) GetConfigPath() string {
	if cfg.home != "" {
		return GetConfigPath(cfg.home)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return GetConfigPath(homeDir)
}

func (cfg *Config) ChangeBaseURL(raw string) error {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if err := ValidateBaseURL(raw); err != nil {
		return err
	}
	cfg.BaseURL = raw
	viper.Set("base_url", raw)
	return nil
}

func (cfg *Config) ChangeToken(token string) {
	cfg.Token = strings.TrimSpace(token)
	viper.Set("token", cfg.Token)
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}
