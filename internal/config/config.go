package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Export   ExportConfig
	Log      LogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ExportConfig holds task-export settings.
type ExportConfig struct {
	Dir string
}

// LogConfig holds log-file settings.
type LogConfig struct {
	Path string
}

// UIConfig holds presentation settings, including the page-transition and
// simulated-latency delays in milliseconds.
type UIConfig struct {
	DateFormat    string `mapstructure:"date_format"`
	Timezone      string
	FadeDelayMs   int `mapstructure:"fade_delay_ms"`
	SignupDelayMs int `mapstructure:"signup_delay_ms"`
	LoginDelayMs  int `mapstructure:"login_delay_ms"`
	RedirectMs    int `mapstructure:"redirect_ms"`
	SplashMs      int `mapstructure:"splash_ms"`
	ToastMs       int `mapstructure:"toast_ms"`
}

// FadeDelay is the settle delay between fading a page out and revealing the next.
func (u UIConfig) FadeDelay() time.Duration { return time.Duration(u.FadeDelayMs) * time.Millisecond }

// SignupDelay is the simulated signup latency.
func (u UIConfig) SignupDelay() time.Duration {
	return time.Duration(u.SignupDelayMs) * time.Millisecond
}

// LoginDelay is the simulated login latency.
func (u UIConfig) LoginDelay() time.Duration {
	return time.Duration(u.LoginDelayMs) * time.Millisecond
}

// RedirectDelay is the pause between a success toast and the dashboard.
func (u UIConfig) RedirectDelay() time.Duration {
	return time.Duration(u.RedirectMs) * time.Millisecond
}

// SplashDelay is the startup splash duration.
func (u UIConfig) SplashDelay() time.Duration { return time.Duration(u.SplashMs) * time.Millisecond }

// ToastExpiry is how long status toasts stay visible.
func (u UIConfig) ToastExpiry() time.Duration { return time.Duration(u.ToastMs) * time.Millisecond }

// Load reads configuration from file and env. Env var overrides use prefix TASKLITE_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "tasklite")

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir, "tasklite.db"))
	v.SetDefault("export.dir", dataDir)
	v.SetDefault("log.path", filepath.Join(dataDir, "tasklite.log"))
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.fade_delay_ms", 250)
	v.SetDefault("ui.signup_delay_ms", 1000)
	v.SetDefault("ui.login_delay_ms", 800)
	v.SetDefault("ui.redirect_ms", 1500)
	v.SetDefault("ui.splash_ms", 2000)
	v.SetDefault("ui.toast_ms", 3000)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TASKLITE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tasklite"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TASKLITE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func configPath() string {
	if path := os.Getenv("TASKLITE_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "tasklite", "config.toml")
}

// SaveIfMissing seeds the config file with the resolved values on first run
// so there is something concrete to edit.
func SaveIfMissing(cfg Config) error {
	if _, err := os.Stat(configPath()); err == nil {
		return nil
	}
	return Save(cfg)
}

// Save writes the provided config to disk, creating the config directory if
// needed.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.fade_delay_ms", cfg.UI.FadeDelayMs)
	v.Set("ui.signup_delay_ms", cfg.UI.SignupDelayMs)
	v.Set("ui.login_delay_ms", cfg.UI.LoginDelayMs)
	v.Set("ui.redirect_ms", cfg.UI.RedirectMs)
	v.Set("ui.splash_ms", cfg.UI.SplashMs)
	v.Set("ui.toast_ms", cfg.UI.ToastMs)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
