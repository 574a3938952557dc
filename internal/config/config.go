package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	UI   UIConfig      `mapstructure:"ui"`
	Log  LogConfig     `mapstructure:"log"`
	Keys []KeyOverride `mapstructure:"keys"`
}

// UIConfig holds presentation and sampling settings.
type UIConfig struct {
	Title        string        `mapstructure:"title"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Mouse        bool          `mapstructure:"mouse"`
	AltScreen    bool          `mapstructure:"alt_screen"`
}

// LogConfig controls the log file. An empty Path discards logs.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// KeyOverride rebinds the keys of one action within one key scope.
type KeyOverride struct {
	Scope  string   `mapstructure:"scope"`
	Action string   `mapstructure:"action"`
	Keys   []string `mapstructure:"keys"`
}

const (
	envPrefix  = "LAPWATCH"
	envConfig  = "LAPWATCH_CONFIG"
	configName = "config"
)

// Default returns the built-in configuration. Logging is off when the home
// directory cannot be determined.
func Default() Config {
	var logPath string
	if home := homeDir(); home != "" {
		logPath = filepath.Join(home, ".local", "state", "lapwatch", "lapwatch.log")
	}
	return Config{
		UI: UIConfig{
			Title:        "Stopwatch",
			TickInterval: 10 * time.Millisecond,
			Mouse:        true,
			AltScreen:    true,
		},
		Log: LogConfig{
			Path:  logPath,
			Level: "info",
		},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix LAPWATCH_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")

	cfgPath := os.Getenv(envConfig)
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if home := homeDir(); home != "" {
			v.AddConfigPath(filepath.Join(home, ".config", "lapwatch"))
		}
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path must exist; the default location is optional
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the widget cannot run with.
func (c Config) Validate() error {
	if c.UI.TickInterval <= 0 {
		return fmt.Errorf("config: ui.tick_interval must be positive, got %s", c.UI.TickInterval)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	for i, k := range c.Keys {
		if strings.TrimSpace(k.Scope) == "" || strings.TrimSpace(k.Action) == "" {
			return fmt.Errorf("config: keys[%d]: scope and action are required", i)
		}
	}
	return nil
}

// Path returns the file Load reads and Save writes.
func Path() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	home := homeDir()
	if home == "" {
		return "", fmt.Errorf("config path: no home directory and %s unset", envConfig)
	}
	return filepath.Join(home, ".config", "lapwatch", configName+".toml"), nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.tick_interval", cfg.UI.TickInterval.String())
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("ui.alt_screen", cfg.UI.AltScreen)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	if len(cfg.Keys) > 0 {
		keys := make([]map[string]any, 0, len(cfg.Keys))
		for _, k := range cfg.Keys {
			keys = append(keys, map[string]any{"scope": k.Scope, "action": k.Action, "keys": k.Keys})
		}
		v.Set("keys", keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("ui.title", d.UI.Title)
	v.SetDefault("ui.tick_interval", d.UI.TickInterval.String())
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.alt_screen", d.UI.AltScreen)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
