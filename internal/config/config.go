// Package config loads settings from defaults, an optional YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Profile  ProfileConfig
	Catalog  CatalogConfig
	Messages MessagesConfig
	Tips     []string
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string
	Level string
}

// ProfileConfig is the acting user.
type ProfileConfig struct {
	Name   string
	Avatar string
}

// CatalogConfig controls the items listed at startup.
type CatalogConfig struct {
	Seed         string
	DefaultImage string `mapstructure:"default_image"`
}

// MessagesConfig overrides notification texts.
type MessagesConfig struct {
	Claimed string
	Posted  string
}

// Loader reads configuration. Use one Loader per process.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader. path names the config file; when empty, the
// EWASTE_CONFIG variable, ./ewaste.yaml and ~/.config/ewaste/config.yaml are
// tried in that order. A missing file is not an error.
func NewLoader(path string) *Loader {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("profile.name", "User")
	v.SetDefault("profile.avatar", "DefaultPfp.jpg")
	v.SetDefault("catalog.seed", "")
	v.SetDefault("catalog.default_image", "ElectricFan.jpg")
	v.SetDefault("messages.claimed", "")
	v.SetDefault("messages.posted", "")
	v.SetDefault("tips", []string{})

	v.SetConfigType("yaml")
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("EWASTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Loader{v: v}
}

func findConfigFile() string {
	candidates := []string{os.Getenv("EWASTE_CONFIG"), "ewaste.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ewaste", "config.yaml"))
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// BindFlag lets a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: no such flag", key)
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}

// File returns the config file in use, or "" when there is none.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Load reads the config file, if any, and returns the merged configuration.
func (l *Loader) Load() (Config, error) {
	if l.File() != "" {
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Watch calls fn with the new configuration whenever the config file changes.
// It does nothing when no config file is in use.
func (l *Loader) Watch(fn func(Config)) {
	if l.File() == "" {
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		c, err := l.unmarshal()
		if err != nil {
			slog.Error("failed to reload config", "file", e.Name, "error", err)
			return
		}
		slog.Info("config reloaded", "file", e.Name)
		fn(c)
	})
	l.v.WatchConfig()
}

// LoadDotEnv loads environment variables from the given .env files (".env"
// when none are given). Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}
