// Package config loads gopanel settings from defaults, an optional YAML file
// and GOPANEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Store backends
const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

// Settings is the resolved configuration
type Settings struct {
	Store struct {
		Backend    string `mapstructure:"backend"`
		Path       string `mapstructure:"path"`        // Workbook path for the xlsx backend
		SQLitePath string `mapstructure:"sqlite_path"` // Database path for the sqlite backend
	} `mapstructure:"store"`

	Log struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"`
		File       string `mapstructure:"file"`        // Empty logs to stderr
		MaxSize    int    `mapstructure:"max_size"`    // MB before rotation
		MaxBackups int    `mapstructure:"max_backups"` // Rotated files kept
		MaxAge     int    `mapstructure:"max_age"`     // Days a rotated file is kept
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`

	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Sizing struct {
		Strict bool `mapstructure:"strict"` // Only accept the listed fp/fd/voltage options
	} `mapstructure:"sizing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendXLSX)
	v.SetDefault("store.path", "Quadro_de_cargas.xlsx")
	v.SetDefault("store.sqlite_path", "gopanel.db")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("server.port", 8080)

	v.SetDefault("sizing.strict", true)
}

// Load reads configuration. An explicit file must exist; otherwise gopanel.yaml
// is searched in the working directory and the user config directory.
func Load(file string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GOPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("gopanel")
		v.SetConfigType("yaml")
		for _, path := range searchPaths() {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings for values the program cannot use
func (s *Settings) Validate() error {
	switch s.Store.Backend {
	case BackendXLSX:
		if s.Store.Path == "" {
			return fmt.Errorf("store.path must be set for the %s backend", BackendXLSX)
		}
	case BackendSQLite:
		if s.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path must be set for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want %s or %s)", s.Store.Backend, BackendXLSX, BackendSQLite)
	}
	if s.Log.MaxSize < 0 || s.Log.MaxBackups < 0 || s.Log.MaxAge < 0 {
		return errors.New("log rotation limits must not be negative")
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", s.Server.Port)
	}
	return nil
}

func searchPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "gopanel"))
	}
	return paths
}
