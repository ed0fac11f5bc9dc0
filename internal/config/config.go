// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Trustdesk settings from defaults, trustdesk.yaml,
// TRUSTDESK_* environment variables and command flags, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RuntimeOS is indirected for tests.
var RuntimeOS = runtime.GOOS

// Config is the full application configuration.
type Config struct {
	API      APIConfig     `mapstructure:"api" yaml:"api"`
	Storage  StorageConfig `mapstructure:"storage" yaml:"storage"`
	Language string        `mapstructure:"language" yaml:"language"`
	Listing  ListingConfig `mapstructure:"listing" yaml:"listing"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// StorageConfig selects the persistent client storage backend.
// Type is one of "memory", "sqlite", "postgres", "mysql", "badger".
type StorageConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

type ListingConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Defaults returns the default key/value pairs fed to LoadConfig.
func Defaults() map[string]any {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "trustdesk")
	}
	return map[string]any{
		"api.base_url":      "http://localhost:8080",
		"api.timeout":       "15s",
		"storage.type":      "sqlite",
		"storage.dsn":       filepath.Join(dataDir, "trustdesk.db"),
		"language":          "en",
		"listing.page_size": 10,
		"log.level":         "info",
		"log.file":          filepath.Join(dataDir, "trustdesk.log"),
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch RuntimeOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Trustdesk")
		default: // Linux, macOS, etc.
			configDir = "/etc/trustdesk"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "trustdesk")
	}

	return filepath.Join(configDir, "trustdesk.yaml"), nil
}

// LoadConfig builds a T from defaults, the config file search path, the
// environment and the flags of cmd. A missing config file is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("trustdesk")
	v.SetConfigType("yaml")

	// An explicit --config path has the highest precedence for file-based configuration.
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, fmt.Errorf("could not read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("trustdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("could not decode config: %w", err)
	}
	return c, nil
}

// flagKeys maps flag names onto config keys. Flags not listed bind under
// their own name.
var flagKeys = map[string]string{
	"api-url":      "api.base_url",
	"api-timeout":  "api.timeout",
	"storage-type": "storage.type",
	"storage-dsn":  "storage.dsn",
	"lang":         "language",
	"page-size":    "listing.page_size",
	"log-level":    "log.level",
	"log-file":     "log.file",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return v.BindPFlags(cmd.Flags())
}

// WriteConfigFile writes c as YAML to the user (or system) config path and
// returns that path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the storage DSN may carry credentials
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
