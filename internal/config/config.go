// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by the render command.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatOpenAI   = "openai"
)

// Config holds all configuration values for promptgen.
type Config struct {
	SetsDir    string `mapstructure:"sets_dir" yaml:"sets_dir"`
	OutDir     string `mapstructure:"out_dir" yaml:"out_dir"`
	Package    string `mapstructure:"package" yaml:"package"`
	Format     string `mapstructure:"format" yaml:"format"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MCPAddr    string `mapstructure:"mcp_addr" yaml:"mcp_addr"`
	NATSURL    string `mapstructure:"nats_url" yaml:"nats_url"`
	NATSAddr   string `mapstructure:"nats_addr" yaml:"nats_addr"`
	NATSPrefix string `mapstructure:"nats_prefix" yaml:"nats_prefix"`
	NATSStore  string `mapstructure:"nats_store_dir" yaml:"nats_store_dir"`
}

// Defaults returns the configuration used when no file or env var sets a key.
func Defaults() *Config {
	return &Config{
		SetsDir:    "",
		OutDir:     ".",
		Package:    "",
		Format:     FormatText,
		LogLevel:   "info",
		LogFile:    "",
		MCPAddr:    "127.0.0.1:0",
		NATSURL:    "",
		NATSAddr:   "127.0.0.1:4222",
		NATSPrefix: "promptgen",
		NATSStore:  "",
	}
}

// keys lists every config key; each is bound to PROMPTGEN_<KEY>.
var keys = []string{
	"sets_dir",
	"out_dir",
	"package",
	"format",
	"log_level",
	"log_file",
	"mcp_addr",
	"nats_url",
	"nats_addr",
	"nats_prefix",
	"nats_store_dir",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
//
// CLI flags are applied by the caller on the returned value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("promptgen")

	d := Defaults()
	v.SetDefault("sets_dir", d.SetsDir)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("package", d.Package)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("mcp_addr", d.MCPAddr)
	v.SetDefault("nats_url", d.NATSURL)
	v.SetDefault("nats_addr", d.NATSAddr)
	v.SetDefault("nats_prefix", d.NATSPrefix)
	v.SetDefault("nats_store_dir", d.NATSStore)

	v.SetEnvPrefix("PROMPTGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range keys {
		if err := v.BindEnv(key, "PROMPTGEN_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatOpenAI:
	default:
		return fmt.Errorf("invalid format %q (want text, json, markdown or openai)", c.Format)
	}
	if strings.TrimSpace(c.NATSPrefix) == "" {
		return fmt.Errorf("nats_prefix cannot be empty")
	}
	if strings.ContainsAny(c.NATSPrefix, " *>") {
		return fmt.Errorf("invalid nats_prefix %q", c.NATSPrefix)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalDir returns the XDG config directory for promptgen.
func GlobalDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "promptgen")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "promptgen")
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/promptgen/promptgen.yml or $XDG_CONFIG_HOME/promptgen/promptgen.yml.
func GlobalPath() string {
	return filepath.Join(GlobalDir(), "promptgen.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "promptgen.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
