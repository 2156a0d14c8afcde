package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DBPath            string `yaml:"db_path"`
	JournalPath       string `yaml:"journal_path"`
	Guide             string `yaml:"guide"`
	Fence             string `yaml:"fence"`
	TopicPattern      string `yaml:"topic_pattern,omitempty"`
	ActionsDir        string `yaml:"actions_dir"`
	DryRun            bool   `yaml:"dry_run"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	LogFile           string `yaml:"log_file,omitempty"`
	Journald          bool   `yaml:"journald"`
	MaxPromptAttempts int    `yaml:"max_prompt_attempts"`
	PreviewWidth      int    `yaml:"preview_width"`
}

// Default returns the default configuration
func Default() *Config {
	dir := Dir()
	return &Config{
		DBPath:            filepath.Join(dir, "buildok.db"),
		JournalPath:       filepath.Join(dir, "journal.jsonl"),
		Guide:             ".",
		Fence:             "```",
		ActionsDir:        filepath.Join(dir, "actions"),
		DryRun:            false,
		LogLevel:          "warn",
		LogFormat:         "text",
		Journald:          false,
		MaxPromptAttempts: 3,
		PreviewWidth:      80,
	}
}

// Dir returns ~/.buildok
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".buildok")
}

// Load reads configuration from file, creating with defaults if it doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if strings.TrimSpace(c.Fence) == "" {
		return fmt.Errorf("fence must not be empty")
	}
	if c.MaxPromptAttempts < 1 {
		return fmt.Errorf("max_prompt_attempts must be at least 1")
	}
	return nil
}

// Save writes the configuration to file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}
