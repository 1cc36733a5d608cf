// Package config provides YAML-based configuration loading for Career Coach.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "90s" or "24h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the top-level Career Coach configuration, loaded from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Notify    NotifyConfig    `yaml:"notify"`
	Reminders ReminderConfig  `yaml:"reminders"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects the backing store. Driver is "mysql" or "sqlite".
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Path     string `yaml:"path"` // sqlite file path
}

// AnthropicConfig holds model and retry settings for the AI layer. The API
// key is never stored here; it comes from the ANTHROPIC_API_KEY environment
// variable.
type AnthropicConfig struct {
	Model        string        `yaml:"model"`
	MaxTokens    int           `yaml:"max_tokens"`
	Temperature  float64       `yaml:"temperature"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryDelayMs int           `yaml:"retry_delay_ms"`
	Timeout      Duration      `yaml:"timeout"`
}

// NotifyConfig lists the chat targets that receive status-change and
// reminder notifications. Bot tokens come from the environment.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig enables the Slack notifier.
type SlackConfig struct {
	Enabled bool   `yaml:"enabled"`
	Channel string `yaml:"channel"`
}

// DiscordConfig enables the Discord notifier.
type DiscordConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ChannelID string `yaml:"channel_id"`
}

// ReminderConfig controls the interview reminder scheduler.
type ReminderConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Schedule string        `yaml:"schedule"`  // 5-field cron expression
	LeadTime Duration      `yaml:"lead_time"` // notify this far before the interview
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.Name == "" {
			c.Database.Name = "careercoach"
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "careercoach.db"
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if c.Anthropic.MaxTokens == 0 {
		c.Anthropic.MaxTokens = 4096
	}
	if c.Anthropic.MaxRetries == 0 {
		c.Anthropic.MaxRetries = 3
	}
	if c.Anthropic.RetryDelayMs == 0 {
		c.Anthropic.RetryDelayMs = 1000
	}
	if c.Anthropic.Timeout == 0 {
		c.Anthropic.Timeout = Duration(60 * time.Second)
	}
	if c.Reminders.Schedule == "" {
		c.Reminders.Schedule = "*/15 * * * *"
	}
	if c.Reminders.LeadTime == 0 {
		c.Reminders.LeadTime = Duration(24 * time.Hour)
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (mysql, sqlite)", c.Database.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Anthropic.Temperature < 0 || c.Anthropic.Temperature > 1 {
		errs = append(errs, fmt.Sprintf("anthropic.temperature %v out of range 0-1", c.Anthropic.Temperature))
	}
	if c.Anthropic.MaxRetries < 1 {
		errs = append(errs, "anthropic.max_retries must be at least 1")
	}
	if c.Notify.Slack.Enabled && c.Notify.Slack.Channel == "" {
		errs = append(errs, "notify.slack.channel is required when slack is enabled")
	}
	if c.Notify.Discord.Enabled && c.Notify.Discord.ChannelID == "" {
		errs = append(errs, "notify.discord.channel_id is required when discord is enabled")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
