// Package config provides YAML-based configuration loading for Dispatch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Dispatch configuration, loaded from dispatch.yaml.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Sources   SourcesConfig   `yaml:"sources"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Notes     NotesConfig     `yaml:"notes"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// SourcesConfig names the snapshot files. Relative paths resolve under
// DataDir. ShopOrders is required; an empty optional path disables that
// source.
type SourcesConfig struct {
	ShopOrders        string `yaml:"shop_orders"`
	LaborHistory      string `yaml:"labor_history"`
	OrderBacklog      string `yaml:"order_backlog"`
	PartInventory     string `yaml:"part_inventory"`
	MaterialNotIssued string `yaml:"material_not_issued"`
	OpenPO            string `yaml:"open_po"`
}

// RefreshConfig controls the background refresh schedule.
type RefreshConfig struct {
	// Cron is a 5-field cron expression (minute hour dom month dow).
	Cron string `yaml:"cron"`
}

// DashboardConfig holds dashboard server settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// NotesConfig selects the notes database backend.
type NotesConfig struct {
	Driver   string `yaml:"driver"` // "sqlite" (default) or "mysql"
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`
}

// NotifyConfig holds optional chat notification settings. A platform is
// enabled when its token and channel are both set.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack Web API credentials.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord bot credentials.
type DiscordConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
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
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Refresh.Cron == "" {
		c.Refresh.Cron = "*/5 * * * *"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Notes.Driver == "" {
		c.Notes.Driver = "sqlite"
	}
	if c.Notes.Driver == "sqlite" && c.Notes.Path == "" {
		c.Notes.Path = filepath.Join(c.DataDir, "dispatch.db")
	}
	if c.Notes.Driver == "mysql" {
		if c.Notes.Host == "" {
			c.Notes.Host = "127.0.0.1"
		}
		if c.Notes.Port == 0 {
			c.Notes.Port = 3306
		}
		if c.Notes.User == "" {
			c.Notes.User = "root"
		}
		if c.Notes.Database == "" {
			c.Notes.Database = "dispatch"
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Sources.ShopOrders == "" {
		errs = append(errs, "sources.shop_orders is required")
	}
	switch c.Notes.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("notes.driver %q is not supported", c.Notes.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SourcePath resolves a configured source path against DataDir. Absolute
// paths pass through; empty stays empty (source disabled).
func (c *Config) SourcePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
