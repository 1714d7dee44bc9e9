package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/pebblesync/internal/daily"
	"github.com/starford/pebblesync/internal/importer"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Vault VaultConfig       `yaml:"vault"`
	Sync  SyncConfig        `yaml:"sync"`
	Daily DailyConfig       `yaml:"daily"`
	State StateConfig       `yaml:"state"`
	Auth  AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Sync.Validate(); err != nil {
		return err
	}
	if err := c.Daily.Validate(); err != nil {
		return err
	}
	if err := c.State.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SyncConfig holds the Pebble service connection and import behavior.
//
// APIURL and APIKey may be left empty in the file and supplied via
// environment expansion; the importer checks them before each run rather
// than at startup, so the daemon can boot unconfigured and report a
// useful message on the first trigger.
type SyncConfig struct {
	APIURL            string `yaml:"api_url"`
	APIKey            string `yaml:"api_key"`
	NotesEnabled      bool   `yaml:"notes_enabled"`
	Folder            string `yaml:"folder"`
	TriggerTags       string `yaml:"trigger_tags"` // comma-separated
	Template          string `yaml:"template"`
	OverwriteExisting bool   `yaml:"overwrite_existing"`
	LinkToDaily       bool   `yaml:"link_to_daily"`
	SectionHeading    string `yaml:"section_heading"`
	MaxLedgerSize     int    `yaml:"max_ledger_size"`
	AutoRunMinutes    int    `yaml:"auto_run_minutes"`
	RunOnStart        bool   `yaml:"run_on_start"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, is.URL),
		validation.Field(&c.MaxLedgerSize, validation.Min(0)),
		validation.Field(&c.AutoRunMinutes, validation.Min(0)),
	)
}

// TriggerTagList splits the comma-separated trigger tags, trimming
// whitespace and dropping empty entries. Order is preserved; it decides
// which tag wins when several match.
func (c *SyncConfig) TriggerTagList() []string {
	var tags []string
	for _, tag := range strings.Split(c.TriggerTags, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// AutoRunInterval returns the auto-run period, zero when disabled.
func (c *SyncConfig) AutoRunInterval() time.Duration {
	return time.Duration(c.AutoRunMinutes) * time.Minute
}

// DailyConfig holds the daily-notes convention: where daily files live,
// how their names are derived from the date, and an optional template
// that seeds new ones.
type DailyConfig struct {
	Folder   string `yaml:"folder"`
	Format   string `yaml:"format"`
	Template string `yaml:"template"`
}

// Validate validates the daily configuration.
func (c *DailyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Folder, validation.Required),
		validation.Field(&c.Format, validation.Required),
	)
}

// StateConfig holds the SQLite state database location (ledger and run
// history).
type StateConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the state configuration.
func (c *StateConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the HTTP API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ImporterSettings builds the immutable per-run settings snapshot from the
// loaded configuration.
func (c *Config) ImporterSettings() importer.Settings {
	return importer.Settings{
		APIURL:            c.Sync.APIURL,
		APIKey:            c.Sync.APIKey,
		NotesEnabled:      c.Sync.NotesEnabled,
		Folder:            c.Sync.Folder,
		TriggerTags:       c.Sync.TriggerTagList(),
		Template:          c.Sync.Template,
		OverwriteExisting: c.Sync.OverwriteExisting,
		LinkToDaily:       c.Sync.LinkToDaily,
		SectionHeading:    c.Sync.SectionHeading,
		Daily: daily.Config{
			Folder:       c.Daily.Folder,
			Format:       c.Daily.Format,
			TemplatePath: c.Daily.Template,
		},
		MaxLedgerSize: c.Sync.MaxLedgerSize,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Sync: SyncConfig{
			NotesEnabled:   true,
			Folder:         "Pebble",
			LinkToDaily:    true,
			SectionHeading: "## Pebble Imports",
			MaxLedgerSize:  5000,
		},
		Daily: DailyConfig{
			Folder: "Daily",
			Format: "YYYY-MM-DD",
		},
		State: StateConfig{
			Path: "./pebblesync.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
