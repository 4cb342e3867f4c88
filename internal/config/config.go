// Package config loads pipeboard settings from the config file,
// environment, and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tarviz/pipeboard/internal/sync"
)

// Settings holds the resolved pipeboard configuration.
//
// Precedence is flags over environment (PIPEBOARD_*) over the config file,
// which viper handles once everything is bound.
type Settings struct {
	// APIURL is the backend base URL, e.g. https://app.example.com/api.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// EventsURL is the websocket base URL. If empty it is derived from
	// APIURL by swapping the scheme to ws(s) and dropping the path.
	EventsURL string `mapstructure:"events_url" yaml:"events_url"`

	// Token is the backend auth token.
	Token string `mapstructure:"token" yaml:"token"`

	// ClientID scopes live updates to one client's channel.
	ClientID string `mapstructure:"client_id" yaml:"client_id"`

	// Role decides which moves the local rules allow.
	Role string `mapstructure:"role" yaml:"role"`

	// Offline switches the board source to the local snapshot file.
	Offline bool `mapstructure:"offline" yaml:"offline"`

	// SnapshotPath is the offline snapshot file location.
	SnapshotPath string `mapstructure:"snapshot_path" yaml:"snapshot_path"`

	// LogFile, when set, routes logs to a rotated file instead of stderr.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// AnthropicAPIKey authenticates caption generation.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
}

// Dir returns the pipeboard config directory.
func Dir() string {
	if dir := os.Getenv("PIPEBOARD_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pipeboard"
	}
	return filepath.Join(home, ".config", "pipeboard")
}

// DefaultSnapshotPath returns the default offline snapshot location.
func DefaultSnapshotPath() string {
	return filepath.Join(Dir(), "board.json")
}

// Init wires defaults, the config file, and the environment into v.
// A missing config file is fine; any other read error is not.
func Init(v *viper.Viper) error {
	// Every key needs a default so Unmarshal sees env-only values.
	v.SetDefault("api_url", "")
	v.SetDefault("events_url", "")
	v.SetDefault("token", "")
	v.SetDefault("client_id", "")
	v.SetDefault("role", string(sync.RoleManager))
	v.SetDefault("offline", false)
	v.SetDefault("snapshot_path", DefaultSnapshotPath())
	v.SetDefault("log_file", "")
	v.SetDefault("anthropic_api_key", "")

	v.SetConfigName("pipeboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())

	v.SetEnvPrefix("PIPEBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load unmarshals the resolved settings out of v.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return s, nil
}

// Validate checks that the settings can drive the requested mode.
func (s Settings) Validate() error {
	if _, err := ParseRole(s.Role); err != nil {
		return err
	}
	if s.Offline {
		if s.SnapshotPath == "" {
			return fmt.Errorf("snapshot_path is required in offline mode")
		}
		return nil
	}
	if s.APIURL == "" {
		return fmt.Errorf("api_url is required (set it in %s or PIPEBOARD_API_URL)", FilePath())
	}
	if s.Token == "" {
		return fmt.Errorf("token is required (set it in %s or PIPEBOARD_TOKEN)", FilePath())
	}
	return nil
}

// ParseRole validates a role name.
func ParseRole(name string) (sync.Role, error) {
	switch r := sync.Role(name); r {
	case sync.RoleAdmin, sync.RoleManager, sync.RoleWriter, sync.RoleDesigner, sync.RoleClient:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q (valid: admin, manager, content_writer, designer, client)", name)
	}
}

// ResolveEventsURL returns the websocket base URL, deriving it from the
// API URL when not set explicitly.
func (s Settings) ResolveEventsURL() string {
	if s.EventsURL != "" {
		return s.EventsURL
	}
	parsed, err := url.Parse(s.APIURL)
	if err != nil {
		return s.APIURL
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	case "http":
		parsed.Scheme = "ws"
	}
	// Drop any API path prefix; the event channel hangs off the host root.
	parsed.Path = ""
	return parsed.String()
}

// FilePath returns the config file location.
func FilePath() string {
	return filepath.Join(Dir(), "pipeboard.yaml")
}

// WriteFile writes the settings to path as YAML, creating parent
// directories as needed. Used by config init.
func WriteFile(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
