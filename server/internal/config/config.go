package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort      = 8080
	DefaultGRPCPort      = 50051
	DefaultLogLevel      = "info"
	DefaultMatchTTL      = 6 * time.Hour
	DefaultCategory      = "full-member"
	DefaultBoardInterval = 5 * time.Second
	DefaultHeader        = "x-api-key"
	minimumBoardInterval = 100 * time.Millisecond
)

// Config is the top-level document; only the `server:` key is read.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	HTTPPort int    `yaml:"http_port"`
	GRPCPort int    `yaml:"grpc_port"`
	LogLevel string `yaml:"log_level"`

	// Auth configures how REST and gRPC clients authenticate.
	Auth AuthConfig `yaml:"auth"`

	// Matches controls in-memory match retention.
	Matches MatchesConfig `yaml:"matches"`

	// DefaultCategory is a category name accepted by dls.ParseCategory.
	DefaultCategory string `yaml:"default_category"`

	// BoardInterval is how often the WebSocket hub pushes the match board.
	BoardInterval time.Duration `yaml:"board_interval"`

	// Webhooks are notified whenever a match's computed target changes.
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv names the environment variable holding the expected API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header and gRPC metadata key carrying the key.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or DefaultHeader.
// gRPC metadata keys are lowercase, so the name is lowercased.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return strings.ToLower(a.Header)
	}
	return DefaultHeader
}

// MatchesConfig controls in-memory match retention.
type MatchesConfig struct {
	// TTL is how long a match stays in memory after its last change.
	// Zero keeps matches until the process exits.
	TTL time.Duration `yaml:"ttl"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv names the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Category returns the parsed default category. It is only meaningful on a
// Config returned by Load.
func (s ServerConfig) Category() dls.Category {
	c, err := dls.ParseCategory(s.DefaultCategory)
	if err != nil {
		return dls.FullMember
	}
	return c
}

// Level returns the parsed log level.
func (s ServerConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        DefaultHTTPPort,
			GRPCPort:        DefaultGRPCPort,
			LogLevel:        DefaultLogLevel,
			DefaultCategory: DefaultCategory,
			BoardInterval:   DefaultBoardInterval,
			Matches: MatchesConfig{
				TTL: DefaultMatchTTL,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.GRPCPort <= 0 || s.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [1, 65535]", s.GRPCPort)
	}
	if s.GRPCPort == s.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port are both %d", s.GRPCPort)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s.LogLevel)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}
	if s.Auth.Mode == "apikey" && s.Auth.KeyEnv == "" {
		return fmt.Errorf("server.auth.key_env is required when mode is apikey")
	}
	if s.Matches.TTL < 0 {
		return fmt.Errorf("server.matches.ttl must not be negative")
	}
	if _, err := dls.ParseCategory(s.DefaultCategory); err != nil {
		return fmt.Errorf("server.default_category: %w", err)
	}
	if s.BoardInterval < minimumBoardInterval {
		return fmt.Errorf("server.board_interval %v is below %v", s.BoardInterval, minimumBoardInterval)
	}
	for i, wh := range s.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("server.webhooks[%d].type %q unknown: want slack|teams|http", i, wh.Type)
		}
		if wh.URLEnv == "" {
			return fmt.Errorf("server.webhooks[%d].url_env is required", i)
		}
	}
	return nil
}
