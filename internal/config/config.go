package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Calendar  CalendarConfig  `yaml:"calendar"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path redirects logs to a size-capped file.
	Path string `yaml:"path"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// AdminUsers may call the cross-user tools in addition to keys flagged admin.
	AdminUsers []string `yaml:"admin_users"`
}

// RefreshConfig drives the background poller that recomputes a user's
// stress and alerts when it crosses Threshold percent.
type RefreshConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Owner     string        `yaml:"owner"`
	Threshold float64       `yaml:"threshold"`
	Notify    bool          `yaml:"notify"`
}

// CalendarConfig points the calendar importer at OAuth credentials.
type CalendarConfig struct {
	CredentialsPath string `yaml:"credentials_path"`
	TokenPath       string `yaml:"token_path"`
	CalendarID      string `yaml:"calendar_id"`
	Owner           string `yaml:"owner"`
	Days            int    `yaml:"days"`
}

// IsAdmin reports whether userID is listed as an administrator.
func (a AuthConfig) IsAdmin(userID string) bool {
	for _, u := range a.AdminUsers {
		if u == userID {
			return true
		}
	}
	return false
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "calmmind.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Refresh: RefreshConfig{
			Interval:  time.Minute,
			Owner:     "default",
			Threshold: 75,
		},
		Calendar: CalendarConfig{
			CredentialsPath: "credentials.json",
			TokenPath:       "token.json",
			CalendarID:      "primary",
			Owner:           "default",
			Days:            14,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CALMMIND_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("invalid refresh interval %s", c.Refresh.Interval)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("CALMMIND_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CALMMIND_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CALMMIND_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CALMMIND_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CALMMIND_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CALMMIND_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("CALMMIND_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("CALMMIND_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid CALMMIND_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if admins := os.Getenv("CALMMIND_ADMIN_USERS"); admins != "" {
		cfg.Auth.AdminUsers = splitList(admins)
	}
	if interval := os.Getenv("CALMMIND_REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid CALMMIND_REFRESH_INTERVAL: %w", err)
		}
		cfg.Refresh.Interval = d
	}
	if owner := os.Getenv("CALMMIND_REFRESH_OWNER"); owner != "" {
		cfg.Refresh.Owner = owner
	}
	if threshold := os.Getenv("CALMMIND_REFRESH_THRESHOLD"); threshold != "" {
		v, err := strconv.ParseFloat(threshold, 64)
		if err != nil {
			return fmt.Errorf("invalid CALMMIND_REFRESH_THRESHOLD: %w", err)
		}
		cfg.Refresh.Threshold = v
	}
	if notify := os.Getenv("CALMMIND_REFRESH_NOTIFY"); notify != "" {
		v, err := strconv.ParseBool(notify)
		if err != nil {
			return fmt.Errorf("invalid CALMMIND_REFRESH_NOTIFY: %w", err)
		}
		cfg.Refresh.Notify = v
	}
	if creds := os.Getenv("CALMMIND_CALENDAR_CREDENTIALS"); creds != "" {
		cfg.Calendar.CredentialsPath = creds
	}
	if token := os.Getenv("CALMMIND_CALENDAR_TOKEN"); token != "" {
		cfg.Calendar.TokenPath = token
	}
	if id := os.Getenv("CALMMIND_CALENDAR_ID"); id != "" {
		cfg.Calendar.CalendarID = id
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
