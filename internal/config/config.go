package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	EnterpriseMode bool             `koanf:"enterprise_mode"`
	OpenAI         OpenAIConfig     `koanf:"openai"`
	ServiceNow     ServiceNowConfig `koanf:"servicenow"`
	Jira           JiraConfig       `koanf:"jira"`
	Engineers      []EngineerEntry  `koanf:"engineers"`
	DataStorage    StorageConfig    `koanf:"data_storage"`
	Mock           MockConfig       `koanf:"mock"`
	Server         ServerConfig     `koanf:"server"`
	Auth           AuthConfig       `koanf:"auth"`
	Postgres       PostgresConfig   `koanf:"postgres"`
	Redis          RedisConfig      `koanf:"redis"`
	Logging        LoggingConfig    `koanf:"logging"`
	Metrics        MetricsConfig    `koanf:"metrics"`
	Tracing        TracingConfig    `koanf:"tracing"`
	Sync           SyncConfig       `koanf:"sync"`

	// Warnings collects non-fatal problems found during load so callers can
	// log them once the logger exists.
	Warnings []string `koanf:"-"`
}

// OpenAIConfig controls the AI classification path.
type OpenAIConfig struct {
	Enabled bool   `koanf:"enabled"`
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

// ServiceNowConfig holds ServiceNow REST credentials. WriteBack pushes
// triage results onto the upstream incident after each run.
type ServiceNowConfig struct {
	Enabled     bool   `koanf:"enabled"`
	InstanceURL string `koanf:"instance_url"`
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	Limit       int    `koanf:"limit"`
	Query       string `koanf:"query"`
	WriteBack   bool   `koanf:"write_back"`
}

// JiraConfig holds Jira REST credentials. WriteBack adds a comment with the
// triage outcome to the upstream issue after each run.
type JiraConfig struct {
	Enabled    bool   `koanf:"enabled"`
	ServerURL  string `koanf:"server_url"`
	Email      string `koanf:"email"`
	APIToken   string `koanf:"api_token"`
	JQLQuery   string `koanf:"jql_query"`
	MaxResults int    `koanf:"max_results"`
	WriteBack  bool   `koanf:"write_back"`
}

// EngineerEntry is one roster row as written in the config file.
type EngineerEntry struct {
	Name         string   `koanf:"name"`
	Skills       []string `koanf:"skills"`
	Availability string   `koanf:"availability"`
	MaxWorkload  int      `koanf:"max_workload"`
}

// StorageConfig controls snapshot persistence.
type StorageConfig struct {
	Format       string `koanf:"format"`
	Directory    string `koanf:"directory"`
	LogDirectory string `koanf:"log_directory"`
}

// MockConfig sizes the synthetic ticket generator.
type MockConfig struct {
	ServiceNowCount int   `koanf:"servicenow_count"`
	JiraCount       int   `koanf:"jira_count"`
	Seed            int64 `koanf:"seed"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Host                  string `koanf:"host"`
	Port                  int    `koanf:"port"`
	RequestTimeoutSeconds int    `koanf:"request_timeout_seconds"`
}

// AuthConfig defines admin authentication parameters.
type AuthConfig struct {
	AdminUser       string `koanf:"admin_user"`
	AdminPassword   string `koanf:"admin_password"`
	JWTSecret       string `koanf:"jwt_secret"`
	TokenTTLMinutes int    `koanf:"token_ttl_minutes"`
	BcryptCost      int    `koanf:"bcrypt_cost"`
}

// PostgresConfig holds the optional run-archive connection values.
type PostgresConfig struct {
	DSN            string `koanf:"dsn"`
	MaxConns       int32  `koanf:"max_conns"`
	MinConns       int32  `koanf:"min_conns"`
	ConnMaxIdleSec int    `koanf:"conn_max_idle_sec"`
	ConnMaxLifeSec int    `koanf:"conn_max_life_sec"`
}

// RedisConfig holds the optional latest-batch cache connection values.
type RedisConfig struct {
	Addr            string `koanf:"addr"`
	Password        string `koanf:"password"`
	DB              int    `koanf:"db"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	FilePath   string `koanf:"file_path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// TracingConfig controls the optional OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
	ServiceName string  `koanf:"service_name"`
}

// SyncConfig controls the background re-triage worker.
type SyncConfig struct {
	IntervalSeconds int `koanf:"interval_seconds"`
}

// Default returns the configuration used when no file or environment
// overrides are present. Everything external is off: the service runs in
// demo mode on mock data.
func Default() *Config {
	return &Config{
		EnterpriseMode: false,
		OpenAI: OpenAIConfig{
			Enabled: false,
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-5",
		},
		ServiceNow: ServiceNowConfig{Limit: 100},
		Jira:       JiraConfig{MaxResults: 100},
		DataStorage: StorageConfig{
			Format:       FormatParquet,
			Directory:    "data",
			LogDirectory: "logs",
		},
		Mock: MockConfig{
			ServiceNowCount: 20,
			JiraCount:       15,
		},
		Server: ServerConfig{
			Host:                  "0.0.0.0",
			Port:                  8080,
			RequestTimeoutSeconds: 60,
		},
		Auth: AuthConfig{
			AdminUser:       "admin",
			TokenTTLMinutes: 60,
			BcryptCost:      10,
		},
		Redis: RedisConfig{
			CacheTTLSeconds: 300,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 0.1,
			ServiceName: "triage-service",
		},
	}
}

// Snapshot format names accepted in data_storage.format.
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
)

// normalize applies the defaulting rules the engine promises: invalid fields
// never crash a run, they fall back and leave a warning behind.
func (c *Config) normalize() {
	switch strings.ToLower(strings.TrimSpace(c.DataStorage.Format)) {
	case FormatParquet, "":
		c.DataStorage.Format = FormatParquet
	case FormatCSV:
		c.DataStorage.Format = FormatCSV
	default:
		c.warnf("unknown data_storage.format %q, using parquet", c.DataStorage.Format)
		c.DataStorage.Format = FormatParquet
	}

	if c.DataStorage.Directory == "" {
		c.DataStorage.Directory = "data"
	}
	if c.DataStorage.LogDirectory == "" {
		c.DataStorage.LogDirectory = "logs"
	}
	if c.Mock.ServiceNowCount < 0 {
		c.Mock.ServiceNowCount = 0
	}
	if c.Mock.JiraCount < 0 {
		c.Mock.JiraCount = 0
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.warnf("invalid server.port %d, using 8080", c.Server.Port)
		c.Server.Port = 8080
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		c.Auth.TokenTTLMinutes = 60
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-5"
	}
	if c.ServiceNow.Limit <= 0 {
		c.ServiceNow.Limit = 100
	}
	if c.Jira.MaxResults <= 0 {
		c.Jira.MaxResults = 100
	}

	// enterprise_mode=false forces every integration off so the service runs
	// entirely on mock data and rule-based triage.
	if !c.EnterpriseMode {
		if c.OpenAI.Enabled || c.ServiceNow.Enabled || c.Jira.Enabled {
			c.warnf("enterprise_mode=false, disabling openai/servicenow/jira integrations")
		}
		c.OpenAI.Enabled = false
		c.ServiceNow.Enabled = false
		c.Jira.Enabled = false
	}
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Roster converts the configured engineer entries to domain engineers,
// dropping unusable rows and defaulting missing workload limits.
func (c *Config) Roster() []domain.Engineer {
	roster := make([]domain.Engineer, 0, len(c.Engineers))
	for _, entry := range c.Engineers {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		maxWorkload := entry.MaxWorkload
		if maxWorkload <= 0 {
			maxWorkload = domain.DefaultMaxWorkload
		}
		availability := entry.Availability
		if strings.TrimSpace(availability) == "" {
			availability = domain.AvailabilityAvailable
		}
		roster = append(roster, domain.Engineer{
			Name:         name,
			Skills:       entry.Skills,
			Availability: availability,
			MaxWorkload:  maxWorkload,
		})
	}
	return roster
}

// AIEnabled reports whether the OpenAI classification path should be used.
func (c *Config) AIEnabled() bool {
	return c.OpenAI.Enabled && strings.TrimSpace(c.OpenAI.APIKey) != ""
}

// Addr returns the HTTP bind address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequestTimeout returns the configured per-request timeout.
func (s ServerConfig) RequestTimeout() time.Duration {
	if s.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the admin token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// CacheTTL returns how long the latest-batch cache entry lives.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// Interval returns the sync worker period; zero disables the worker.
func (s SyncConfig) Interval() time.Duration {
	if s.IntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(s.IntervalSeconds) * time.Second
}
