package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g. TRIAGE_SERVER__PORT=9090.
// A double underscore separates sections so keys like enterprise_mode keep
// their single underscores.
const envPrefix = "TRIAGE_"

// Load builds the effective configuration: defaults, then the JSON config
// file, then TRIAGE_* environment variables, then the well-known credential
// variables. A missing or unreadable file is not fatal; the engine runs on
// defaults and reports the problem through Config.Warnings.
func Load(path string) *Config {
	_ = godotenv.Load()

	cfg := Default()

	k := koanf.New(".")

	if resolved, explicit := resolvePath(path); resolved != "" {
		if _, err := os.Stat(resolved); err == nil {
			if err := k.Load(file.Provider(resolved), json.Parser()); err != nil {
				cfg.warnf("config file %s unusable, continuing with defaults: %v", resolved, err)
			}
		} else if explicit {
			cfg.warnf("config file %s not found, continuing with defaults", resolved)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		cfg.warnf("environment overrides skipped: %v", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		cfg.warnf("config decode failed, continuing with defaults: %v", err)
		cfg = Default()
	}

	applyCredentialEnv(cfg)
	cfg.normalize()
	return cfg
}

// resolvePath picks the config file to read. Explicit paths win over the
// TRIAGE_CONFIG variable, which wins over ./config.json.
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if fromEnv := os.Getenv("TRIAGE_CONFIG"); fromEnv != "" {
		return fromEnv, true
	}
	return "config.json", false
}

// applyCredentialEnv honors the credential variable names the integrations
// document, so secrets stay out of config files.
func applyCredentialEnv(cfg *Config) {
	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.ServiceNow.Username = getEnv("SERVICENOW_USERNAME", cfg.ServiceNow.Username)
	cfg.ServiceNow.Password = getEnv("SERVICENOW_PASSWORD", cfg.ServiceNow.Password)
	cfg.Jira.Email = getEnv("JIRA_EMAIL", cfg.Jira.Email)
	cfg.Jira.APIToken = getEnv("JIRA_API_TOKEN", cfg.Jira.APIToken)
	cfg.Auth.AdminPassword = getEnv("TRIAGE_ADMIN_PASSWORD", cfg.Auth.AdminPassword)
	cfg.Auth.JWTSecret = getEnv("TRIAGE_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Postgres.DSN = getEnv("POSTGRES_DSN", cfg.Postgres.DSN)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
