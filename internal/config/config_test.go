package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestDefault_DemoMode(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.EnterpriseMode)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.False(t, cfg.ServiceNow.Enabled)
	assert.False(t, cfg.Jira.Enabled)
	assert.Equal(t, "gpt-5", cfg.OpenAI.Model)
	assert.Equal(t, FormatParquet, cfg.DataStorage.Format)
	assert.Equal(t, "data", cfg.DataStorage.Directory)
	assert.Equal(t, 20, cfg.Mock.ServiceNowCount)
	assert.Equal(t, 15, cfg.Mock.JiraCount)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout())
}

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	t.Setenv("TRIAGE_CONFIG", "")

	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, FormatParquet, cfg.DataStorage.Format)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_storage": {"format": "csv", "directory": "out"},
		"mock": {"servicenow_count": 3, "jira_count": 2, "seed": 42},
		"server": {"port": 9000},
		"engineers": [
			{"name": "Alice", "skills": ["Network", "Security"], "availability": "available", "max_workload": 2},
			{"name": "Bob", "skills": ["Database"], "availability": "busy"}
		]
	}`)

	cfg := Load(path)

	assert.Equal(t, FormatCSV, cfg.DataStorage.Format)
	assert.Equal(t, "out", cfg.DataStorage.Directory)
	assert.Equal(t, 3, cfg.Mock.ServiceNowCount)
	assert.Equal(t, int64(42), cfg.Mock.Seed)
	assert.Equal(t, 9000, cfg.Server.Port)

	roster := cfg.Roster()
	require.Len(t, roster, 2)
	assert.Equal(t, "Alice", roster[0].Name)
	assert.Equal(t, 2, roster[0].MaxWorkload)
	assert.Equal(t, "busy", roster[1].Availability)
	assert.Equal(t, 5, roster[1].MaxWorkload)
}

func TestLoad_EnterpriseGateDisablesIntegrations(t *testing.T) {
	path := writeConfigFile(t, `{
		"enterprise_mode": false,
		"openai": {"enabled": true, "api_key": "sk-test"},
		"servicenow": {"enabled": true, "instance_url": "https://dev.service-now.com"},
		"jira": {"enabled": true, "server_url": "https://example.atlassian.net"}
	}`)

	cfg := Load(path)

	assert.False(t, cfg.OpenAI.Enabled)
	assert.False(t, cfg.ServiceNow.Enabled)
	assert.False(t, cfg.Jira.Enabled)
	assert.False(t, cfg.AIEnabled())
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoad_EnterpriseModeKeepsIntegrations(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeConfigFile(t, `{
		"enterprise_mode": true,
		"openai": {"enabled": true}
	}`)

	cfg := Load(path)

	assert.True(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.True(t, cfg.AIEnabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TRIAGE_SERVER__PORT", "9999")
	t.Setenv("TRIAGE_DATA_STORAGE__FORMAT", "csv")
	path := writeConfigFile(t, `{"server": {"port": 9000}}`)

	cfg := Load(path)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, FormatCSV, cfg.DataStorage.Format)
}

func TestLoad_InvalidFormatFallsBack(t *testing.T) {
	path := writeConfigFile(t, `{"data_storage": {"format": "xml"}}`)

	cfg := Load(path)

	assert.Equal(t, FormatParquet, cfg.DataStorage.Format)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoad_MalformedFile_UsesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"server": {`)

	cfg := Load(path)

	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestRoster_DropsUnusableRows(t *testing.T) {
	cfg := Default()
	cfg.Engineers = []EngineerEntry{
		{Name: "  ", Skills: []string{"Network"}},
		{Name: "Carol", MaxWorkload: -1},
	}

	roster := cfg.Roster()

	require.Len(t, roster, 1)
	assert.Equal(t, "Carol", roster[0].Name)
	assert.Equal(t, 5, roster[0].MaxWorkload)
	assert.Equal(t, "available", roster[0].Availability)
}

func TestServerConfig_RequestTimeoutDisabled(t *testing.T) {
	s := ServerConfig{RequestTimeoutSeconds: 0}
	assert.Equal(t, time.Duration(0), s.RequestTimeout())
}

func TestSyncConfig_IntervalDisabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), SyncConfig{}.Interval())
	assert.Equal(t, 30*time.Second, SyncConfig{IntervalSeconds: 30}.Interval())
}
