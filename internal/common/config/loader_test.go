package config

import (
	"os"
	"path/filepath"
	"testing"

	"lead-funnel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "")
	t.Setenv("CRON_SECRET", "")
	t.Setenv("REMINDER_PROFILE", "")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: funnel\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "https://api.hubapi.com", cfg.HubSpot.BaseURL)
	assert.Equal(t, 100, cfg.HubSpot.PageSize)
	assert.Equal(t, 500, cfg.HubSpot.MaxResults)
	assert.Equal(t, 10, cfg.Reminders.BatchWidth)
	assert.Equal(t, 500, cfg.Reminders.StageCap)
	assert.Equal(t, 0.3, cfg.Security.Recaptcha.MinScore)
	assert.Equal(t, 5, cfg.Security.RateLimit.Requests)
	assert.Equal(t, 60, cfg.Security.RateLimit.Window)
	assert.Equal(t, "https://ailoapp.com/book-call", cfg.Reminders.BookingURL)
	assert.Equal(t, DefaultStages(ProfileProduction), cfg.Reminders.Stages)
	assert.Empty(t, cfg.Cron.Secret)
}

func TestLoadFromFile_TestProfile(t *testing.T) {
	t.Setenv("REMINDER_PROFILE", "")

	cfg, err := LoadFromFile(writeConfig(t, "reminders:\n  profile: test\n"))
	require.NoError(t, err)

	require.Len(t, cfg.Reminders.Stages, 3)
	for _, s := range cfg.Reminders.Stages {
		assert.Equal(t, models.UnitMinute, s.Unit)
	}
	assert.Equal(t, "reminder3_minute9", cfg.Reminders.Stages[2].Key())
}

func TestLoadFromFile_ExplicitStages(t *testing.T) {
	body := `
reminders:
  stages:
    - offset: 1
      unit: day
    - offset: 3
      unit: day
      template: 3
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	require.Len(t, cfg.Reminders.Stages, 2)
	assert.Equal(t, models.ReminderStage{Number: 1, Offset: 1, Unit: models.UnitDay, Template: 1}, cfg.Reminders.Stages[0])
	assert.Equal(t, models.ReminderStage{Number: 2, Offset: 3, Unit: models.UnitDay, Template: 3}, cfg.Reminders.Stages[1])
}

func TestLoadFromFile_SecretsFromEnvironment(t *testing.T) {
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "pat-123")
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("FUNNEL_SITE", "https://example.test")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  site_url: ${FUNNEL_SITE}\n"))
	require.NoError(t, err)

	assert.Equal(t, "pat-123", cfg.HubSpot.AccessToken)
	assert.Equal(t, "s3cret", cfg.Cron.Secret)
	assert.Equal(t, "https://example.test/book-call", cfg.Reminders.BookingURL)
}

func TestLoadFromFile_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad unit", "reminders:\n  stages:\n    - offset: 2\n      unit: week\n", "unit"},
		{"negative offset", "reminders:\n  stages:\n    - offset: -1\n      unit: day\n", "offset"},
		{"bad template", "reminders:\n  stages:\n    - offset: 2\n      unit: day\n      template: 7\n", "template"},
		{"negative batch width", "reminders:\n  batch_width: -1\n", "batch_width"},
		{"page size above api max", "hubspot:\n  page_size: 250\n", "page_size"},
		{"unknown email provider", "notifications:\n  email:\n    provider: smtp\n", "provider"},
		{"camunda without broker", "camunda:\n  enabled: true\n", "broker_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REMINDER_PROFILE", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUseProfile(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.UseProfile(ProfileTest))
	assert.Equal(t, models.UnitMinute, cfg.Reminders.Stages[0].Unit)

	assert.Error(t, cfg.UseProfile("staging"))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "funnel", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=funnel sslmode=disable", p.GetDSN())
}
