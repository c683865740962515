// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1. base config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2. environment overlay
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from the first location that has one.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // test/e2e
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				fmt.Fprintf(os.Stderr, "loaded .env from: %s\n", path)
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	overrides := []struct {
		target *string
		env    string
	}{
		{&cfg.HubSpot.AccessToken, "HUBSPOT_ACCESS_TOKEN"},
		{&cfg.Cron.Secret, "CRON_SECRET"},
		{&cfg.Security.Recaptcha.SecretKey, "RECAPTCHA_SECRET_KEY"},
		{&cfg.Database.Postgres.User, "DB_USER"},
		{&cfg.Database.Postgres.Password, "DB_PASSWORD"},
		{&cfg.Notifications.Email.FromEmail, "SES_FROM_EMAIL"},
		{&cfg.App.SiteURL, "SITE_URL"},
		{&cfg.Reminders.Profile, "REMINDER_PROFILE"},
	}

	for _, o := range overrides {
		if *o.target == "" {
			if val := os.Getenv(o.env); val != "" {
				*o.target = val
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lead-funnel"
	}
	if cfg.App.SiteURL == "" {
		cfg.App.SiteURL = "https://ailoapp.com"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 300000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 1
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 300000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// HubSpot defaults
	if cfg.HubSpot.BaseURL == "" {
		cfg.HubSpot.BaseURL = "https://api.hubapi.com"
	}
	if cfg.HubSpot.Timeout == 0 {
		cfg.HubSpot.Timeout = 30000
	}
	if cfg.HubSpot.PageSize == 0 {
		cfg.HubSpot.PageSize = 100
	}
	if cfg.HubSpot.MaxResults == 0 {
		cfg.HubSpot.MaxResults = 500
	}

	// Reminder defaults
	if cfg.Reminders.Profile == "" {
		cfg.Reminders.Profile = ProfileProduction
	}
	if len(cfg.Reminders.Stages) == 0 {
		cfg.Reminders.Stages = DefaultStages(cfg.Reminders.Profile)
	}
	for i := range cfg.Reminders.Stages {
		if cfg.Reminders.Stages[i].Number == 0 {
			cfg.Reminders.Stages[i].Number = i + 1
		}
		if cfg.Reminders.Stages[i].Template == 0 {
			cfg.Reminders.Stages[i].Template = cfg.Reminders.Stages[i].Number
		}
	}
	if cfg.Reminders.BatchWidth == 0 {
		cfg.Reminders.BatchWidth = 10
	}
	if cfg.Reminders.StageCap == 0 {
		cfg.Reminders.StageCap = 500
	}
	if cfg.Reminders.BookingURL == "" {
		cfg.Reminders.BookingURL = strings.TrimRight(cfg.App.SiteURL, "/") + "/book-call"
	}

	// Security defaults
	if cfg.Security.Recaptcha.VerifyURL == "" {
		cfg.Security.Recaptcha.VerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	}
	if cfg.Security.Recaptcha.MinScore == 0 {
		cfg.Security.Recaptcha.MinScore = 0.3
	}
	if cfg.Security.Recaptcha.Timeout == 0 {
		cfg.Security.Recaptcha.Timeout = 10000
	}
	if cfg.Security.RateLimit.Requests == 0 {
		cfg.Security.RateLimit.Requests = 5
	}
	if cfg.Security.RateLimit.Window == 0 {
		cfg.Security.RateLimit.Window = 60
	}

	// Notification defaults
	if cfg.Notifications.Email.Provider == "" {
		cfg.Notifications.Email.Provider = "ses"
	}
	if cfg.Notifications.Email.FromName == "" {
		cfg.Notifications.Email.FromName = "AILO"
	}
	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "us-east-1"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// UseProfile replaces the reminder schedule with the profile's default stages.
func (c *Config) UseProfile(profile string) error {
	if profile != ProfileProduction && profile != ProfileTest {
		return fmt.Errorf("unknown reminder profile %q", profile)
	}
	c.Reminders.Profile = profile
	c.Reminders.Stages = DefaultStages(profile)
	return nil
}

// validateConfig rejects structurally broken configuration. Secrets such as
// the cron secret or directory token are checked where they are used.
func validateConfig(cfg *Config) error {
	if cfg.Reminders.Profile != ProfileProduction && cfg.Reminders.Profile != ProfileTest {
		return fmt.Errorf("reminders.profile must be %q or %q", ProfileProduction, ProfileTest)
	}

	seen := make(map[int]bool, len(cfg.Reminders.Stages))
	for i, s := range cfg.Reminders.Stages {
		if !s.Unit.Valid() {
			return fmt.Errorf("reminders.stages[%d].unit %q must be day or minute", i, s.Unit)
		}
		if s.Offset < 0 {
			return fmt.Errorf("reminders.stages[%d].offset must not be negative", i)
		}
		if s.Template < 1 || s.Template > 3 {
			return fmt.Errorf("reminders.stages[%d].template must be 1, 2 or 3", i)
		}
		if seen[s.Number] {
			return fmt.Errorf("reminders.stages[%d].stage %d is duplicated", i, s.Number)
		}
		seen[s.Number] = true
	}

	if cfg.Reminders.BatchWidth < 1 {
		return fmt.Errorf("reminders.batch_width must be positive")
	}
	if cfg.Reminders.StageCap < 1 {
		return fmt.Errorf("reminders.stage_cap must be positive")
	}
	if cfg.HubSpot.PageSize < 1 || cfg.HubSpot.PageSize > 100 {
		return fmt.Errorf("hubspot.page_size must be between 1 and 100")
	}
	if cfg.HubSpot.MaxResults < 1 {
		return fmt.Errorf("hubspot.max_results must be positive")
	}

	switch cfg.Notifications.Email.Provider {
	case "ses", "log":
	default:
		return fmt.Errorf("notifications.email.provider must be ses or log")
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}

	return nil
}
