// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"lead-funnel/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Camunda       CamundaConfig      `mapstructure:"camunda"`
	Database      DatabaseConfig     `mapstructure:"database"`
	HubSpot       HubSpotConfig      `mapstructure:"hubspot"`
	Reminders     RemindersConfig    `mapstructure:"reminders"`
	Cron          CronConfig         `mapstructure:"cron"`
	Security      SecurityConfig     `mapstructure:"security"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	SiteURL     string `mapstructure:"site_url"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HubSpotConfig holds settings for the contact directory client.
type HubSpotConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
	PageSize    int    `mapstructure:"page_size"`
	MaxResults  int    `mapstructure:"max_results"`
}

// RemindersConfig drives the call-reminder sweep.
type RemindersConfig struct {
	Profile    string                 `mapstructure:"profile"`
	Stages     []models.ReminderStage `mapstructure:"stages"`
	BatchWidth int                    `mapstructure:"batch_width"`
	StageCap   int                    `mapstructure:"stage_cap"`
	BookingURL string                 `mapstructure:"booking_url"`
}

type CronConfig struct {
	Secret string `mapstructure:"secret"`
}

// --- Security Configuration ---
type SecurityConfig struct {
	Recaptcha RecaptchaConfig `mapstructure:"recaptcha"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RecaptchaConfig struct {
	SecretKey string  `mapstructure:"secret_key"`
	VerifyURL string  `mapstructure:"verify_url"`
	MinScore  float64 `mapstructure:"min_score"`
	Timeout   int     `mapstructure:"timeout"` // milliseconds
}

type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Requests int  `mapstructure:"requests"`
	Window   int  `mapstructure:"window"` // seconds
}

// NotificationConfig holds settings for outbound email.
type NotificationConfig struct {
	Email struct {
		Provider  string `mapstructure:"provider"` // ses | log
		FromEmail string `mapstructure:"from_email"`
		FromName  string `mapstructure:"from_name"`
	} `mapstructure:"email"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Reminder profiles.
const (
	ProfileProduction = "production"
	ProfileTest       = "test"
)

// DefaultStages returns the reminder schedule for a profile. The test profile
// uses minute offsets so the whole sequence can be observed in a few minutes.
func DefaultStages(profile string) []models.ReminderStage {
	unit := models.UnitDay
	if profile == ProfileTest {
		unit = models.UnitMinute
	}
	return []models.ReminderStage{
		{Number: 1, Offset: 2, Unit: unit, Template: 1},
		{Number: 2, Offset: 4, Unit: unit, Template: 2},
		{Number: 3, Offset: 9, Unit: unit, Template: 3},
	}
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
