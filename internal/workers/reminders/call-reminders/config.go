package callreminders

import (
	"fmt"
	"time"

	"lead-funnel/internal/common/config"
	"lead-funnel/internal/models"
)

// FallbackName greets contacts whose first name is not on file.
const FallbackName = "there"

type Config struct {
	Enabled       bool                   `mapstructure:"enabled"`
	MaxJobsActive int                    `mapstructure:"max_jobs_active"`
	Timeout       time.Duration          `mapstructure:"timeout"`
	Stages        []models.ReminderStage `mapstructure:"stages"`
	BatchWidth    int                    `mapstructure:"batch_width"`
	StageCap      int                    `mapstructure:"stage_cap"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       5 * time.Minute,
		Stages:        config.DefaultStages(config.ProfileProduction),
		BatchWidth:    10,
		StageCap:      500,
	}
}

// ConfigFromApp builds the dispatcher settings from the loaded application config.
func ConfigFromApp(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if appConfig.Camunda.MaxJobsActive > 0 {
		cfg.MaxJobsActive = appConfig.Camunda.MaxJobsActive
	}
	if appConfig.Camunda.Timeout > 0 {
		cfg.Timeout = config.GetDuration(appConfig.Camunda.Timeout)
	}
	if len(appConfig.Reminders.Stages) > 0 {
		cfg.Stages = append([]models.ReminderStage(nil), appConfig.Reminders.Stages...)
	}
	if appConfig.Reminders.BatchWidth > 0 {
		cfg.BatchWidth = appConfig.Reminders.BatchWidth
	}
	if appConfig.Reminders.StageCap > 0 {
		cfg.StageCap = appConfig.Reminders.StageCap
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.BatchWidth <= 0 {
		return fmt.Errorf("batch_width must be positive")
	}
	if c.StageCap <= 0 {
		return fmt.Errorf("stage_cap must be positive")
	}
	if len(c.Stages) == 0 {
		return fmt.Errorf("at least one reminder stage is required")
	}

	seen := make(map[string]bool, len(c.Stages))
	for _, stage := range c.Stages {
		if !stage.Unit.Valid() {
			return fmt.Errorf("stage %d: unsupported unit %q", stage.Number, stage.Unit)
		}
		if stage.Offset < 0 {
			return fmt.Errorf("stage %d: offset must not be negative", stage.Number)
		}
		if seen[stage.Key()] {
			return fmt.Errorf("duplicate stage %s", stage.Key())
		}
		seen[stage.Key()] = true
	}
	return nil
}
