package models

import (
	"fmt"
	"time"
)

// TimeUnit is the granularity of a reminder stage's age offset.
type TimeUnit string

const (
	UnitDay    TimeUnit = "day"
	UnitMinute TimeUnit = "minute"
)

func (u TimeUnit) Valid() bool {
	return u == UnitDay || u == UnitMinute
}

// ReminderStage binds an age-since-creation offset to a reminder template.
type ReminderStage struct {
	Number   int      `json:"stage" mapstructure:"stage"`
	Offset   int      `json:"offset" mapstructure:"offset"`
	Unit     TimeUnit `json:"unit" mapstructure:"unit"`
	Template int      `json:"template" mapstructure:"template"`
}

// Key is the stable summary key of the stage, e.g. "reminder1_day2".
func (s ReminderStage) Key() string {
	return fmt.Sprintf("reminder%d_%s%d", s.Number, s.Unit, s.Offset)
}

// StageResult is the outcome of one stage within one sweep.
//
// Degraded is set when the directory query failed or was skipped; a stage
// with Degraded=false and Sent=0 genuinely had no eligible contacts.
type StageResult struct {
	Stage       int       `json:"stage"`
	Offset      int       `json:"offset"`
	Unit        TimeUnit  `json:"unit"`
	Template    int       `json:"template"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Eligible    int       `json:"eligible"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	Dropped     int       `json:"dropped,omitempty"`
	Contacts    []string  `json:"contacts"`
	Truncated   bool      `json:"truncated,omitempty"`
	Degraded    bool      `json:"degraded"`
	Error       string    `json:"error,omitempty"`
}

// SweepTotals aggregates counters across stages.
type SweepTotals struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// SweepSummary is the response payload of one reminder sweep. It is not persisted.
type SweepSummary struct {
	RunID     string                 `json:"runId"`
	Success   bool                   `json:"success"`
	Timestamp time.Time              `json:"timestamp"`
	Results   map[string]StageResult `json:"results"`
	Totals    SweepTotals            `json:"totals"`
	Degraded  bool                   `json:"degraded"`
}

// AllDegraded reports whether no stage reached the directory.
func (s *SweepSummary) AllDegraded() bool {
	if len(s.Results) == 0 {
		return false
	}
	for _, r := range s.Results {
		if !r.Degraded {
			return false
		}
	}
	return true
}
