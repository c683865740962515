package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReminderStage_Key(t *testing.T) {
	assert.Equal(t, "reminder1_day2", ReminderStage{Number: 1, Offset: 2, Unit: UnitDay}.Key())
	assert.Equal(t, "reminder3_minute9", ReminderStage{Number: 3, Offset: 9, Unit: UnitMinute}.Key())
}

func TestTimeUnit_Valid(t *testing.T) {
	assert.True(t, UnitDay.Valid())
	assert.True(t, UnitMinute.Valid())
	assert.False(t, TimeUnit("hour").Valid())
}

func TestSweepSummary_AllDegraded(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]StageResult
		want    bool
	}{
		{"no stages", nil, false},
		{"every stage degraded", map[string]StageResult{
			"reminder1_day2": {Degraded: true},
			"reminder2_day4": {Degraded: true},
		}, true},
		{"one stage reached directory", map[string]StageResult{
			"reminder1_day2": {Degraded: true},
			"reminder2_day4": {},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SweepSummary{Results: tt.results}
			assert.Equal(t, tt.want, s.AllDegraded())
		})
	}
}
