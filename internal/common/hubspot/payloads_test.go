package hubspot

import (
	"encoding/json"
	"testing"

	"lead-funnel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submission(q1 models.AnswerCode, outcome models.OutcomeTag) models.SubmissionRecord {
	answers := models.AnswerSet{
		models.QuestionLocation:     q1,
		models.QuestionIntent:       models.AnswerA,
		models.QuestionAvailability: models.AnswerB,
		models.QuestionInvestment:   models.AnswerC,
		models.QuestionTimeline:     models.AnswerD,
	}
	return models.NewSubmissionRecord("Ana", "ana@example.com", "305-555-0100", answers, outcome)
}

func TestBuildContactProperties_Qualified(t *testing.T) {
	props := BuildContactProperties(submission(models.AnswerA, models.OutcomeQualified))

	assert.Equal(t, "Ana", props.FirstName)
	assert.Equal(t, "ana@example.com", props.Email)
	assert.Equal(t, models.LocationSouthFlorida, props.Location)
	assert.Equal(t, "Qualified", props.QuizOutcome)
	assert.Equal(t, AccessStatusReview, props.AccessStatus)
	assert.Equal(t, UserStatusNoInfo, props.UserStatus)
	assert.Equal(t, "Mostly open, still processing past experiences", props.Availability)
	assert.Equal(t, "Prefer minimal investment", props.Investment)
	assert.Equal(t, "Not sure yet", props.Timeline)
}

func TestBuildContactProperties_OutcomeMapping(t *testing.T) {
	tests := []struct {
		q1         models.AnswerCode
		outcome    models.OutcomeTag
		wantLabel  string
		wantAccess string
		wantLoc    string
	}{
		{models.AnswerB, models.OutcomeWaitlist, "Waitlist", AccessStatusReview, models.LocationOutsideSouthFlorida},
		{models.AnswerD, models.OutcomeWaitlist, "Waitlist", AccessStatusReview, models.LocationOutsideSouthFlorida},
		{models.AnswerA, models.OutcomeNotReady, "Not Ready", AccessRejected, models.LocationSouthFlorida},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome)+"/"+string(tt.q1), func(t *testing.T) {
			props := BuildContactProperties(submission(tt.q1, tt.outcome))
			assert.Equal(t, tt.wantLabel, props.QuizOutcome)
			assert.Equal(t, tt.wantAccess, props.AccessStatus)
			assert.Equal(t, tt.wantLoc, props.Location)
		})
	}
}

func TestContactProperties_WireNames(t *testing.T) {
	raw, err := json.Marshal(propertiesBody{Properties: BuildContactProperties(submission(models.AnswerA, models.OutcomeQualified))})
	require.NoError(t, err)

	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))

	props := decoded["properties"]
	for _, key := range []string{"firstname", "email", "phone", "lead_soource", "location", "intent", "availability", "investment", "timeline", "quiz_outcome", "user_status", "access_to_ailo_unlimited"} {
		assert.Contains(t, props, key)
	}
}
