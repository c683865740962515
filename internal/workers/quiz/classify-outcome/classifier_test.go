package classifyoutcome

import (
	"testing"

	"lead-funnel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codes = []models.AnswerCode{models.AnswerA, models.AnswerB, models.AnswerC, models.AnswerD}

func answers(q1, q2, q3, q4, q5 models.AnswerCode) models.AnswerSet {
	return models.AnswerSet{
		models.QuestionLocation:     q1,
		models.QuestionIntent:       q2,
		models.QuestionAvailability: q3,
		models.QuestionInvestment:   q4,
		models.QuestionTimeline:     q5,
	}
}

// forEachAnswerSet visits all 4^5 complete answer sets.
func forEachAnswerSet(fn func(models.AnswerSet)) {
	for _, q1 := range codes {
		for _, q2 := range codes {
			for _, q3 := range codes {
				for _, q4 := range codes {
					for _, q5 := range codes {
						fn(answers(q1, q2, q3, q4, q5))
					}
				}
			}
		}
	}
}

// ==========================
// Examples
// ==========================

func TestClassify_Examples(t *testing.T) {
	tests := []struct {
		name       string
		answers    models.AnswerSet
		wantTag    models.OutcomeTag
		wantReason models.Reason
		wantScore  *int
	}{
		{
			name:       "all A is qualified with full score",
			answers:    answers("A", "A", "A", "A", "A"),
			wantTag:    models.OutcomeQualified,
			wantReason: models.ReasonHighIntent,
			wantScore:  intPtr(12),
		},
		{
			name:       "outside region goes to waitlist before scoring",
			answers:    answers("B", "A", "A", "A", "A"),
			wantTag:    models.OutcomeWaitlist,
			wantReason: models.ReasonNonSF,
		},
		{
			name:       "weakest intent disqualifies",
			answers:    answers("A", "D", "A", "A", "A"),
			wantTag:    models.OutcomeNotReady,
			wantReason: models.ReasonNotReady,
		},
		{
			name:       "all C is low intent",
			answers:    answers("A", "C", "C", "C", "C"),
			wantTag:    models.OutcomeNotReady,
			wantReason: models.ReasonLowIntent,
			wantScore:  intPtr(4),
		},
		{
			name:       "score of exactly 8 qualifies",
			answers:    answers("A", "B", "B", "B", "B"),
			wantTag:    models.OutcomeQualified,
			wantReason: models.ReasonHighIntent,
			wantScore:  intPtr(8),
		},
		{
			name:       "score of exactly 7 is low intent",
			answers:    answers("A", "B", "B", "C", "B"),
			wantTag:    models.OutcomeNotReady,
			wantReason: models.ReasonLowIntent,
			wantScore:  intPtr(7),
		},
		{
			name:       "weak investment alone does not disqualify",
			answers:    answers("A", "A", "A", "D", "A"),
			wantTag:    models.OutcomeQualified,
			wantReason: models.ReasonHighIntent,
			wantScore:  intPtr(9),
		},
		{
			name:       "missing answers score as D",
			answers:    models.AnswerSet{models.QuestionLocation: "A", models.QuestionIntent: "A", models.QuestionAvailability: "A"},
			wantTag:    models.OutcomeNotReady,
			wantReason: models.ReasonLowIntent,
			wantScore:  intPtr(6),
		},
		{
			name:       "missing location goes to waitlist",
			answers:    models.AnswerSet{},
			wantTag:    models.OutcomeWaitlist,
			wantReason: models.ReasonNonSF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.answers)

			assert.Equal(t, tt.wantTag, got.Tag)
			assert.Equal(t, tt.wantReason, got.Reason)
			if tt.wantScore == nil {
				assert.Nil(t, got.Score)
			} else {
				require.NotNil(t, got.Score)
				assert.Equal(t, *tt.wantScore, *got.Score)
			}
		})
	}
}

// ==========================
// Properties over every answer set
// ==========================

func TestClassify_NonPrimaryRegionAlwaysWaitlist(t *testing.T) {
	forEachAnswerSet(func(a models.AnswerSet) {
		if a[models.QuestionLocation] == models.AnswerA {
			return
		}
		got := Classify(a)
		assert.Equal(t, models.OutcomeWaitlist, got.Tag, "answers %v", a)
		assert.Equal(t, models.ReasonNonSF, got.Reason, "answers %v", a)
		assert.Nil(t, got.Score)
	})
}

func TestClassify_DisqualifyingAxes(t *testing.T) {
	forEachAnswerSet(func(a models.AnswerSet) {
		if a[models.QuestionLocation] != models.AnswerA {
			return
		}
		if a[models.QuestionIntent] != "D" && a[models.QuestionAvailability] != "D" && a[models.QuestionTimeline] != "D" {
			return
		}
		got := Classify(a)
		assert.Equal(t, models.OutcomeNotReady, got.Tag, "answers %v", a)
		assert.Equal(t, models.ReasonNotReady, got.Reason, "answers %v", a)
		assert.Nil(t, got.Score)
	})
}

func TestClassify_ScoredOutcomes(t *testing.T) {
	forEachAnswerSet(func(a models.AnswerSet) {
		if a[models.QuestionLocation] != models.AnswerA {
			return
		}
		if a[models.QuestionIntent] == "D" || a[models.QuestionAvailability] == "D" || a[models.QuestionTimeline] == "D" {
			return
		}
		got := Classify(a)
		require.NotNil(t, got.Score)

		want := answerPoints[a[models.QuestionIntent]] + answerPoints[a[models.QuestionAvailability]] +
			answerPoints[a[models.QuestionInvestment]] + answerPoints[a[models.QuestionTimeline]]
		assert.Equal(t, want, *got.Score)

		if want >= QualifiedThreshold {
			assert.Equal(t, models.OutcomeQualified, got.Tag, "answers %v", a)
			assert.Equal(t, models.ReasonHighIntent, got.Reason)
		} else {
			assert.Equal(t, models.OutcomeNotReady, got.Tag, "answers %v", a)
			assert.Equal(t, models.ReasonLowIntent, got.Reason)
		}
	})
}

func TestScore_IgnoresLocation(t *testing.T) {
	assert.Equal(t, Score(answers("A", "B", "B", "B", "B")), Score(answers("D", "B", "B", "B", "B")))
}

func intPtr(i int) *int {
	return &i
}
