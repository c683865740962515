// Package classifyoutcome maps a five-answer quiz submission to an outcome tier.
package classifyoutcome

import "lead-funnel/internal/models"

// QualifiedThreshold is the minimum q2..q5 score for a qualified outcome.
const QualifiedThreshold = 8

var answerPoints = map[models.AnswerCode]int{
	models.AnswerA: 3,
	models.AnswerB: 2,
	models.AnswerC: 1,
	models.AnswerD: 0,
}

// Classify applies the outcome rules in precedence order; the first match wins.
//
//  1. q1 != A                       -> waitlist / non-sf
//  2. q2, q3 or q5 == D             -> not-ready / not-ready
//  3. score(q2..q5) >= 8            -> qualified / high-intent
//  4. otherwise                     -> not-ready / low-intent
//
// Missing answers score as D. q4 contributes to the score but never disqualifies.
func Classify(answers models.AnswerSet) models.Outcome {
	if answers.Get(models.QuestionLocation) != models.AnswerA {
		return models.Outcome{Tag: models.OutcomeWaitlist, Reason: models.ReasonNonSF}
	}

	if answers.Get(models.QuestionIntent) == models.AnswerD ||
		answers.Get(models.QuestionAvailability) == models.AnswerD ||
		answers.Get(models.QuestionTimeline) == models.AnswerD {
		return models.Outcome{Tag: models.OutcomeNotReady, Reason: models.ReasonNotReady}
	}

	score := Score(answers)
	if score >= QualifiedThreshold {
		return models.Outcome{Tag: models.OutcomeQualified, Reason: models.ReasonHighIntent, Score: &score}
	}
	return models.Outcome{Tag: models.OutcomeNotReady, Reason: models.ReasonLowIntent, Score: &score}
}

// Score sums q2..q5 with A=3, B=2, C=1 and D or missing = 0.
func Score(answers models.AnswerSet) int {
	total := 0
	for _, q := range []models.QuestionID{
		models.QuestionIntent,
		models.QuestionAvailability,
		models.QuestionInvestment,
		models.QuestionTimeline,
	} {
		total += answerPoints[answers.Get(q)]
	}
	return total
}
