package models

// LeadSourceWebsite tags submissions that arrived through the public quiz.
const LeadSourceWebsite = "website"

// SubmissionRecord is the row persisted for every accepted quiz submission.
type SubmissionRecord struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Location     string     `json:"location"`
	Intent       string     `json:"intent"`
	Availability string     `json:"availability"`
	Investment   string     `json:"investment"`
	Timeline     string     `json:"timeline"`
	Outcome      OutcomeTag `json:"outcome"`
	LeadSource   string     `json:"leadSource"`

	// Answers keeps the raw codes for consumers that bucket rather than decode.
	Answers AnswerSet `json:"-"`
}

// NewSubmissionRecord decodes the answer codes into their canonical text.
func NewSubmissionRecord(name, email, phone string, answers AnswerSet, outcome OutcomeTag) SubmissionRecord {
	return SubmissionRecord{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Location:     LocationText(answers.Get(QuestionLocation)),
		Intent:       AnswerText(QuestionIntent, answers.Get(QuestionIntent)),
		Availability: AnswerText(QuestionAvailability, answers.Get(QuestionAvailability)),
		Investment:   AnswerText(QuestionInvestment, answers.Get(QuestionInvestment)),
		Timeline:     AnswerText(QuestionTimeline, answers.Get(QuestionTimeline)),
		Outcome:      outcome,
		LeadSource:   LeadSourceWebsite,
		Answers:      answers,
	}
}
