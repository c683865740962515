package models

// QuestionID identifies one of the five quiz questions.
type QuestionID string

const (
	QuestionLocation     QuestionID = "q1"
	QuestionIntent       QuestionID = "q2"
	QuestionAvailability QuestionID = "q3"
	QuestionInvestment   QuestionID = "q4"
	QuestionTimeline     QuestionID = "q5"
)

// QuestionIDs lists the questions in quiz order.
var QuestionIDs = []QuestionID{
	QuestionLocation,
	QuestionIntent,
	QuestionAvailability,
	QuestionInvestment,
	QuestionTimeline,
}

// AnswerCode is one option of a multiple-choice question.
type AnswerCode string

const (
	AnswerA AnswerCode = "A"
	AnswerB AnswerCode = "B"
	AnswerC AnswerCode = "C"
	AnswerD AnswerCode = "D"
)

// AnswerSet maps question ids to the chosen answer code.
type AnswerSet map[QuestionID]AnswerCode

// Get returns the answer for q, or "" when unanswered.
func (a AnswerSet) Get(q QuestionID) AnswerCode {
	if a == nil {
		return ""
	}
	return a[q]
}

func IsValidQuestion(q string) bool {
	switch QuestionID(q) {
	case QuestionLocation, QuestionIntent, QuestionAvailability, QuestionInvestment, QuestionTimeline:
		return true
	}
	return false
}

func IsValidAnswer(code string) bool {
	switch AnswerCode(code) {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return true
	}
	return false
}

// OutcomeTag is the classification bucket of a submission.
type OutcomeTag string

const (
	OutcomeQualified OutcomeTag = "qualified"
	OutcomeWaitlist  OutcomeTag = "waitlist"
	OutcomeNotReady  OutcomeTag = "not-ready"
)

func IsValidOutcome(tag string) bool {
	switch OutcomeTag(tag) {
	case OutcomeQualified, OutcomeWaitlist, OutcomeNotReady:
		return true
	}
	return false
}

// Reason explains why an outcome was chosen.
type Reason string

const (
	ReasonNonSF      Reason = "non-sf"
	ReasonNotReady   Reason = "not-ready"
	ReasonHighIntent Reason = "high-intent"
	ReasonLowIntent  Reason = "low-intent"
)

// Outcome is the immutable result of classifying one AnswerSet.
// Score is nil when the rules short-circuit before scoring.
type Outcome struct {
	Tag    OutcomeTag `json:"outcome"`
	Reason Reason     `json:"reason"`
	Score  *int       `json:"score,omitempty"`
}

// DirectoryLabel is the value stored in the directory's quiz_outcome property.
func (t OutcomeTag) DirectoryLabel() string {
	switch t {
	case OutcomeQualified:
		return "Qualified"
	case OutcomeWaitlist:
		return "Waitlist"
	case OutcomeNotReady:
		return "Not Ready"
	}
	return ""
}

// Canonical answer text, stored alongside submissions and mirrored to the directory.
var locationText = map[AnswerCode]string{
	AnswerA: "South Florida (Palm Beach, Broward, Miami-Dade)",
	AnswerB: "Florida (outside South Florida)",
	AnswerC: "U.S. (outside Florida)",
	AnswerD: "Outside the U.S.",
}

var answerText = map[QuestionID]map[AnswerCode]string{
	QuestionIntent: {
		AnswerA: "A committed relationship \u2014 I'm ready",
		AnswerB: "Something serious, but balancing priorities",
		AnswerC: "Exploring, no rush",
		AnswerD: "Just curious about AILO",
	},
	QuestionAvailability: {
		AnswerA: "Open and available",
		AnswerB: "Mostly open, still processing past experiences",
		AnswerC: "Working on it",
		AnswerD: "Not fully available right now",
	},
	QuestionInvestment: {
		AnswerA: "Willing to invest",
		AnswerB: "Open to investing, but not certain",
		AnswerC: "Prefer minimal investment",
		AnswerD: "Not interested in investing",
	},
	QuestionTimeline: {
		AnswerA: "As soon as I find the right person",
		AnswerB: "Within the next year",
		AnswerC: "No specific timeline",
		AnswerD: "Not sure yet",
	},
}

// LocationText decodes the q1 answer. Unknown codes yield "".
func LocationText(code AnswerCode) string {
	return locationText[code]
}

// AnswerText decodes answers to q2..q5. Unknown questions or codes yield "".
func AnswerText(q QuestionID, code AnswerCode) string {
	if q == QuestionLocation {
		return LocationText(code)
	}
	return answerText[q][code]
}

// WaitlistCity is the region recorded for a waitlist subscriber.
func WaitlistCity(code AnswerCode) string {
	if code == AnswerA {
		return "Unknown"
	}
	if text, ok := locationText[code]; ok {
		return text
	}
	return "Unknown"
}

// Directory location buckets.
const (
	LocationSouthFlorida        = "South Florida"
	LocationOutsideSouthFlorida = "Outside South Florida"
)
