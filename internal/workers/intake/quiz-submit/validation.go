package quizsubmit

import (
	"strings"

	"lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/validation"
	"lead-funnel/internal/models"
)

// requestSchema checks field types only; presence is checked after the bot check.
var requestSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"name":           {"type": "string"},
		"email":          {"type": "string"},
		"phone":          {"type": "string"},
		"outcome":        {"type": "string"},
		"recaptchaToken": {"type": "string"},
		"answers": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`)

const (
	msgInvalidBody     = "Invalid request body"
	msgMissingFields   = "Missing required fields"
	msgInvalidName     = "Invalid name. Please use only letters, spaces, and hyphens."
	msgInvalidEmail    = "Invalid email address"
	msgInvalidPhone    = "Invalid phone number"
	msgInvalidOutcome  = "Invalid outcome"
	msgInvalidAnswers  = "Invalid quiz answers"
	msgCaptchaFallback = "reCAPTCHA verification failed"
)

func rejectInput(message, details string) *errors.StandardError {
	err := errors.NewValidationFailedError(details)
	err.Message = message
	return err
}

func validateSchema(body []byte) *errors.StandardError {
	result := requestSchema.ValidateJSON(body)
	if result.Valid {
		return nil
	}
	return rejectInput(msgInvalidBody, strings.Join(result.GetErrorMessages(), "; "))
}

// validateFields applies the field rules in order and returns the first failure.
func validateFields(req *Request) *errors.StandardError {
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Answers == nil || req.Outcome == "" {
		return rejectInput(msgMissingFields, "name, email, phone, answers and outcome are required")
	}
	if !validation.ValidateName(req.Name) {
		return rejectInput(msgInvalidName, "name")
	}
	if !validation.ValidateEmail(req.Email) {
		return rejectInput(msgInvalidEmail, "email")
	}
	if !validation.ValidatePhone(req.Phone) {
		return rejectInput(msgInvalidPhone, "phone")
	}
	if !models.IsValidOutcome(req.Outcome) {
		return rejectInput(msgInvalidOutcome, "outcome")
	}

	for key, value := range req.Answers {
		if !models.IsValidQuestion(key) || !models.IsValidAnswer(value) {
			return rejectInput(msgInvalidAnswers, "answers."+key)
		}
	}
	for _, q := range models.QuestionIDs {
		if _, ok := req.Answers[string(q)]; !ok {
			return rejectInput(msgInvalidAnswers, "answers."+string(q)+" is missing")
		}
	}
	return nil
}

func answerSet(answers map[string]string) models.AnswerSet {
	set := make(models.AnswerSet, len(answers))
	for key, value := range answers {
		set[models.QuestionID(key)] = models.AnswerCode(value)
	}
	return set
}
