package hubspot

import "lead-funnel/internal/models"

// Directory property values.
const (
	LeadSourceWebsite  = "Website"
	UserStatusNoInfo   = "No Info"
	AccessStatusReview = "In Review"
	AccessRejected     = "Rejected"
)

// BuildContactProperties maps an accepted submission onto directory properties.
func BuildContactProperties(rec models.SubmissionRecord) ContactProperties {
	location := models.LocationOutsideSouthFlorida
	if rec.Answers.Get(models.QuestionLocation) == models.AnswerA {
		location = models.LocationSouthFlorida
	}

	access := AccessStatusReview
	if rec.Outcome == models.OutcomeNotReady {
		access = AccessRejected
	}

	return ContactProperties{
		FirstName:    rec.Name,
		Email:        rec.Email,
		Phone:        rec.Phone,
		LeadSource:   LeadSourceWebsite,
		Location:     location,
		Intent:       rec.Intent,
		Availability: rec.Availability,
		Investment:   rec.Investment,
		Timeline:     rec.Timeline,
		QuizOutcome:  rec.Outcome.DirectoryLabel(),
		UserStatus:   UserStatusNoInfo,
		AccessStatus: access,
	}
}
