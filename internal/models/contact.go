package models

import "time"

// CallStatusScheduled is the call_status sentinel meaning "do not remind".
const CallStatusScheduled = "Call Scheduled"

// Contact is a directory-owned contact record, referenced by id.
type Contact struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	QuizOutcome string    `json:"quizOutcome,omitempty"`
	CallStatus  string    `json:"callStatus,omitempty"`
}

// HasCallScheduled reports whether the contact already booked a call.
func (c *Contact) HasCallScheduled() bool {
	return c != nil && c.CallStatus == CallStatusScheduled
}
