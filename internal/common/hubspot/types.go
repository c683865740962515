package hubspot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lead-funnel/internal/models"
)

// Operator is a CRM search filter operator.
type Operator string

const (
	OpEQ  Operator = "EQ"
	OpNEQ Operator = "NEQ"
	OpGTE Operator = "GTE"
	OpLT  Operator = "LT"
)

type Filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     Operator `json:"operator"`
	Value        string   `json:"value"`
}

// FilterGroup filters are ANDed; groups are ORed.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// SearchRequest is the body of POST /crm/v3/objects/contacts/search.
// MaxResults caps the total across pages; zero uses the client default.
type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties,omitempty"`
	Limit        int           `json:"limit,omitempty"`
	After        string        `json:"after,omitempty"`

	MaxResults int `json:"-"`
}

// SearchResult holds every contact gathered across pages.
type SearchResult struct {
	Contacts  []models.Contact
	Total     int
	Pages     int
	Truncated bool
}

// ContactProperties is the typed property bag written on create and update.
type ContactProperties struct {
	FirstName    string `json:"firstname,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	LeadSource   string `json:"lead_soource,omitempty"` // portal property name
	Location     string `json:"location,omitempty"`
	Intent       string `json:"intent"`
	Availability string `json:"availability"`
	Investment   string `json:"investment"`
	Timeline     string `json:"timeline"`
	QuizOutcome  string `json:"quiz_outcome,omitempty"`
	UserStatus   string `json:"user_status,omitempty"`
	AccessStatus string `json:"access_to_ailo_unlimited,omitempty"`
}

// ContactFields are the properties requested on every read.
var ContactFields = []string{"firstname", "email", "createdate", "quiz_outcome", "call_status"}

// Wire shapes.

type contactRecord struct {
	ID         string `json:"id"`
	Properties struct {
		FirstName   string `json:"firstname"`
		Email       string `json:"email"`
		CreateDate  string `json:"createdate"`
		QuizOutcome string `json:"quiz_outcome"`
		CallStatus  string `json:"call_status"`
	} `json:"properties"`
	CreatedAt time.Time `json:"createdAt"`
}

type searchResponse struct {
	Total   int             `json:"total"`
	Results []contactRecord `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

func (r searchResponse) nextAfter() string {
	if r.Paging == nil || r.Paging.Next == nil {
		return ""
	}
	return r.Paging.Next.After
}

type propertiesBody struct {
	Properties ContactProperties `json:"properties"`
}

type errorBody struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

func (r contactRecord) toContact() models.Contact {
	c := models.Contact{
		ID:          r.ID,
		FirstName:   r.Properties.FirstName,
		Email:       r.Properties.Email,
		QuizOutcome: r.Properties.QuizOutcome,
		CallStatus:  r.Properties.CallStatus,
		CreatedAt:   r.CreatedAt,
	}
	if t, ok := parseTimestamp(r.Properties.CreateDate); ok {
		c.CreatedAt = t
	}
	return c
}

// parseTimestamp accepts ISO-8601 or epoch milliseconds.
func parseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), true
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

// MillisValue formats t as the epoch-millisecond string the search API expects.
func MillisValue(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// Errors.

// ErrAlreadyExists matches any *AlreadyExistsError via errors.Is.
var ErrAlreadyExists = errors.New("hubspot: contact already exists")

// AlreadyExistsError is returned by Create on 409 Conflict.
type AlreadyExistsError struct {
	ExistingID string
}

func (e *AlreadyExistsError) Error() string {
	if e.ExistingID == "" {
		return ErrAlreadyExists.Error()
	}
	return fmt.Sprintf("%s (existing id %s)", ErrAlreadyExists.Error(), e.ExistingID)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// APIError is a non-2xx response from the directory.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
}
