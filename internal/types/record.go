package types

import (
	"encoding/json"
	"time"
)

// Status classifies the outcome reported by a single callback element.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusOther   Status = "other"
)

// ParseStatus maps a wire status string onto a Status. Anything that is not
// literally "success" or "failed" is classified as StatusOther rather than
// rejected; the enrichment service has grown new status strings before.
func ParseStatus(s string) Status {
	switch s {
	case string(StatusSuccess):
		return StatusSuccess
	case string(StatusFailed):
		return StatusFailed
	default:
		return StatusOther
	}
}

// ContactType categorizes a single contact channel.
type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactPhone ContactType = "phone"
)

// Contact is one way of reaching a candidate.
type Contact struct {
	Type  ContactType `json:"type"`
	Value string      `json:"value"`
}

// Query identifies what a waiter is trying to resolve. Immutable once issued.
type Query struct {
	// RequestedName is the company name as the caller knows it.
	RequestedName string

	// RequestedWebsite is the company website as the caller knows it.
	// Compared after normalization, so scheme/www/case differences are fine.
	RequestedWebsite string

	// Token is the correlation token embedded in the callback URL at
	// dispatch time. Empty when the enrichment service does not echo
	// caller-chosen tokens; matching then falls back to the heuristic rules.
	Token string
}

// Candidate is a read-only projection of a successful callback payload.
type Candidate struct {
	FullName    string    `json:"fullName"`
	HeadLine    string    `json:"headLine"`
	CompanyName string    `json:"companyName"`
	Website     string    `json:"website"`
	Contacts    []Contact `json:"contacts,omitempty"`
}

// Email returns the first email contact, or "".
func (c Candidate) Email() string {
	return c.contact(ContactEmail)
}

// Phone returns the first phone contact, or "".
func (c Candidate) Phone() string {
	return c.contact(ContactPhone)
}

func (c Candidate) contact(t ContactType) string {
	for _, ct := range c.Contacts {
		if ct.Type == t {
			return ct.Value
		}
	}
	return ""
}

// notFoundName is the sentinel FullName for an absent result.
const notFoundName = "Not found"

// NotFoundCandidate returns the explicit "no result" sentinel. Callers get
// this instead of an error when a wait times out, so "genuinely absent" is
// distinguishable from a fault.
func NotFoundCandidate() Candidate {
	return Candidate{FullName: notFoundName}
}

// IsNotFound reports whether c is the not-found sentinel.
func (c Candidate) IsNotFound() bool {
	return c.FullName == notFoundName && c.CompanyName == "" && c.Website == ""
}

// CallbackRecord is one element of one inbound callback delivery. Created
// exactly once on ingress and never mutated; the sink retains it for the
// process lifetime.
type CallbackRecord struct {
	// Status reported by the enrichment service for this element.
	Status Status `json:"status"`

	// Token is the correlation token the delivery arrived with, lifted off
	// the callback URL. Empty when the service echoed nothing.
	Token string `json:"token,omitempty"`

	// Item is the identifier the service claims this result is for.
	Item string `json:"item,omitempty"`

	// Candidate is non-nil exactly when Status is StatusSuccess.
	Candidate *Candidate `json:"candidate,omitempty"`

	// RawPayload is the verbatim element this record was built from.
	RawPayload json.RawMessage `json:"rawPayload,omitempty"`

	// ReceivedAt is when the sink ingested this record.
	ReceivedAt time.Time `json:"receivedAt"`
}
