// Package prereg implements visitor pre-registration: submission, the
// pending list, and the approve/decline workflow.
package prereg

import "time"

// Status is the approval state of a pre-registration.
type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Declined Status = "declined"
)

// VisitLayout is the layout of a combined "visitDate visitTime" value.
const VisitLayout = "2006-01-02 15:04"

// MissingFieldsMessage is the error text for a submission missing any
// required field.
const MissingFieldsMessage = "Missing required fields: name, contact, purpose, visitDate, visitTime"

// Preregistration is an advance visit request.
type Preregistration struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Purpose     string    `json:"purpose"`
	NDASigned   bool      `json:"nda_signed"`
	VisitDate   string    `json:"visitDate"`
	VisitTime   string    `json:"visitTime"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"-"`
}

// SubmitInput is the pre-registration request schema.
type SubmitInput struct {
	Name      string `json:"name" validate:"required"`
	Contact   string `json:"contact" validate:"required"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Purpose   string `json:"purpose" validate:"required"`
	NDASigned bool   `json:"nda_signed"`
	VisitDate string `json:"visitDate" validate:"required"`
	VisitTime string `json:"visitTime" validate:"required"`
}

// VisitAt parses the requested visit date and time in loc.
func (p *Preregistration) VisitAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(VisitLayout, p.VisitDate+" "+p.VisitTime, loc)
}

// CheckinTime returns the check-in time for an approval at now: the
// requested visit time if it is strictly in the future, otherwise now.
func CheckinTime(visitAt, now time.Time) time.Time {
	if visitAt.After(now) {
		return visitAt
	}
	return now
}
