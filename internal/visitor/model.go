// Package visitor provides the visitor domain model, data access, and the
// check-in/check-out lifecycle.
package visitor

import (
	"strconv"
	"time"
)

// Status is the lifecycle state of a visitor record.
type Status string

const (
	CheckedIn  Status = "Checked In"
	CheckedOut Status = "Checked Out"
)

// Defaults applied to optional check-in fields.
const (
	PlaceholderPhoto      = "placeholder.png"
	EntryManual           = "manual"
	EntryPreregistration  = "preregistration"
	LivenessNotApplicable = "N/A"
)

// OverstayLimit is how long a visitor may stay checked in before being
// flagged as overstaying.
const OverstayLimit = 2 * time.Hour

// TimeLayout is the human-facing timestamp format used in exports and messages.
const TimeLayout = "2006-01-02 15:04:05"

// Visitor is one visit to the facility, from check-in to check-out.
// CheckoutTime is set if and only if Status is CheckedOut.
type Visitor struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Contact       string     `json:"contact"`
	Email         string     `json:"email"`
	Company       string     `json:"company"`
	Purpose       string     `json:"purpose"`
	NDASigned     bool       `json:"nda_signed"`
	Photo         string     `json:"photo"`
	EntryMethod   string     `json:"entry_method"`
	LivenessCheck string     `json:"liveness_check"`
	CheckinTime   time.Time  `json:"checkin_time"`
	CheckoutTime  *time.Time `json:"checkout_time"`
	Status        Status     `json:"status"`
}

// HistoryEntry is a visitor as returned by history search, with the
// derived overstay flag.
type HistoryEntry struct {
	Visitor
	Overstay bool `json:"overstay"`
}

// Stats holds aggregate visitor counts.
type Stats struct {
	CheckedIn  int `json:"checked_in"`
	CheckedOut int `json:"checked_out"`
	Total      int `json:"total"`
}

// CheckInInput is the check-in request schema.
type CheckInInput struct {
	Name          string `json:"name" validate:"required"`
	Contact       string `json:"contact" validate:"required,contact"`
	Email         string `json:"email"`
	Company       string `json:"company"`
	Purpose       string `json:"purpose" validate:"required"`
	NDASigned     bool   `json:"nda_signed"`
	Photo         string `json:"photo"`
	EntryMethod   string `json:"entry_method"`
	LivenessCheck string `json:"liveness_check"`
}

func (in *CheckInInput) applyDefaults() {
	if in.Photo == "" {
		in.Photo = PlaceholderPhoto
	}
	if in.EntryMethod == "" {
		in.EntryMethod = EntryManual
	}
	if in.LivenessCheck == "" {
		in.LivenessCheck = LivenessNotApplicable
	}
}

// IsOverstay reports whether a visitor checked in at checkinTime with the
// given status has stayed longer than OverstayLimit as of now.
// It is derived on every read and never stored.
func IsOverstay(checkinTime time.Time, status Status, now time.Time) bool {
	if status != CheckedIn {
		return false
	}
	return now.Sub(checkinTime) > OverstayLimit
}

// ExportHeader is the fixed column header of a visitor log export.
var ExportHeader = []string{
	"ID", "Name", "Contact", "Email", "Company", "Purpose", "NDA Signed", "Photo",
	"Entry Method", "Liveness Check", "Check-In Time", "Check-Out Time", "Status",
}

// ExportRow returns the visitor's fields in ExportHeader order.
func (v *Visitor) ExportRow() []string {
	checkout := ""
	if v.CheckoutTime != nil {
		checkout = v.CheckoutTime.Format(TimeLayout)
	}
	nda := "0"
	if v.NDASigned {
		nda = "1"
	}
	return []string{
		strconv.FormatInt(v.ID, 10),
		v.Name,
		v.Contact,
		v.Email,
		v.Company,
		v.Purpose,
		nda,
		v.Photo,
		v.EntryMethod,
		v.LivenessCheck,
		v.CheckinTime.Format(TimeLayout),
		checkout,
		string(v.Status),
	}
}
