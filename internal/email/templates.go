package email

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// TimeLayout formats timestamps in notification bodies.
const TimeLayout = "2006-01-02 15:04:05"

// Feedback is the content of a feedback notification.
type Feedback struct {
	Type      string
	Name      string
	Email     string
	Message   string
	Timestamp time.Time
}

// FormatFeedback builds the subject and plain-text body for a feedback
// notification.
func FormatFeedback(f Feedback) (subject, body string) {
	subject = "New Feedback: " + capitalize(f.Type)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Type: %s\n", f.Type)
	fmt.Fprintf(&buf, "Name: %s\n", orDefault(f.Name, "Anonymous"))
	fmt.Fprintf(&buf, "Email: %s\n", orDefault(f.Email, "N/A"))
	fmt.Fprintf(&buf, "Message: %s\n", f.Message)
	fmt.Fprintf(&buf, "Timestamp: %s", f.Timestamp.Format(TimeLayout))

	return subject, buf.String()
}

// Preregistration is the content of a pre-registration notification.
type Preregistration struct {
	Name        string
	Contact     string
	Email       string
	Company     string
	Purpose     string
	VisitDate   string
	VisitTime   string
	NDASigned   bool
	SubmittedAt time.Time
}

// FormatPreregistration builds the subject and plain-text body for a
// pre-registration notification.
func FormatPreregistration(p Preregistration) (subject, body string) {
	subject = "New Pre-Registration Request"

	nda := "No"
	if p.NDASigned {
		nda = "Yes"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "New Pre-Registration Request:\n")
	fmt.Fprintf(&buf, "Name: %s\n", p.Name)
	fmt.Fprintf(&buf, "Contact: %s\n", p.Contact)
	fmt.Fprintf(&buf, "Email: %s\n", orDefault(p.Email, "N/A"))
	fmt.Fprintf(&buf, "Company: %s\n", orDefault(p.Company, "N/A"))
	fmt.Fprintf(&buf, "Purpose: %s\n", p.Purpose)
	fmt.Fprintf(&buf, "Visit Date: %s\n", p.VisitDate)
	fmt.Fprintf(&buf, "Visit Time: %s\n", p.VisitTime)
	fmt.Fprintf(&buf, "NDA Signed: %s\n", nda)
	fmt.Fprintf(&buf, "Submitted At: %s\n", p.SubmittedAt.Format(TimeLayout))
	fmt.Fprintf(&buf, "Please review this request in the admin dashboard.\n")

	return subject, buf.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
