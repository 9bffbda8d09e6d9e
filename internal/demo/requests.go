package demo

import (
	"net/mail"
	"strings"
	"time"

	"pathcrm/pkg/httputil"
)

// SubmitRequest is the public demo-booking payload.
type SubmitRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	DemoDate string `json:"demo_date"`
	Service  string `json:"service"`
	Notes    string `json:"notes"`
}

// Normalize trims every field and lowercases the email.
func (r *SubmitRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Company = strings.TrimSpace(r.Company)
	r.DemoDate = strings.TrimSpace(r.DemoDate)
	r.Service = strings.TrimSpace(r.Service)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate returns field-level failures, empty when the request is acceptable.
func (r *SubmitRequest) Validate() []httputil.FieldError {
	var errs []httputil.FieldError

	switch {
	case r.FullName == "":
		errs = append(errs, httputil.FieldError{Field: "full_name", Message: "Full name is required."})
	case len(r.FullName) < 2:
		errs = append(errs, httputil.FieldError{Field: "full_name", Message: "Full name must be at least 2 characters."})
	}

	if fe := validateEmail(r.Email); fe != nil {
		errs = append(errs, *fe)
	}

	if len(r.Company) > 150 {
		errs = append(errs, httputil.FieldError{Field: "company", Message: "Company must be at most 150 characters."})
	}

	switch {
	case r.DemoDate == "":
		errs = append(errs, httputil.FieldError{Field: "demo_date", Message: "Demo date is required."})
	default:
		if _, err := r.ParsedDemoDate(); err != nil {
			errs = append(errs, httputil.FieldError{Field: "demo_date", Message: "Please provide a valid date/time for the demo."})
		}
	}

	if len(r.Service) > 150 {
		errs = append(errs, httputil.FieldError{Field: "service", Message: "Service must be at most 150 characters."})
	}
	if len(r.Notes) > 2000 {
		errs = append(errs, httputil.FieldError{Field: "notes", Message: "Notes must be at most 2000 characters."})
	}

	return errs
}

// ParsedDemoDate parses the requested slot. Date-only values are accepted and
// land at midnight UTC.
func (r *SubmitRequest) ParsedDemoDate() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, r.DemoDate); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", r.DemoDate)
}

// StatusRequest is the admin status-change payload.
type StatusRequest struct {
	Status string `json:"status"`
}

func validateEmail(email string) *httputil.FieldError {
	if email == "" {
		return &httputil.FieldError{Field: "email", Message: "Email is required."}
	}
	if len(email) > 254 {
		return &httputil.FieldError{Field: "email", Message: "Email is too long."}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &httputil.FieldError{Field: "email", Message: "Please provide a valid email address."}
	}
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return &httputil.FieldError{Field: "email", Message: "Please provide a valid email address."}
	}
	return nil
}
