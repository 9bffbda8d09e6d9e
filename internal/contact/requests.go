package contact

import (
	"net/mail"
	"strings"

	"pathcrm/pkg/httputil"
)

// SubmitRequest is the public contact-form payload.
type SubmitRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Message  string `json:"message"`
}

// Normalize trims every field and lowercases the email. Runs before Validate
// so length rules apply to the stored form.
func (r *SubmitRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Message = strings.TrimSpace(r.Message)
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

	if len(r.Phone) > 20 {
		errs = append(errs, httputil.FieldError{Field: "phone", Message: "Phone must be at most 20 characters."})
	}
	if len(r.Company) > 150 {
		errs = append(errs, httputil.FieldError{Field: "company", Message: "Company must be at most 150 characters."})
	}

	switch {
	case r.Message == "":
		errs = append(errs, httputil.FieldError{Field: "message", Message: "Message is required."})
	case len(r.Message) < 10:
		errs = append(errs, httputil.FieldError{Field: "message", Message: "Message must be at least 10 characters."})
	}

	return errs
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
	// Require a dotted domain, matching the public form's rules.
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return &httputil.FieldError{Field: "email", Message: "Please provide a valid email address."}
	}
	return nil
}
