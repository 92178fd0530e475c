// Package validate holds the pure field-validation rules for the signup and
// login forms and for task text. Nothing here touches persisted state.
package validate

import (
	"regexp"
	"strings"
)

// FieldErrors maps a form field name to its error message. An empty map
// means the input is valid.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Signup checks the signup form fields.
func Signup(name, email, password, confirm string) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	}

	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}

	switch {
	case password == "":
		errs["password"] = "Password is required"
	case len(password) < 6:
		errs["password"] = "Password must be at least 6 characters long"
	}

	switch {
	case confirm == "":
		errs["confirm"] = "Please confirm your password"
	case confirm != password:
		errs["confirm"] = "Passwords do not match"
	}

	return errs
}

// Login checks the login form fields.
func Login(email, password string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(email) == "" {
		errs["email"] = "Email is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

// TaskText trims the text and reports whether anything is left.
func TaskText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
