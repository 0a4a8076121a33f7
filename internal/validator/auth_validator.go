package validator

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"
)

var (
	// malformed request input
	ErrInvalidInput = errors.New("invalid input")
)

// InputError names the offending field; it wraps ErrInvalidInput.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

const (
	minPasswordLen = 8
	maxNameLen     = 100
)

// enrollment numbers: letters, digits, "-" and "/"
var enrollmentRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/\-]{2,31}$`)

type AuthValidator struct{}

func NewAuthValidator() *AuthValidator {
	return &AuthValidator{}
}

func (v *AuthValidator) ValidateRegister(ctx context.Context, enrollment, name, password string) error {
	if enrollment == "" {
		return &InputError{Field: "enrollment", Reason: "is required"}
	}
	if !enrollmentRe.MatchString(enrollment) {
		return &InputError{Field: "enrollment", Reason: "has invalid format"}
	}
	if name == "" {
		return &InputError{Field: "name", Reason: "is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return &InputError{Field: "name", Reason: "is too long"}
	}
	if len(password) < minPasswordLen {
		return &InputError{Field: "password", Reason: "must be at least 8 characters"}
	}
	return nil
}

func (v *AuthValidator) ValidateLogin(ctx context.Context, enrollment, password string) error {
	if enrollment == "" || password == "" {
		return &InputError{Field: "enrollment/password", Reason: "are required"}
	}
	return nil
}
