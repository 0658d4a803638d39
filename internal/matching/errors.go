package matching

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a candidate, company, or offer identifier is unknown.
	ErrNotFound = errors.New("matching: not found")
	// ErrAlreadyExists is returned when a registration collides with an existing identifier or email.
	ErrAlreadyExists = errors.New("matching: already exists")
	// ErrAlreadyApplied is returned when the candidate already holds an application to the offer.
	ErrAlreadyApplied = errors.New("matching: already applied")
	// ErrOfferExpired is returned when applying to an offer past its expiration date.
	ErrOfferExpired = errors.New("matching: offer expired")
	// ErrNotApplied is returned when withdrawing or rejecting an application that does not exist.
	ErrNotApplied = errors.New("matching: not applied")
	// ErrNotOwner is returned when a company acts on an offer published by another company.
	ErrNotOwner = errors.New("matching: not owner")
	// ErrAlreadyWishlisted is returned when the candidate is already on the company wishlist.
	ErrAlreadyWishlisted = errors.New("matching: already wishlisted")
	// ErrNotWishlisted is returned when removing a candidate absent from the wishlist.
	ErrNotWishlisted = errors.New("matching: not wishlisted")
	// ErrInvalidCredentials is returned when an email and secret pair does not authenticate.
	ErrInvalidCredentials = errors.New("matching: invalid credentials")
)

// Result is the stable outcome label of a core operation. Callers use it to pick
// precise messages without inspecting error strings.
type Result string

const (
	ResultOK                Result = "ok"
	ResultAlreadyApplied    Result = "already_applied"
	ResultExpired           Result = "expired"
	ResultNotFound          Result = "not_found"
	ResultNotApplied        Result = "not_applied"
	ResultNotOwner          Result = "not_owner"
	ResultAlreadyWishlisted Result = "already_wishlisted"
	ResultNotWishlisted     Result = "not_wishlisted"
	ResultAlreadyExists     Result = "already_exists"
	ResultInvalidCredential Result = "invalid_credentials"
	ResultValidation        Result = "validation"
	ResultUnexpected        Result = "unexpected"
)

// ResultOf maps sentinel and validation errors to their Result label. A nil error is ResultOK.
func ResultOf(err error) Result {
	if err == nil {
		return ResultOK
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return ResultNotFound
	case errors.Is(err, ErrAlreadyApplied):
		return ResultAlreadyApplied
	case errors.Is(err, ErrOfferExpired):
		return ResultExpired
	case errors.Is(err, ErrNotApplied):
		return ResultNotApplied
	case errors.Is(err, ErrNotOwner):
		return ResultNotOwner
	case errors.Is(err, ErrAlreadyWishlisted):
		return ResultAlreadyWishlisted
	case errors.Is(err, ErrNotWishlisted):
		return ResultNotWishlisted
	case errors.Is(err, ErrAlreadyExists):
		return ResultAlreadyExists
	case errors.Is(err, ErrInvalidCredentials):
		return ResultInvalidCredential
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return ResultValidation
	}

	return ResultUnexpected
}

// ErrorKind maps errors to the label attached to log records. It is empty for nil errors.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	return string(ResultOf(err))
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(v.Fields(), ", ")
}

// Fields lists the invalid field names in sorted order.
func (v *ValidationError) Fields() []string {
	if v == nil {
		return nil
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}
