package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation sentinels carried by ValidationError.Err so callers can match a specific
// constraint with errors.Is.
var (
	ErrInvalidSortColumn = errors.New("InvalidSortColumn")
	ErrInvalidSortOrder  = errors.New("InvalidSortOrder")
	ErrInvalidPageIndex  = errors.New("InvalidPageIndex")
	ErrInvalidPageSize   = errors.New("InvalidPageSize")
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// Code returns the machine readable name of the violated constraint.
func (e ValidationError) Code() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "validation_error"
}

// FieldErrors aggregates every violated constraint of one request.
type FieldErrors []ValidationError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() []error {
	out := make([]error, 0, len(fe))
	for _, e := range fe {
		out = append(out, e)
	}
	return out
}

// OrNil returns nil for an empty set so callers can return it directly.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// UnauthorizedError is returned when credentials do not check out.
type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// ValidationDetails flattens err into the list of field errors it carries.
func ValidationDetails(err error) []ValidationError {
	var many FieldErrors
	if errors.As(err, &many) {
		return many
	}
	var one ValidationError
	if errors.As(err, &one) {
		return []ValidationError{one}
	}
	return nil
}
