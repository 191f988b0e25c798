// Package storage provides the local persistence layer for pulmones.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrInvalidActivity = errors.New("invalid activity")
	ErrInvalidLimit    = errors.New("limit cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateActivity validates an activity entry before it is stored.
func validateActivity(a service.Activity) error {
	if strings.TrimSpace(a.SessionID) == "" {
		return fmt.Errorf("%w: session ID cannot be empty", ErrInvalidActivity)
	}
	if strings.TrimSpace(a.PatientID) == "" {
		return fmt.Errorf("%w: patient ID cannot be empty", ErrInvalidActivity)
	}
	switch a.Kind {
	case service.ActivitySubmission, service.ActivityReport:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidActivity, a.Kind)
	}
	if strings.TrimSpace(a.Outcome) == "" {
		return fmt.Errorf("%w: outcome cannot be empty", ErrInvalidActivity)
	}
	return nil
}

// validateFilter validates an activity query filter.
func validateFilter(f service.ActivityFilter) error {
	if f.Limit < 0 {
		return ErrInvalidLimit
	}
	if f.Kind != "" && f.Kind != service.ActivitySubmission && f.Kind != service.ActivityReport {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidActivity, f.Kind)
	}
	return nil
}
