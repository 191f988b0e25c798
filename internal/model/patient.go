// Package model defines the core domain models used throughout the application.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPatient is returned when a patient context is missing required fields.
var ErrInvalidPatient = errors.New("invalid patient")

// Patient identifies who a screen session works for. It is supplied by the
// navigation origin and is never mutated while the session is alive.
type Patient struct {
	ID          string
	PhysicianID string
	Email       string
	Name        string
}

// Validate ensures the identifiers needed by the remote endpoints are present.
func (p Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: patient id is required", ErrInvalidPatient)
	}
	if strings.TrimSpace(p.PhysicianID) == "" {
		return fmt.Errorf("%w: physician id is required", ErrInvalidPatient)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidPatient)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email %q is not an address", ErrInvalidPatient, p.Email)
	}
	return nil
}

// DisplayName returns the patient name, falling back to the id.
func (p Patient) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return "Paciente " + p.ID
}
