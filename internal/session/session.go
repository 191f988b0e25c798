// Package session scopes workflow state to one visit of a screen.
package session

import (
	"sync/atomic"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/google/uuid"
)

// Session is one visit of a screen for one patient. Results of requests
// started under a session are applied only while it is active.
type Session struct {
	started time.Time
	patient model.Patient
	id      string
	ended   atomic.Bool
}

// New starts an active session for the patient.
func New(patient model.Patient) *Session {
	return &Session{
		id:      uuid.NewString(),
		patient: patient,
		started: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Patient returns the patient the session was started for.
func (s *Session) Patient() model.Patient {
	return s.patient
}

// Started returns when the session began.
func (s *Session) Started() time.Time {
	return s.started
}

// Active reports whether the session is still on screen.
func (s *Session) Active() bool {
	return s != nil && !s.ended.Load()
}

// End marks the session as left. It is safe to call more than once.
func (s *Session) End() {
	s.ended.Store(true)
}
