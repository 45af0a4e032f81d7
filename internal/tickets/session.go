package tickets

import (
	"errors"
	"strings"
	"sync"
)

// SessionState enumerates the interaction states of one operator session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateEditing    SessionState = "editing"
	StateSubmitting SessionState = "submitting"
	StateSuccess    SessionState = "success"
	StateFailure    SessionState = "failure"
)

// ErrInvalidTransition rejects session calls outside the transition table.
var ErrInvalidTransition = errors.New("invalid session transition")

// Session is the single-operator interaction state machine: input text, the
// busy flag and the result slot live here, not in the extraction core.
//
// Transitions:
//
//	Idle            --SetInput(non-blank)--> Editing
//	Editing         --Submit-->              Submitting
//	Submitting      --Finish(success)-->     Success
//	Submitting      --Finish(failure)-->     Failure
//	Submitting      --Abort-->               Editing
//	Success|Failure --SetInput-->            Editing
//
// A failed attempt replaces the latest outcome but keeps the last successful
// ticket visible until the next success overwrites it.
type Session struct {
	mu         sync.Mutex
	state      SessionState
	input      string
	latest     *Outcome
	lastTicket *Ticket
}

// NewSession starts in Idle with an empty result slot.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInput stores the operator's note text. Blank input keeps an Idle session
// idle; while an attempt is outstanding the input is frozen.
func (s *Session) SetInput(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrExtractionInFlight
	}
	s.input = text
	if strings.TrimSpace(text) != "" {
		s.state = StateEditing
	} else if s.state != StateIdle {
		s.state = StateEditing
	}
	return nil
}

// Input returns the current note text.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Submit moves the session into Submitting. Blank input is a no-op error and
// an outstanding attempt rejects the call.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrExtractionInFlight
	}
	if strings.TrimSpace(s.input) == "" {
		return ErrEmptyInput
	}
	if s.state != StateEditing {
		return ErrInvalidTransition
	}
	s.state = StateSubmitting
	return nil
}

// Finish records the outcome of the outstanding attempt. Only a successful
// outcome replaces the last ticket; a failure leaves it in place.
func (s *Session) Finish(outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		return ErrInvalidTransition
	}
	s.latest = &outcome
	if outcome.Succeeded() {
		ticket := outcome.Ticket
		s.lastTicket = &ticket
		s.state = StateSuccess
	} else {
		s.state = StateFailure
	}
	return nil
}

// Abort returns a Submitting session to Editing without recording an outcome,
// for attempts the core rejected before calling the model.
func (s *Session) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		return ErrInvalidTransition
	}
	s.state = StateEditing
	return nil
}

// Latest returns the outcome of the most recent finished attempt.
func (s *Session) Latest() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Outcome{}, false
	}
	return *s.latest, true
}

// LastTicket returns the most recent successful ticket, which survives
// failed attempts.
func (s *Session) LastTicket() (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastTicket == nil {
		return Ticket{}, false
	}
	return *s.lastTicket, true
}
