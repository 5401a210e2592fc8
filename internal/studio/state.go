// Package studio holds the single in-memory editing session behind the
// thumbnail studio: the prompt, the optional reference frame, the latest
// result and the phase of the current generation cycle.
package studio

import (
	"fmt"

	"github.com/mchlmayer/iathumb/internal/domain"
)

// Phase is where a session stands in its generation cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseGenerating Phase = "generating"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
)

// State is one snapshot of the session. Transitions return a new value and
// never mutate the receiver, which keeps them trivial to test.
type State struct {
	Phase     Phase
	Prompt    string
	Reference *domain.ReferenceImage
	Result    []byte
	Failure   string
}

// NewState returns the idle state a fresh session starts from.
func NewState() State {
	return State{Phase: PhaseIdle}
}

// Refining reports whether the next cycle would refine an earlier result
// rather than start from scratch.
func (s State) Refining() bool {
	return len(s.Result) > 0
}

// begin moves the session into the generating phase. A cycle that is already
// running wins; the caller gets ErrGenerationInFlight.
func begin(s State, prompt string) (State, error) {
	if s.Phase == PhaseGenerating {
		return s, domain.ErrGenerationInFlight
	}
	s.Phase = PhaseGenerating
	s.Prompt = prompt
	s.Failure = ""
	return s, nil
}

// succeed lands the cycle's result, replacing any earlier one.
func succeed(s State, result []byte) (State, error) {
	if s.Phase != PhaseGenerating {
		return s, fmt.Errorf("studio: cannot complete a cycle from phase %s", s.Phase)
	}
	s.Phase = PhaseReady
	s.Result = result
	s.Failure = ""
	return s, nil
}

// fail records why the cycle ended. An earlier result is kept so a failed
// refinement does not throw away the last good thumbnail.
func fail(s State, message string) (State, error) {
	if s.Phase != PhaseGenerating {
		return s, fmt.Errorf("studio: cannot fail a cycle from phase %s", s.Phase)
	}
	s.Phase = PhaseFailed
	s.Failure = message
	return s, nil
}

// attachReference stores the normalized upload for upcoming cycles.
func attachReference(s State, ref domain.ReferenceImage) (State, error) {
	if s.Phase == PhaseGenerating {
		return s, domain.ErrGenerationInFlight
	}
	s.Reference = &ref
	return s, nil
}

// detachReference drops the stored upload.
func detachReference(s State) (State, error) {
	if s.Phase == PhaseGenerating {
		return s, domain.ErrGenerationInFlight
	}
	s.Reference = nil
	return s, nil
}

// reset returns the session to a blank slate.
func reset(s State) (State, error) {
	if s.Phase == PhaseGenerating {
		return s, domain.ErrGenerationInFlight
	}
	return NewState(), nil
}
