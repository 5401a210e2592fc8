package studio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mchlmayer/iathumb/internal/domain"
	"github.com/mchlmayer/iathumb/internal/imagegen"
	"github.com/mchlmayer/iathumb/internal/infra"
)

// Session serializes access to the studio state and runs generation cycles.
// The service keeps exactly one; its fields are the only state the service
// holds between requests.
type Session struct {
	mu    sync.Mutex
	state State

	generator imagegen.Generator
	logger    infra.Logger
}

// NewSession wires the generator behind a fresh idle session.
func NewSession(generator imagegen.Generator, logger infra.Logger) *Session {
	return &Session{
		state:     NewState(),
		generator: generator,
		logger:    logger,
	}
}

// Snapshot returns a copy of the current state. Byte slices are shared, not
// copied; callers must treat them as read-only.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AttachReference stores a normalized reference frame for upcoming cycles.
func (s *Session) AttachReference(ref domain.ReferenceImage) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := attachReference(s.state, ref)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return s.state, nil
}

// DetachReference drops the stored reference frame.
func (s *Session) DetachReference() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := detachReference(s.state)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return s.state, nil
}

// Reset clears the session back to a blank slate.
func (s *Session) Reset() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := reset(s.state)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return s.state, nil
}

// Generate runs one full cycle: pick the operation from the current state,
// call the generator without holding the lock, then settle into ready or
// failed. A second call while one is running fails fast with
// ErrGenerationInFlight.
func (s *Session) Generate(ctx context.Context, prompt string) (State, domain.Mode, error) {
	if strings.TrimSpace(prompt) == "" {
		return s.Snapshot(), domain.ModeTextOnly, fmt.Errorf("%w: prompt is empty", domain.ErrInvalidPrompt)
	}

	s.mu.Lock()
	req := domain.BuildGenerationRequest(prompt, s.state.Result, s.state.Reference)
	next, err := begin(s.state, prompt)
	if err != nil {
		cur := s.state
		s.mu.Unlock()
		return cur, req.Mode, err
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Info().
		Str("mode", string(req.Mode)).
		Int("references", len(req.References)).
		Msg("studio: generation cycle started")

	var (
		data   []byte
		genErr error
	)
	if req.Mode == domain.ModeWithReferences {
		data, genErr = s.generator.GenerateWithReferences(ctx, req.Prompt, req.References)
	} else {
		data, genErr = s.generator.GenerateFromText(ctx, req.Prompt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if genErr != nil {
		s.state, _ = fail(s.state, genErr.Error())
		s.logger.Warn().Err(genErr).Msg("studio: generation cycle failed")
		return s.state, req.Mode, genErr
	}
	s.state, _ = succeed(s.state, data)
	s.logger.Info().Int("bytes", len(data)).Msg("studio: generation cycle ready")
	return s.state, req.Mode, nil
}
