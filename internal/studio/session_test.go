package studio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mchlmayer/iathumb/internal/domain"
)

type stubGenerator struct {
	mu         sync.Mutex
	textCalls  int
	refCalls   int
	lastPrompt string
	lastRefs   []domain.ReferenceImage

	result []byte
	err    error
	block  chan struct{}
}

func (g *stubGenerator) GenerateFromText(_ context.Context, prompt string) ([]byte, error) {
	g.mu.Lock()
	g.textCalls++
	g.lastPrompt = prompt
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return g.result, g.err
}

func (g *stubGenerator) GenerateWithReferences(_ context.Context, prompt string, refs []domain.ReferenceImage) ([]byte, error) {
	g.mu.Lock()
	g.refCalls++
	g.lastPrompt = prompt
	g.lastRefs = refs
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return g.result, g.err
}

func newTestSession(gen *stubGenerator) *Session {
	return NewSession(gen, zerolog.Nop())
}

func waitForPhase(t *testing.T, s *Session, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Snapshot().Phase == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached phase %s", want)
}

func TestGenerateTextOnlyOnFreshSession(t *testing.T) {
	gen := &stubGenerator{result: []byte("png bytes")}
	s := newTestSession(gen)

	state, mode, err := s.Generate(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mode != domain.ModeTextOnly {
		t.Fatalf("mode = %q, want %q", mode, domain.ModeTextOnly)
	}
	if gen.textCalls != 1 || gen.refCalls != 0 {
		t.Fatalf("calls: text=%d refs=%d", gen.textCalls, gen.refCalls)
	}
	if state.Phase != PhaseReady || string(state.Result) != "png bytes" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestGenerateUsesAttachedReference(t *testing.T) {
	gen := &stubGenerator{result: []byte("out")}
	s := newTestSession(gen)

	ref := domain.ReferenceImage{Data: []byte("frame"), MIMEType: "image/jpeg"}
	if _, err := s.AttachReference(ref); err != nil {
		t.Fatalf("AttachReference: %v", err)
	}

	_, mode, err := s.Generate(context.Background(), "use my photo")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mode != domain.ModeWithReferences {
		t.Fatalf("mode = %q, want %q", mode, domain.ModeWithReferences)
	}
	if gen.refCalls != 1 || len(gen.lastRefs) != 1 {
		t.Fatalf("refCalls = %d lastRefs = %d", gen.refCalls, len(gen.lastRefs))
	}
	if gen.lastRefs[0].MIMEType != "image/jpeg" {
		t.Fatalf("reference MIME lost: %+v", gen.lastRefs[0])
	}
}

func TestGenerateRefinesPriorResultFirst(t *testing.T) {
	gen := &stubGenerator{result: []byte("first")}
	s := newTestSession(gen)

	if _, _, err := s.Generate(context.Background(), "initial"); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	ref := domain.ReferenceImage{Data: []byte("uploaded"), MIMEType: "image/png"}
	if _, err := s.AttachReference(ref); err != nil {
		t.Fatalf("AttachReference: %v", err)
	}

	gen.result = []byte("second")
	_, mode, err := s.Generate(context.Background(), "make it moodier")
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if mode != domain.ModeWithReferences {
		t.Fatalf("mode = %q, want %q", mode, domain.ModeWithReferences)
	}
	if len(gen.lastRefs) != 2 {
		t.Fatalf("len(lastRefs) = %d, want 2", len(gen.lastRefs))
	}
	if string(gen.lastRefs[0].Data) != "first" {
		t.Fatalf("prior result must be the first reference, got %q", gen.lastRefs[0].Data)
	}
	if string(gen.lastRefs[1].Data) != "uploaded" {
		t.Fatalf("upload must follow the prior result, got %q", gen.lastRefs[1].Data)
	}
	if string(s.Snapshot().Result) != "second" {
		t.Fatalf("result not replaced")
	}
}

func TestGenerateSingleFlight(t *testing.T) {
	block := make(chan struct{})
	gen := &stubGenerator{result: []byte("png"), block: block}
	s := newTestSession(gen)

	done := make(chan error, 1)
	go func() {
		_, _, err := s.Generate(context.Background(), "first")
		done <- err
	}()

	waitForPhase(t, s, PhaseGenerating)

	if _, _, err := s.Generate(context.Background(), "second"); !errors.Is(err, domain.ErrGenerationInFlight) {
		t.Fatalf("err = %v, want ErrGenerationInFlight", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	got := s.Snapshot()
	if got.Phase != PhaseReady || string(got.Result) != "png" {
		t.Fatalf("unexpected final state: %+v", got)
	}
	if gen.textCalls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.textCalls)
	}
}

func TestGenerateFailureKeepsPriorResult(t *testing.T) {
	gen := &stubGenerator{result: []byte("keeper")}
	s := newTestSession(gen)

	if _, _, err := s.Generate(context.Background(), "initial"); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	gen.err = errors.New("provider exploded")
	state, _, err := s.Generate(context.Background(), "refine")
	if err == nil {
		t.Fatal("expected generation error")
	}
	if state.Phase != PhaseFailed {
		t.Fatalf("Phase = %q, want %q", state.Phase, PhaseFailed)
	}
	if string(state.Result) != "keeper" {
		t.Fatalf("prior result lost on failure")
	}

	// The next cycle still refines from the kept result.
	gen.err = nil
	gen.result = []byte("recovered")
	_, mode, err := s.Generate(context.Background(), "try again")
	if err != nil {
		t.Fatalf("retry Generate: %v", err)
	}
	if mode != domain.ModeWithReferences {
		t.Fatalf("mode = %q, want refinement", mode)
	}
	if string(gen.lastRefs[0].Data) != "keeper" {
		t.Fatalf("retry did not refine the kept result")
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	gen := &stubGenerator{result: []byte("x")}
	s := newTestSession(gen)

	state, _, err := s.Generate(context.Background(), "   ")
	if !errors.Is(err, domain.ErrInvalidPrompt) {
		t.Fatalf("err = %v, want ErrInvalidPrompt", err)
	}
	if state.Phase != PhaseIdle {
		t.Fatalf("Phase = %q, state must not move", state.Phase)
	}
	if gen.textCalls != 0 && gen.refCalls != 0 {
		t.Fatal("generator must not be called for an empty prompt")
	}
}

func TestResetClearsEverything(t *testing.T) {
	gen := &stubGenerator{result: []byte("x")}
	s := newTestSession(gen)

	if _, err := s.AttachReference(domain.ReferenceImage{Data: []byte("r"), MIMEType: "image/png"}); err != nil {
		t.Fatalf("AttachReference: %v", err)
	}
	if _, _, err := s.Generate(context.Background(), "p"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	state, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if state.Phase != PhaseIdle || state.Reference != nil || state.Result != nil {
		t.Fatalf("reset left residue: %+v", state)
	}

	// A fresh cycle after reset is text-only again.
	_, mode, err := s.Generate(context.Background(), "fresh start")
	if err != nil {
		t.Fatalf("Generate after reset: %v", err)
	}
	if mode != domain.ModeTextOnly {
		t.Fatalf("mode = %q, want %q", mode, domain.ModeTextOnly)
	}
}

func TestDetachReferenceRestoresTextOnly(t *testing.T) {
	gen := &stubGenerator{result: []byte("x")}
	s := newTestSession(gen)

	if _, err := s.AttachReference(domain.ReferenceImage{Data: []byte("r"), MIMEType: "image/png"}); err != nil {
		t.Fatalf("AttachReference: %v", err)
	}
	if _, err := s.DetachReference(); err != nil {
		t.Fatalf("DetachReference: %v", err)
	}

	_, mode, err := s.Generate(context.Background(), "no reference now")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mode != domain.ModeTextOnly {
		t.Fatalf("mode = %q, want %q", mode, domain.ModeTextOnly)
	}
}
