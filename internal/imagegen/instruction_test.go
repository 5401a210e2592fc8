package imagegen

import (
	"strings"
	"testing"
)

func TestBuildEditInstruction(t *testing.T) {
	got := BuildEditInstruction("  make the fox jump over a neon city  ")

	checks := []string{
		"16:9",
		"1280x720",
		"no letterboxing",
		"make the fox jump over a neon city",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q: %s", expect, got)
		}
	}
}

func TestBuildEditInstructionPutsDirectiveFirst(t *testing.T) {
	got := BuildEditInstruction("sunset over the bay")

	directive := strings.Index(got, "16:9")
	request := strings.Index(got, "sunset over the bay")
	if directive == -1 || request == -1 || directive > request {
		t.Fatalf("aspect directive must precede the user request: %s", got)
	}
}
