package imagegen

import (
	"context"

	"github.com/mchlmayer/iathumb/internal/domain"
)

// Generator is the surface the studio depends on. Implementations turn a
// prompt, optionally guided by reference frames, into encoded image bytes.
type Generator interface {
	GenerateFromText(ctx context.Context, prompt string) ([]byte, error)
	GenerateWithReferences(ctx context.Context, prompt string, refs []domain.ReferenceImage) ([]byte, error)
}
