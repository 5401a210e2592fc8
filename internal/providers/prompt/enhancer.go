package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mchlmayer/iathumb/internal/domain"
)

// EnhanceRequest carries the raw prompt typed into the studio.
type EnhanceRequest struct {
	Prompt string
}

// EnhanceResponse is a richer prompt plus a few alternative angles the user
// can pick from.
type EnhanceResponse struct {
	Prompt   string   `json:"prompt"`
	Ideas    []string `json:"ideas,omitempty"`
	Provider string   `json:"-"`
}

// Enhancer rewrites thumbnail prompts into stronger ones.
type Enhancer interface {
	Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error)
}

// styleHints are appended to every statically enhanced prompt. They spell out
// the qualities that make a thumbnail readable at feed size.
var styleHints = []string{
	"bold high-contrast composition",
	"vivid saturated colors",
	"sharp focus on a single subject",
	"clean uncluttered background",
	"dramatic lighting",
}

// StaticEnhancer is the deterministic, offline enhancer. It also serves as the
// fallback when the model-backed enhancer cannot answer.
type StaticEnhancer struct{}

func NewStaticEnhancer() *StaticEnhancer {
	return &StaticEnhancer{}
}

func (s *StaticEnhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	subject := strings.TrimSpace(req.Prompt)
	if subject == "" {
		return nil, fmt.Errorf("%w: prompt is empty", domain.ErrInvalidPrompt)
	}
	titled := cases.Title(language.English).String(subject)
	res := &EnhanceResponse{
		Prompt:   fmt.Sprintf("%s, %s", subject, strings.Join(styleHints, ", ")),
		Provider: staticProviderName,
	}
	res.Ideas = []string{
		fmt.Sprintf("%s: Close-Up Reaction Shot", titled),
		fmt.Sprintf("%s, Before And After Split Frame", titled),
		fmt.Sprintf("The Truth About %s", titled),
	}
	return res, nil
}

var _ Enhancer = (*StaticEnhancer)(nil)
