package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultEnhanceModel = "gemini-2.5-flash"

// GeminiOptions configures the model-backed enhancer.
type GeminiOptions struct {
	APIKey string
	Model  string
	// Fallback answers when the model cannot; defaults to the static enhancer.
	Fallback Enhancer
	// OnFallback is invoked with the reason before the fallback answers.
	OnFallback func(reason string, err error)
}

// textModels is the slice of the genai SDK the enhancer calls.
type textModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEnhancer asks a text model to rewrite the prompt. Every failure path
// falls back, so the studio's enhance action keeps working through provider
// trouble.
type GeminiEnhancer struct {
	api        textModels
	model      string
	fallback   Enhancer
	onFallback func(reason string, err error)
}

// NewGeminiEnhancer dials the Gemini API. The API key is required.
func NewGeminiEnhancer(ctx context.Context, opts GeminiOptions) (*GeminiEnhancer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("prompt: gemini api key is required")
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("prompt: create client: %w", err)
	}
	return newGeminiEnhancer(sdk.Models, opts), nil
}

func newGeminiEnhancer(api textModels, opts GeminiOptions) *GeminiEnhancer {
	g := &GeminiEnhancer{
		api:        api,
		model:      strings.TrimSpace(opts.Model),
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}
	if g.model == "" {
		g.model = defaultEnhanceModel
	}
	if g.fallback == nil {
		g.fallback = NewStaticEnhancer()
	}
	return g
}

func (g *GeminiEnhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResponse, error) {
	subject := strings.TrimSpace(req.Prompt)
	if subject == "" {
		return g.fallback.Enhance(ctx, req)
	}

	resp, err := g.api.GenerateContent(ctx, g.model,
		genai.Text(buildEnhanceInstruction(subject)),
		&genai.GenerateContentConfig{
			CandidateCount:   1,
			Temperature:      floatPtr(0.5),
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return g.useFallback(ctx, req, "request", err)
	}
	text := responseText(resp)
	if text == "" {
		return g.useFallback(ctx, req, "empty response", nil)
	}
	parsed, err := parseEnhancePayload(text)
	if err != nil {
		return g.useFallback(ctx, req, "parse", err)
	}

	return &EnhanceResponse{
		Prompt:   coalesce(parsed.Prompt, subject),
		Ideas:    normalizeIdeas(parsed.Ideas),
		Provider: geminiProviderName,
	}, nil
}

func (g *GeminiEnhancer) useFallback(ctx context.Context, req EnhanceRequest, reason string, err error) (*EnhanceResponse, error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
	return g.fallback.Enhance(ctx, req)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	sb := &strings.Builder{}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func floatPtr(f float32) *float32 { return &f }

var _ Enhancer = (*GeminiEnhancer)(nil)
