package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mchlmayer/iathumb/internal/domain"
	"github.com/mchlmayer/iathumb/internal/infra"
)

const (
	// DefaultImageModel renders thumbnails from a prompt alone.
	DefaultImageModel = "imagen-4.0-generate-001"
	// DefaultEditModel renders thumbnails guided by reference frames.
	DefaultEditModel = "gemini-2.5-flash-image"

	outputMIMEType = "image/png"
	aspectRatio    = "16:9"

	// A cycle carries at most the prior result plus one uploaded reference.
	maxReferenceFrames = 2
)

// Options controls how the Gemini-backed client is configured.
type Options struct {
	APIKey     string
	ImageModel string
	EditModel  string
	Logger     *infra.Logger
}

// models is the slice of the genai SDK the client actually calls. Tests swap in
// a stub so no traffic leaves the process.
type models interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client talks to the Gemini API for both generation modes and folds every
// remote failure into the domain error taxonomy, so callers can map outcomes
// without knowing provider details.
type Client struct {
	api        models
	imageModel string
	editModel  string
	logger     *infra.Logger
}

var _ Generator = (*Client)(nil)

// NewClient dials the Gemini API. The API key is required; model names fall
// back to the package defaults.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("imagegen: api key is required")
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: create client: %w", err)
	}
	return newClient(sdk.Models, opts), nil
}

func newClient(api models, opts Options) *Client {
	c := &Client{
		api:        api,
		imageModel: opts.ImageModel,
		editModel:  opts.EditModel,
		logger:     opts.Logger,
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if c.editModel == "" {
		c.editModel = DefaultEditModel
	}
	if c.logger == nil {
		discard := zerolog.New(io.Discard)
		c.logger = &discard
	}
	return c
}

// GenerateFromText renders a single 16:9 PNG from the prompt alone.
func (c *Client) GenerateFromText(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", domain.ErrInvalidPrompt)
	}

	resp, err := c.api.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: outputMIMEType,
		AspectRatio:    aspectRatio,
	})
	if err != nil {
		return nil, c.classify(err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: no images in response", domain.ErrEmptyResult)
	}
	first := resp.GeneratedImages[0]
	if first == nil || first.Image == nil || len(first.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: first image has no payload", domain.ErrEmptyResult)
	}
	c.logger.Debug().
		Str("model", c.imageModel).
		Int("bytes", len(first.Image.ImageBytes)).
		Msg("imagegen: text-to-image done")
	return first.Image.ImageBytes, nil
}

// GenerateWithReferences renders a thumbnail guided by one or two reference
// frames. Frames are sent in order, ahead of the instruction text, so the model
// reads the instruction as applying to everything before it.
func (c *Client) GenerateWithReferences(ctx context.Context, prompt string, refs []domain.ReferenceImage) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", domain.ErrInvalidPrompt)
	}
	if len(refs) == 0 || len(refs) > maxReferenceFrames {
		return nil, fmt.Errorf("imagegen: expected 1 to %d reference frames, got %d", maxReferenceFrames, len(refs))
	}

	parts := make([]*genai.Part, 0, len(refs)+1)
	for _, ref := range refs {
		mime := ref.MIMEType
		if mime == "" {
			mime = outputMIMEType
		}
		parts = append(parts, genai.NewPartFromBytes(ref.Data, mime))
	}
	parts = append(parts, genai.NewPartFromText(BuildEditInstruction(prompt)))

	resp, err := c.api.GenerateContent(ctx, c.editModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspectRatio,
			},
			Temperature: floatPtr(0.45),
		})
	if err != nil {
		return nil, c.classify(err)
	}
	data, err := firstInlineImage(resp)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("model", c.editModel).
		Int("refs", len(refs)).
		Int("bytes", len(data)).
		Msg("imagegen: reference-guided generation done")
	return data, nil
}

// firstInlineImage pulls the first inline image out of the first candidate.
// Only the first candidate is consulted; the request asks for a single result.
func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: response has no candidates", domain.ErrEmptyResult)
	}
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("%w: finish reason %s", domain.ErrContentBlocked, candidate.FinishReason)
	}
	return nil, fmt.Errorf("%w: no image part in candidate", domain.ErrUnexpectedResponse)
}

// classify folds a transport failure into the domain taxonomy. Quota problems
// surface from the API as a 429 status or RESOURCE_EXHAUSTED marker in the
// error text.
func (c *Client) classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota") {
		c.logger.Warn().Err(err).Msg("imagegen: rate limited by provider")
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	}
	c.logger.Warn().Err(err).Msg("imagegen: generation failed")
	return fmt.Errorf("%w: %s", domain.ErrGenerationFailed, msg)
}

func floatPtr(f float32) *float32 { return &f }
