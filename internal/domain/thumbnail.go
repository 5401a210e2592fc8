package domain

// Mode selects which remote operation a generation cycle uses.
type Mode string

const (
	// ModeTextOnly renders a thumbnail from the prompt alone.
	ModeTextOnly Mode = "text_only"
	// ModeWithReferences renders a thumbnail guided by one or more reference frames.
	ModeWithReferences Mode = "with_references"
)

// ReferenceImage is a decoded-and-normalized image handed to the generator as
// guidance. Data is the full encoded payload; MIMEType matches the encoding.
type ReferenceImage struct {
	Data     []byte
	MIMEType string
}

// GenerationRequest captures everything one generation cycle needs. References
// keeps insertion order: when a prior result participates it is always first,
// ahead of any user-supplied reference.
type GenerationRequest struct {
	Prompt     string
	Mode       Mode
	References []ReferenceImage
}

// BuildGenerationRequest assembles the request for a generation cycle from the
// session's current state. A prior result means the user is refining an earlier
// thumbnail; it joins the references before the user's own image so the model
// treats it as the frame being edited. Generated output is always PNG, so the
// prior result carries that MIME type.
func BuildGenerationRequest(prompt string, prior []byte, reference *ReferenceImage) GenerationRequest {
	req := GenerationRequest{Prompt: prompt, Mode: ModeTextOnly}
	if len(prior) > 0 {
		req.References = append(req.References, ReferenceImage{Data: prior, MIMEType: "image/png"})
	}
	if reference != nil && len(reference.Data) > 0 {
		req.References = append(req.References, *reference)
	}
	if len(req.References) > 0 {
		req.Mode = ModeWithReferences
	}
	return req
}
