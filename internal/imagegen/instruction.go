package imagegen

import "strings"

// aspectDirective is prepended to every reference-guided prompt. The edit model
// tends to mirror the aspect ratio of its input frames even when the request
// carries an aspect-ratio hint, so the instruction restates the target
// geometry.
const aspectDirective = "Create a 16:9 landscape thumbnail image (1280x720). " +
	"The output image MUST be 16:9. Ignore the aspect ratios of the supplied " +
	"reference images entirely and recompose their content to fill the full " +
	"16:9 frame with no letterboxing, padding, or borders."

// BuildEditInstruction rewrites a user prompt into the text part that
// accompanies reference frames.
func BuildEditInstruction(prompt string) string {
	return aspectDirective + "\n\nRequest: " + strings.TrimSpace(prompt)
}
