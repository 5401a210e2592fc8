package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
)

type modelEnhancePayload struct {
	Prompt string   `json:"prompt"`
	Ideas  []string `json:"ideas"`
}

func buildEnhanceInstruction(raw string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are a thumbnail art director for video creators. Rewrite the user's idea into one vivid image-generation prompt for a 16:9 thumbnail, then suggest three alternative angles. Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"prompt":string,"ideas":string[]}`)
	fmt.Fprintf(sb, ". Keep the rewritten prompt under 80 words and do not mention aspect ratios. User idea: %q.", raw)
	return sb.String()
}

func parseEnhancePayload(raw string) (modelEnhancePayload, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return modelEnhancePayload{}, errors.New("empty payload")
	}
	var decoded modelEnhancePayload
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return modelEnhancePayload{}, err
	}
	return decoded, nil
}

func normalizeIdeas(ideas []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, idea := range ideas {
		idea = strings.TrimSpace(idea)
		if idea == "" {
			continue
		}
		key := strings.ToLower(idea)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, idea)
	}
	return result
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
