package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse means no JSON document could be recovered from a model
// response. Terminal for the generation step that produced it.
var ErrMalformedResponse = errors.New("malformed model response")

// Extract parses the JSON document embedded in a model response. Responses
// arrive as plain JSON, JSON inside a fenced code block (with or without a
// language tag), or JSON with prose around it; all three yield the same value.
func Extract(text string) (any, error) {
	cleaned := stripFences(text)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err == nil {
		return v, nil
	}

	// Some model responses prefix commentary before the JSON. Re-attempt from
	// the first opening brace or bracket through the matching end.
	if candidate, ok := sliceDocument(cleaned); ok {
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, snippet(text))
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// sliceDocument cuts text down to the outermost {...} or [...] span.
func sliceDocument(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}

	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 200 {
		return text[:200] + "..."
	}
	return text
}
