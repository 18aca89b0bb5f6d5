// Package normalize extracts a flat reply string from an arbitrary backend
// response body. Shape matchers run in a fixed precedence order and each
// either yields text or declines; the final fallback serializes the whole
// body as a diagnostic string, so extraction never fails.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Extract returns the assistant reply text for a response body. The worst
// case for an unrecognized shape is the raw structured data rendered as
// text, never an error.
func Extract(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	data, ok := parse(trimmed)
	if !ok {
		// Not JSON at all; the body itself is the best reply we have.
		return trimmed
	}

	for _, match := range matchers {
		if text, ok := match(data); ok {
			return strings.TrimSpace(text)
		}
	}

	return diagnostic(data)
}

// parse decodes the body as JSON, attempting one repair pass for sloppy
// provider output (trailing commas, single quotes) before giving up.
func parse(body string) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err == nil {
		return data, true
	}

	repaired, err := jsonrepair.JSONRepair(body)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &data); err != nil {
		return nil, false
	}
	return data, true
}

type matcher func(map[string]any) (string, bool)

// matchers in precedence order: nested message.content, choices array, flat
// content (string or block list), flat response/text.
var matchers = []matcher{
	matchMessageContent,
	matchChoices,
	matchContent,
	matchFlatField("response"),
	matchFlatField("text"),
}

func matchMessageContent(data map[string]any) (string, bool) {
	msg, ok := data["message"].(map[string]any)
	if !ok {
		return "", false
	}
	if text, ok := msg["content"].(string); ok {
		return text, true
	}
	return "", false
}

func matchChoices(data map[string]any) (string, bool) {
	choices, ok := data["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	if msg, ok := choice["message"].(map[string]any); ok {
		if text, ok := msg["content"].(string); ok {
			return text, true
		}
	}
	if text, ok := choice["text"].(string); ok {
		return text, true
	}
	return "", false
}

func matchContent(data map[string]any) (string, bool) {
	value, ok := data["content"]
	if !ok {
		return "", false
	}
	switch typed := value.(type) {
	case string:
		return typed, true
	case []any:
		return blockText(typed), true
	default:
		return "", false
	}
}

func matchFlatField(field string) matcher {
	return func(data map[string]any) (string, bool) {
		if text, ok := data[field].(string); ok {
			return text, true
		}
		return "", false
	}
}

// blockText concatenates text from typed content blocks in traversal order,
// recursing into nested "content" lists (ADF-style documents).
func blockText(blocks []any) string {
	var b strings.Builder
	for _, raw := range blocks {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if block["type"] == "text" {
			if text, ok := block["text"].(string); ok {
				b.WriteString(text)
			}
		}
		if nested, ok := block["content"].([]any); ok {
			b.WriteString(blockText(nested))
		}
	}
	return b.String()
}

// diagnostic renders an unmatched body as indented JSON so the caller sees
// the structured data instead of an error.
func diagnostic(data map[string]any) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "(unparseable response body)"
	}
	return string(out)
}
