package interpret

import (
	"encoding/json"
	"strings"
)

// StripFences removes markdown code fences the model may wrap its answer in.
func StripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```JSON", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// ExtractObject finds the first JSON object in raw model output. The greedy
// span from the first '{' to the last '}' is tried first; when it does not
// parse, every balanced candidate is tried in order of its opening brace.
func ExtractObject(raw string) (map[string]any, bool) {
	text := StripFences(raw)

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end <= start {
		return nil, false
	}

	if obj, ok := decodeObject(text[start : end+1]); ok {
		return obj, true
	}

	for i := start; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		closing, ok := matchBrace(text, i)
		if !ok {
			continue
		}
		if obj, ok := decodeObject(text[i : closing+1]); ok {
			return obj, true
		}
	}

	return nil, false
}

func decodeObject(candidate string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// matchBrace returns the index of the '}' closing the '{' at open. Braces
// inside JSON strings are ignored.
func matchBrace(text string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
