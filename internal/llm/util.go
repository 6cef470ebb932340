package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a model answer and trims
// anything after the first complete JSON object.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// optional language tag on the fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if obj := extractJSONObject(text); obj != "" {
		return obj
	}
	return text
}

// extractJSONObject returns the first balanced {...} at the start of s,
// skipping braces inside strings. It returns "" when s is not an object.
func extractJSONObject(s string) string {
	if !strings.HasPrefix(s, "{") {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inString:
			escaped = true
		case r == '"':
			inString = !inString
		case r == '{' && !inString:
			depth++
		case r == '}' && !inString:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
