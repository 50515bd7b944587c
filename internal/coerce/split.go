package coerce

import "strings"

// splitTop splits text on sep, ignoring separators that appear inside a
// double-quoted string or inside {...} / [...] groups. Every part is trimmed.
// Blank text yields no parts.
func splitTop(text string, sep byte) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		parts   []string
		depth   int
		quoted  bool
		escaped bool
		start   int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(text[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(text[start:]))
}
