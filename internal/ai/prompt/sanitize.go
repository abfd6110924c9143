package prompt

import (
	"strings"
)

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")")

// sanitizeLine collapses whitespace and neutralises square brackets so user
// text cannot open a section of its own.
func sanitizeLine(value string) string {
	return bracketReplacer.Replace(strings.Join(strings.Fields(value), " "))
}

// sanitizeBlock keeps line structure but trims every line and drops blank ones.
func sanitizeBlock(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	lines := strings.Split(value, "\n")

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = sanitizeLine(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func truncateRunes(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit]))
}
