package llm

import "strings"

// ExtractJSONObject trims model output down to the span between the first
// '{' and the last '}'. Markdown fences and chatter around the object are dropped.
// Input without a brace pair is returned trimmed.
func ExtractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}
