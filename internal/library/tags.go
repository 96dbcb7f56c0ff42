package library

import "strings"

// ParseTags splits comma-separated input into trimmed, non-empty tags.
// Order is preserved and duplicates are kept as typed.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// RenderTags formats tags for an editable text field.
func RenderTags(tags []string) string {
	return strings.Join(tags, ", ")
}
