package tools

import (
	"strings"
)

// ReadString reads a string parameter, trimming surrounding space.
// Missing, nil or non-string values yield the empty string.
func ReadString(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// ReadBool reads a boolean parameter, tolerating the string and
// numeric spellings JSON round-trips produce.
func ReadBool(params map[string]any, key string, defaultVal bool) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		lower := strings.ToLower(strings.TrimSpace(b))
		if lower == "" {
			return defaultVal
		}
		return lower == "true" || lower == "1" || lower == "yes"
	case float64:
		return b != 0
	case int:
		return b != 0
	}
	return defaultVal
}
