package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ImageURLs normalizes an image list to trimmed, non-empty strings. Arrays
// are used as is, strings are tried as a JSON array and otherwise split on
// commas, and any other scalar becomes a single entry. The result is never
// nil.
func ImageURLs(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []string:
		for _, s := range t {
			out = appendTrimmed(out, s)
		}
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			out = appendTrimmed(out, fmt.Sprint(item))
		}
	case []byte:
		return ImageURLs(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return out
		}
		var arr []any
		if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &arr) == nil {
			return ImageURLs(arr)
		}
		for _, seg := range strings.Split(s, ",") {
			out = appendTrimmed(out, seg)
		}
	default:
		out = appendTrimmed(out, fmt.Sprint(t))
	}
	return out
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
