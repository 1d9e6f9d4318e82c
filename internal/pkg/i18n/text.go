package i18n

import (
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// clean trims s and returns its NFC form, or nil when nothing is left.
// Burmese text in particular arrives with mixed composed/decomposed marks.
func clean(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = norm.NFC.String(s)
	return &s
}

// scalar returns the cleaned text of v when v is a string.
func scalar(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return clean(s)
}

// looksLikeJSONObject reports whether s is plausibly an encoded object.
func looksLikeJSONObject(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}'
}

// asObject returns v as a decoded JSON object. Strings are parsed; parse
// failures and non-object values yield ok=false.
func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case string:
		if !looksLikeJSONObject(t) {
			return nil, false
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(t)), &obj); err != nil {
			return nil, false
		}
		return obj, obj != nil
	case []byte:
		return asObject(string(t))
	}
	return nil, false
}

// isMyanmarScript reports whether s contains any rune of the Myanmar block.
func isMyanmarScript(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Myanmar, r) {
			return true
		}
	}
	return false
}
