// Package normalize turns permissive upstream records into the canonical
// domain types. Every field is decoded independently: a record with broken
// geometry still keeps its text, and the reverse.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/i18n"
)

// CandidatesFor collects every upstream spelling of a bilingual field.
func CandidatesFor(rec domain.RawRecord, field string) i18n.FieldCandidates {
	var c i18n.FieldCandidates

	if v, ok := rec[field+"_json"]; ok && v != nil {
		c.JSON = append(c.JSON, v)
	}
	flat := rec[field]
	switch t := flat.(type) {
	case map[string]any:
		c.JSON = append(c.JSON, t)
	case []byte:
		c.JSON = append(c.JSON, string(t))
	case string:
		if strings.HasPrefix(strings.TrimSpace(t), "{") {
			c.JSON = append(c.JSON, t)
		}
	}

	c.EN = values(rec, field+"_en")
	c.MM = values(rec, field+"_mm", field+"_my", field+"_mm_MM")
	c.AltEN = values(rec, "english_"+field)
	c.AltMM = values(rec, "burmese_"+field)
	c.Flat = flat
	return c
}

// Text resolves one bilingual field of rec.
func Text(rec domain.RawRecord, field string) domain.LocalizedText {
	return i18n.Resolve(CandidatesFor(rec, field))
}

func values(rec domain.RawRecord, keys ...string) []any {
	var out []any
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}

// str returns the trimmed string form of the first non-empty key.
func str(rec domain.RawRecord, keys ...string) string {
	for _, k := range keys {
		switch v := rec[k].(type) {
		case nil:
			continue
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []byte:
			if s := strings.TrimSpace(string(v)); s != "" {
				return s
			}
		case fmt.Stringer:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// boolean accepts booleans and the usual string spellings.
func boolean(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on", "t":
			return true, true
		case "false", "0", "no", "off", "f":
			return false, true
		}
	case float64:
		return t != 0, true
	case int, int32, int64:
		return fmt.Sprint(t) != "0", true
	}
	return false, false
}

func optionalBool(v any) *bool {
	b, ok := boolean(v)
	if !ok {
		return nil
	}
	return &b
}

// number converts JSON numbers, database numerics and numeric strings.
func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
