// Package i18n turns heterogeneously encoded bilingual values into
// domain.LocalizedText and picks display strings from them.
package i18n

import (
	"sort"
	"strings"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// Keys probed inside JSON objects, in priority order. Matching ignores case.
var (
	englishKeys = []string{"en", "english"}
	burmeseKeys = []string{"mm", "my", "burmese", "mm_mm", "myanmar"}
)

// FieldCandidates lists every shape one logical value (a name, an address)
// may arrive in. Each slice is in priority order.
type FieldCandidates struct {
	// JSON holds encoded objects: JSON strings or already decoded maps.
	JSON []any
	// EN and MM hold explicit per-language scalars such as name_en, name_mm.
	EN []any
	MM []any
	// AltEN and AltMM hold alternate spellings such as english_name.
	AltEN []any
	AltMM []any
	// Flat is the unsuffixed value. It is language-neutral.
	Flat any
}

// Resolve produces the canonical bilingual pair. For each language the first
// rule that yields text wins:
//
//  1. JSON candidates, probed for the language's keys
//  2. the explicit suffixed scalar
//  3. the alternate-spelling scalar
//  4. the flat value (and JSON candidates that did not parse)
//
// The flat value fills Burmese when written in Myanmar script and English
// otherwise. This differs from the legacy REST API, which stored every bare
// string under "en": a Myanmar-script address that API reported as
// address_en is resolved here as MM, leaving EN nil. Resolve has no side
// effects.
func Resolve(c FieldCandidates) domain.LocalizedText {
	var en, mm *string
	var loose []any

	for _, cand := range c.JSON {
		obj, ok := asObject(cand)
		if !ok {
			if _, isString := cand.(string); isString {
				loose = append(loose, cand)
			}
			continue
		}
		if en == nil {
			en = probe(obj, englishKeys)
		}
		if mm == nil {
			mm = probe(obj, burmeseKeys)
		}
	}

	if en == nil {
		en = first(c.EN)
	}
	if mm == nil {
		mm = first(c.MM)
	}
	if en == nil {
		en = first(c.AltEN)
	}
	if mm == nil {
		mm = first(c.AltMM)
	}

	if en == nil || mm == nil {
		neutral := make([]any, 0, 1+len(loose))
		if _, isObject := asObject(c.Flat); !isObject {
			neutral = append(neutral, c.Flat)
		}
		neutral = append(neutral, loose...)
		for _, v := range neutral {
			s := scalar(v)
			if s == nil {
				continue
			}
			if isMyanmarScript(*s) {
				if mm == nil {
					mm = s
				}
			} else if en == nil {
				en = s
			}
		}
	}

	return domain.LocalizedText{EN: en, MM: mm}
}

func first(values []any) *string {
	for _, v := range values {
		if s := scalar(v); s != nil {
			return s
		}
	}
	return nil
}

// probe looks keys up in obj. Exact keys win over case variants, and case
// variants are visited in sorted order so the result never depends on map
// iteration.
func probe(obj map[string]any, keys []string) *string {
	var names []string
	for _, key := range keys {
		if s := scalar(obj[key]); s != nil {
			return s
		}
		if names == nil {
			names = make([]string, 0, len(obj))
			for k := range obj {
				names = append(names, k)
			}
			sort.Strings(names)
		}
		for _, k := range names {
			if k != key && strings.EqualFold(k, key) {
				if s := scalar(obj[k]); s != nil {
					return s
				}
			}
		}
	}
	return nil
}
