package i18n

import (
	"strings"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// PreferredLanguage maps a UI language tag to the content language to show
// first. Tags starting with "mm" or "my" (my-MM, mm_MM) prefer Burmese;
// everything else, including "", prefers English.
func PreferredLanguage(active string) domain.Language {
	tag := strings.ToLower(strings.TrimSpace(active))
	if strings.HasPrefix(tag, "mm") || strings.HasPrefix(tag, "my") {
		return domain.LanguageBurmese
	}
	return domain.LanguageEnglish
}

// PickText returns the text to display for the active UI language: the
// preferred language, then the other language, then fallback. It never
// returns nil; an empty fallback yields "".
func PickText(active string, pair domain.LocalizedText, fallback string) string {
	lang := PreferredLanguage(active)
	if s := pair.Get(lang); s != nil && *s != "" {
		return *s
	}
	if s := pair.Get(lang.Other()); s != nil && *s != "" {
		return *s
	}
	return fallback
}
