package domain

// Language is one of the two supported content languages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageBurmese Language = "mm"
)

// Other returns the other supported language.
func (l Language) Other() Language {
	if l == LanguageBurmese {
		return LanguageEnglish
	}
	return LanguageBurmese
}

// LocalizedText is a bilingual value. A nil field means no usable text was
// found in any encoding; it is never an empty string.
type LocalizedText struct {
	EN *string `json:"en"`
	MM *string `json:"mm"`
}

// Get returns the text for lang, or nil.
func (t LocalizedText) Get(lang Language) *string {
	if lang == LanguageBurmese {
		return t.MM
	}
	return t.EN
}

// IsEmpty reports whether neither language has text.
func (t LocalizedText) IsEmpty() bool {
	return t.EN == nil && t.MM == nil
}
