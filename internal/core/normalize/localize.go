package normalize

import (
	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/i18n"
)

// categoryLabel renders the category label in the requested language.
func categoryLabel(lang domain.Language, key domain.CategoryKey) string {
	style := key.Style()
	if lang == domain.LanguageBurmese {
		return style.LabelMM
	}
	return style.LabelEN
}

// LocalizeCity fills c.Display for the UI language active.
func LocalizeCity(c *domain.City, active string) {
	c.Display = &domain.Display{
		Language:    i18n.PreferredLanguage(active),
		Name:        i18n.PickText(active, c.Name, c.ID),
		Address:     i18n.PickText(active, c.Address, ""),
		Description: i18n.PickText(active, c.Description, ""),
	}
}

// LocalizeLocation fills l.Display. Unnamed locations fall back to their
// raw type tag.
func LocalizeLocation(l *domain.Location, active string) {
	lang := i18n.PreferredLanguage(active)
	fallback := l.LocationType
	if fallback == "" {
		fallback = l.ID
	}
	l.Display = &domain.Display{
		Language:    lang,
		Name:        i18n.PickText(active, l.Name, fallback),
		Address:     i18n.PickText(active, l.Address, ""),
		Description: i18n.PickText(active, l.Description, ""),
		Category:    categoryLabel(lang, l.Category),
	}
}

// LocalizeRoad fills r.Display.
func LocalizeRoad(r *domain.Road, active string) {
	lang := i18n.PreferredLanguage(active)
	fallback := r.RoadType
	if fallback == "" {
		fallback = r.ID
	}
	r.Display = &domain.Display{
		Language: lang,
		Name:     i18n.PickText(active, r.Name, fallback),
		Category: categoryLabel(lang, r.Category),
	}
}

// LocalizeCityDetail fills d.Display. The predefined title stands in for a
// missing subtitle.
func LocalizeCityDetail(d *domain.CityDetail, active string) {
	d.Display = &domain.Display{
		Language: i18n.PreferredLanguage(active),
		Subtitle: i18n.PickText(active, d.Subtitle, d.PredefinedTitle),
		Body:     i18n.PickText(active, d.Body, ""),
	}
}
