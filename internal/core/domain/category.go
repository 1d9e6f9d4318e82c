package domain

// CategoryKey is the semantic bucket a location or road type belongs to.
type CategoryKey string

const (
	CategoryHealthcare     CategoryKey = "healthcare"
	CategoryEducation      CategoryKey = "education"
	CategoryReligious      CategoryKey = "religious"
	CategoryTransportation CategoryKey = "transportation"
	CategoryGovernment     CategoryKey = "government"
	CategoryFoodDrink      CategoryKey = "food_drink"
	CategoryShopping       CategoryKey = "shopping"
	CategoryRecreation     CategoryKey = "recreation"
	CategoryOther          CategoryKey = "other"
)

// CategoryKeys lists every key in display order, "other" last.
var CategoryKeys = []CategoryKey{
	CategoryHealthcare,
	CategoryEducation,
	CategoryReligious,
	CategoryTransportation,
	CategoryGovernment,
	CategoryFoodDrink,
	CategoryShopping,
	CategoryRecreation,
	CategoryOther,
}

// CategoryStyle describes how map layers draw a category.
type CategoryStyle struct {
	LabelEN string `json:"label_en"`
	LabelMM string `json:"label_mm"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
}

// CategoryStyles maps every key to its marker style.
var CategoryStyles = map[CategoryKey]CategoryStyle{
	CategoryHealthcare:     {LabelEN: "Healthcare", LabelMM: "ကျန်းမာရေး", Color: "#e53935", Icon: "hospital"},
	CategoryEducation:      {LabelEN: "Education", LabelMM: "ပညာရေး", Color: "#1e88e5", Icon: "school"},
	CategoryReligious:      {LabelEN: "Religious", LabelMM: "ဘာသာရေး", Color: "#fbc02d", Icon: "pagoda"},
	CategoryTransportation: {LabelEN: "Transportation", LabelMM: "သယ်ယူပို့ဆောင်ရေး", Color: "#6d4c41", Icon: "bus"},
	CategoryGovernment:     {LabelEN: "Government", LabelMM: "အစိုးရ", Color: "#3949ab", Icon: "building"},
	CategoryFoodDrink:      {LabelEN: "Food & Drink", LabelMM: "အစားအသောက်", Color: "#fb8c00", Icon: "restaurant"},
	CategoryShopping:       {LabelEN: "Shopping", LabelMM: "ဈေးဝယ်", Color: "#8e24aa", Icon: "shop"},
	CategoryRecreation:     {LabelEN: "Recreation", LabelMM: "အပန်းဖြေ", Color: "#43a047", Icon: "park"},
	CategoryOther:          {LabelEN: "Other", LabelMM: "အခြား", Color: "#757575", Icon: "marker"},
}

// Style returns the style for k, falling back to the "other" style.
func (k CategoryKey) Style() CategoryStyle {
	if s, ok := CategoryStyles[k]; ok {
		return s
	}
	return CategoryStyles[CategoryOther]
}

// Valid reports whether k is one of the closed set of keys.
func (k CategoryKey) Valid() bool {
	_, ok := CategoryStyles[k]
	return ok
}
