// Package category maps free-text location and road type tags onto the
// closed set of domain.CategoryKey buckets.
package category

import (
	"strings"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// Bucket groups the raw tags that classify as Key.
type Bucket struct {
	Key  domain.CategoryKey `json:"key"`
	Tags []string           `json:"tags"`
}

// builtin is the declaration order used for tie breaking.
var builtin = []Bucket{
	{Key: domain.CategoryHealthcare, Tags: []string{
		"hospital", "clinic", "health_center", "health_centre", "rural_health_center",
		"pharmacy", "drugstore", "dentist", "doctor", "doctors", "maternity_home",
		"laboratory", "veterinary", "traditional_medicine",
	}},
	{Key: domain.CategoryEducation, Tags: []string{
		"school", "primary_school", "middle_school", "high_school", "university",
		"college", "kindergarten", "monastic_school", "library", "training_center",
		"tuition", "education",
	}},
	{Key: domain.CategoryReligious, Tags: []string{
		"pagoda", "stupa", "zedi", "monastery", "temple", "nunnery", "church",
		"mosque", "hindu_temple", "chinese_temple", "shrine", "place_of_worship",
		"religious",
	}},
	{Key: domain.CategoryTransportation, Tags: []string{
		"bus_stop", "bus_station", "bus_terminal", "jetty", "ferry_terminal",
		"port", "pier", "boat_landing", "railway_station", "train_station",
		"taxi_stand", "parking", "fuel", "gas_station", "bridge",
		"highway", "main_road", "primary", "secondary", "tertiary",
		"residential", "street", "road", "lane", "track", "path",
	}},
	{Key: domain.CategoryGovernment, Tags: []string{
		"government", "government_office", "township_office", "ward_office",
		"village_tract_office", "city_hall", "town_hall", "police", "police_station",
		"fire_station", "post_office", "court", "immigration_office",
		"electricity_office", "water_office",
	}},
	{Key: domain.CategoryFoodDrink, Tags: []string{
		"restaurant", "cafe", "tea_shop", "teashop", "coffee_shop", "bakery",
		"fast_food", "food_court", "bar", "beer_station", "noodle_shop",
		"food_stall", "juice_bar",
	}},
	{Key: domain.CategoryShopping, Tags: []string{
		"market", "wet_market", "night_market", "shop", "store", "mall",
		"shopping_center", "supermarket", "convenience_store", "grocery",
		"mobile_shop", "electronics", "clothing", "gold_shop", "bank", "atm",
	}},
	{Key: domain.CategoryRecreation, Tags: []string{
		"park", "garden", "playground", "lake", "river_bank", "viewpoint",
		"stadium", "sports_ground", "football_field", "gym", "swimming_pool",
		"cinema", "museum", "monument", "hotel", "guest_house", "motel",
		"tourist_attraction", "recreation",
	}},
}

// Taxonomy is an immutable tag index. The zero value classifies everything
// as other.
type Taxonomy struct {
	buckets []Bucket
	index   map[string]domain.CategoryKey
}

// New indexes buckets. Tags are lowercased and trimmed; a tag listed under
// more than one bucket keeps the first.
func New(buckets []Bucket) Taxonomy {
	t := Taxonomy{
		buckets: make([]Bucket, 0, len(buckets)),
		index:   make(map[string]domain.CategoryKey),
	}
	for _, b := range buckets {
		if !b.Key.Valid() || b.Key == domain.CategoryOther {
			continue
		}
		tags := make([]string, 0, len(b.Tags))
		for _, tag := range b.Tags {
			tag = normalize(tag)
			if tag == "" {
				continue
			}
			tags = append(tags, tag)
			if _, taken := t.index[tag]; !taken {
				t.index[tag] = b.Key
			}
		}
		t.buckets = append(t.buckets, Bucket{Key: b.Key, Tags: tags})
	}
	return t
}

// Classify returns the bucket for raw, or other when raw is empty or
// unknown.
func (t Taxonomy) Classify(raw string) domain.CategoryKey {
	if key, ok := t.index[normalize(raw)]; ok {
		return key
	}
	return domain.CategoryOther
}

// Extend returns a copy of t with extra tags appended to the named buckets.
// Built-in tags keep precedence. Unknown bucket names are ignored.
func (t Taxonomy) Extend(extra map[string][]string) Taxonomy {
	if len(extra) == 0 {
		return t
	}
	merged := make([]Bucket, len(t.buckets))
	for i, b := range t.buckets {
		tags := append([]string(nil), b.Tags...)
		tags = append(tags, extra[string(b.Key)]...)
		merged[i] = Bucket{Key: b.Key, Tags: tags}
	}
	return New(merged)
}

// Buckets returns the buckets in declaration order.
func (t Taxonomy) Buckets() []Bucket {
	out := make([]Bucket, len(t.buckets))
	for i, b := range t.buckets {
		out[i] = Bucket{Key: b.Key, Tags: append([]string(nil), b.Tags...)}
	}
	return out
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Default is the built-in taxonomy.
var Default = New(builtin)

// Classify classifies raw with the built-in taxonomy.
func Classify(raw string) domain.CategoryKey {
	return Default.Classify(raw)
}
