package domain

import "errors"

var (
	// ErrNotFound is returned by record sources when an ID has no record.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput marks requests the services cannot act on.
	ErrInvalidInput = errors.New("invalid input")
)

// RawRecord is an upstream payload as decoded from JSON or a database row.
// Keys and value shapes vary between sources; unknown keys are ignored.
type RawRecord map[string]any

// RecordKind names the directory collections.
type RecordKind string

const (
	KindCity       RecordKind = "cities"
	KindLocation   RecordKind = "locations"
	KindRoad       RecordKind = "roads"
	KindCityDetail RecordKind = "city_details"
)

// City is a normalized city record.
type City struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id,omitempty"`
	Name        LocalizedText `json:"name"`
	Address     LocalizedText `json:"address"`
	Description LocalizedText `json:"description"`
	ImageURLs   []string      `json:"image_urls"`
	Point       *GeoPoint     `json:"point"`
	IsActive    *bool         `json:"is_active,omitempty"`
	Display     *Display      `json:"display,omitempty"`
}

// Location is a normalized point of interest.
type Location struct {
	ID           string        `json:"id"`
	CityID       string        `json:"city_id,omitempty"`
	UserID       string        `json:"user_id,omitempty"`
	Name         LocalizedText `json:"name"`
	Address      LocalizedText `json:"address"`
	Description  LocalizedText `json:"description"`
	ImageURLs    []string      `json:"image_urls"`
	LocationType string        `json:"location_type,omitempty"`
	Category     CategoryKey   `json:"category"`
	Point        *GeoPoint     `json:"point"`
	IsActive     *bool         `json:"is_active,omitempty"`
	Display      *Display      `json:"display,omitempty"`
}

// Road is a normalized road with its decoded line and lengths.
type Road struct {
	ID       string         `json:"id"`
	CityID   string         `json:"city_id,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	Name     LocalizedText  `json:"name"`
	RoadType string         `json:"road_type,omitempty"`
	Category CategoryKey    `json:"category"`
	IsOneway bool           `json:"is_oneway"`
	Path     GeoPath        `json:"path"`
	Bounds   *Bounds        `json:"bounds,omitempty"`
	Distance DistanceResult `json:"distance"`
	// StoredLength is the persisted length_m column, nil when absent. It is
	// never merged into Distance, which always describes Path.
	StoredLength *DistanceResult `json:"stored_length,omitempty"`
	IsActive     *bool           `json:"is_active,omitempty"`
	Display      *Display        `json:"display,omitempty"`
}

// CityDetail is an article-like section attached to a city.
type CityDetail struct {
	ID              string        `json:"id"`
	CityID          string        `json:"city_id,omitempty"`
	UserID          string        `json:"user_id,omitempty"`
	PredefinedTitle string        `json:"predefined_title,omitempty"`
	Subtitle        LocalizedText `json:"subtitle"`
	Body            LocalizedText `json:"body"`
	ImageURLs       []string      `json:"image_urls"`
	Display         *Display      `json:"display,omitempty"`
}

// Display holds strings rendered for one UI language.
type Display struct {
	Language    Language `json:"language"`
	Name        string   `json:"name,omitempty"`
	Address     string   `json:"address,omitempty"`
	Description string   `json:"description,omitempty"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Body        string   `json:"body,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// ChangeEvent announces that upstream records of a kind changed.
type ChangeEvent struct {
	Kind RecordKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}
