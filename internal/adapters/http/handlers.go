package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/core/usecases"
)

// requestLanguage returns the UI language asked for by the lang query
// parameter, else the first Accept-Language entry. Empty means default.
func requestLanguage(c *fiber.Ctx) string {
	if l := strings.TrimSpace(c.Query("lang")); l != "" {
		return l
	}
	header := c.Get(fiber.HeaderAcceptLanguage)
	if header == "" {
		return ""
	}
	if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
		base, _ := tags[0].Base()
		return base.String()
	}
	// "mm" is common in the wild but is not a registered subtag.
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}

// validID checks that s is a UUID.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// listOptions reads the shared list filters. A non-empty problem
// describes the first malformed filter.
func listOptions(c *fiber.Ctx) (opts usecases.ListOptions, problem string) {
	opts.Offset, opts.Limit = pageParams(c)
	opts.CityID = c.Query("city_id")
	if opts.CityID != "" && !validID(opts.CityID) {
		return opts, "city_id must be a UUID"
	}
	if cat := c.Query("category"); cat != "" {
		opts.Category = domain.CategoryKey(strings.ToLower(cat))
		if !opts.Category.Valid() {
			return opts, "unknown category " + cat
		}
	}
	return opts, ""
}

// ListCitiesHandler returns a page of cities.
func ListCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, problem := listOptions(c)
		if problem != "" {
			return errBadRequest(c, problem)
		}
		cities, total, err := deps.Directory.ListCities(c.UserContext(), opts)
		if err != nil {
			return serviceError(c, err, "cities not found")
		}
		lang := requestLanguage(c)
		for i := range cities {
			normalize.LocalizeCity(&cities[i], lang)
		}
		return paginated(c, cities, opts.Offset, opts.Limit, total)
	}
}

// GetCityHandler returns a single city by ID.
func GetCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return errBadRequest(c, "city id must be a UUID")
		}
		city, err := deps.Directory.GetCity(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "city not found")
		}
		normalize.LocalizeCity(city, requestLanguage(c))
		return c.JSON(city)
	}
}

// CityDetailsHandler returns the detail sections of a city.
func CityDetailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return cityDetails(c, deps, c.Params("id"))
	}
}

// LegacyCityDetailsHandler serves /v1/city-details?city_id=...
func LegacyCityDetailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cityID := c.Query("city_id")
		if cityID == "" {
			return errBadRequest(c, "city_id query parameter is required")
		}
		return cityDetails(c, deps, cityID)
	}
}

func cityDetails(c *fiber.Ctx, deps *Dependencies, cityID string) error {
	if !validID(cityID) {
		return errBadRequest(c, "city id must be a UUID")
	}
	details, err := deps.Directory.ListCityDetails(c.UserContext(), cityID)
	if err != nil {
		return serviceError(c, err, "city details not found")
	}
	lang := requestLanguage(c)
	for i := range details {
		normalize.LocalizeCityDetail(&details[i], lang)
	}
	return c.JSON(details)
}

// ListLocationsHandler returns a page of locations, filtered by city_id
// and category.
func ListLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, problem := listOptions(c)
		if problem != "" {
			return errBadRequest(c, problem)
		}
		locs, total, err := deps.Directory.ListLocations(c.UserContext(), opts)
		if err != nil {
			return serviceError(c, err, "locations not found")
		}
		lang := requestLanguage(c)
		for i := range locs {
			normalize.LocalizeLocation(&locs[i], lang)
		}
		return paginated(c, locs, opts.Offset, opts.Limit, total)
	}
}

// GetLocationHandler returns a single location by ID.
func GetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return errBadRequest(c, "location id must be a UUID")
		}
		loc, err := deps.Directory.GetLocation(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "location not found")
		}
		normalize.LocalizeLocation(loc, requestLanguage(c))
		return c.JSON(loc)
	}
}

// ListRoadsHandler returns a page of roads with their measured lengths.
func ListRoadsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, problem := listOptions(c)
		if problem != "" {
			return errBadRequest(c, problem)
		}
		roads, total, err := deps.Directory.ListRoads(c.UserContext(), opts)
		if err != nil {
			return serviceError(c, err, "roads not found")
		}
		lang := requestLanguage(c)
		for i := range roads {
			normalize.LocalizeRoad(&roads[i], lang)
		}
		return paginated(c, roads, opts.Offset, opts.Limit, total)
	}
}

// GetRoadHandler returns a single road by ID.
func GetRoadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return errBadRequest(c, "road id must be a UUID")
		}
		road, err := deps.Directory.GetRoad(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "road not found")
		}
		normalize.LocalizeRoad(road, requestLanguage(c))
		return c.JSON(road)
	}
}

// CategoriesHandler lists the category taxonomy with marker styles.
func CategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Catalog.Categories())
	}
}

// ClassifyHandler maps ?type=<raw tag> to its category.
func ClassifyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("type")
		if len(raw) > 100 {
			return errBadRequest(c, "type too long (max 100 characters)")
		}
		return c.JSON(deps.Catalog.Classify(raw))
	}
}

// MeasurePathHandler measures a path given as WKT, coordinates or an
// ordered list of location IDs.
func MeasurePathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.PathRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.LocationIDs) > 100 {
			return errBadRequest(c, "too many location_ids (max 100)")
		}
		for _, id := range req.LocationIDs {
			if !validID(id) {
				return errBadRequest(c, "location_ids must be UUIDs")
			}
		}
		if req.CityID != "" && !validID(req.CityID) {
			return errBadRequest(c, "city_id must be a UUID")
		}

		res, err := deps.Paths.Measure(c.UserContext(), req)
		if err != nil {
			return serviceError(c, err, "location not found")
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(res)
	}
}
