package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/core/usecases"
)

// buildSchema creates the GraphQL schema over the directory services.
// Struct fields resolve through their json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	localizedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LocalizedText",
		Fields: graphql.Fields{
			"en": &graphql.Field{Type: graphql.String},
			"mm": &graphql.Field{Type: graphql.String},
		},
	})

	displayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Display",
		Fields: graphql.Fields{
			"language":    &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"address":     &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"subtitle":    &graphql.Field{Type: graphql.String},
			"body":        &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
		},
	})

	distanceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Distance",
		Fields: graphql.Fields{
			"segments": &graphql.Field{Type: graphql.NewList(graphql.Float)},
			"total":    &graphql.Field{Type: graphql.Float},
		},
	})

	styleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CategoryStyle",
		Fields: graphql.Fields{
			"label_en": &graphql.Field{Type: graphql.String},
			"label_mm": &graphql.Field{Type: graphql.String},
			"color":    &graphql.Field{Type: graphql.String},
			"icon":     &graphql.Field{Type: graphql.String},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"key":   &graphql.Field{Type: graphql.String},
			"style": &graphql.Field{Type: styleType},
			"tags":  &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: localizedType},
			"address":     &graphql.Field{Type: localizedType},
			"description": &graphql.Field{Type: localizedType},
			"image_urls":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"point":       &graphql.Field{Type: geoPointType},
			"display":     &graphql.Field{Type: displayType},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"city_id":       &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: localizedType},
			"address":       &graphql.Field{Type: localizedType},
			"description":   &graphql.Field{Type: localizedType},
			"image_urls":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"location_type": &graphql.Field{Type: graphql.String},
			"category":      &graphql.Field{Type: graphql.String},
			"point":         &graphql.Field{Type: geoPointType},
			"display":       &graphql.Field{Type: displayType},
		},
	})

	roadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Road",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"city_id":   &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: localizedType},
			"road_type": &graphql.Field{Type: graphql.String},
			"category":  &graphql.Field{Type: graphql.String},
			"is_oneway": &graphql.Field{Type: graphql.Boolean},
			"path":      &graphql.Field{Type: graphql.NewList(geoPointType)},
			"distance":  &graphql.Field{Type: distanceType},
			"stored_length": &graphql.Field{
				Type:        distanceType,
				Description: "Persisted lengths, independent of path",
			},
			"display": &graphql.Field{Type: displayType},
		},
	})

	cityDetailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CityDetail",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"city_id":          &graphql.Field{Type: graphql.String},
			"predefined_title": &graphql.Field{Type: graphql.String},
			"subtitle":         &graphql.Field{Type: localizedType},
			"body":             &graphql.Field{Type: localizedType},
			"image_urls":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"display":          &graphql.Field{Type: displayType},
		},
	})

	pathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MeasuredPath",
		Fields: graphql.Fields{
			"path":     &graphql.Field{Type: graphql.NewList(geoPointType)},
			"distance": &graphql.Field{Type: distanceType},
			"wkt":      &graphql.Field{Type: graphql.String},
		},
	})

	langArg := &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""}
	pageArgs := graphql.FieldConfigArgument{
		"city_id":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultLimit},
		"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		"lang":     langArg,
	}
	idArgs := graphql.FieldConfigArgument{
		"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"lang": langArg,
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"cities": &graphql.Field{
				Type:        graphql.NewList(cityType),
				Description: "List cities",
				Args:        pageArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					cities, _, err := deps.Directory.ListCities(p.Context, gqlListOptions(p.Args))
					if err != nil {
						return nil, err
					}
					for i := range cities {
						normalize.LocalizeCity(&cities[i], p.Args["lang"].(string))
					}
					return cities, nil
				},
			},
			"city": &graphql.Field{
				Type:        cityType,
				Description: "Get a city by ID",
				Args:        idArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					city, err := deps.Directory.GetCity(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					normalize.LocalizeCity(city, p.Args["lang"].(string))
					return city, nil
				},
			},
			"cityDetails": &graphql.Field{
				Type:        graphql.NewList(cityDetailType),
				Description: "Detail sections of a city",
				Args: graphql.FieldConfigArgument{
					"city_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lang":    langArg,
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					details, err := deps.Directory.ListCityDetails(p.Context, p.Args["city_id"].(string))
					if err != nil {
						return nil, err
					}
					for i := range details {
						normalize.LocalizeCityDetail(&details[i], p.Args["lang"].(string))
					}
					return details, nil
				},
			},
			"locations": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "List locations, optionally by city and category",
				Args:        pageArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					locs, _, err := deps.Directory.ListLocations(p.Context, gqlListOptions(p.Args))
					if err != nil {
						return nil, err
					}
					for i := range locs {
						normalize.LocalizeLocation(&locs[i], p.Args["lang"].(string))
					}
					return locs, nil
				},
			},
			"location": &graphql.Field{
				Type:        locationType,
				Description: "Get a location by ID",
				Args:        idArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					loc, err := deps.Directory.GetLocation(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					normalize.LocalizeLocation(loc, p.Args["lang"].(string))
					return loc, nil
				},
			},
			"roads": &graphql.Field{
				Type:        graphql.NewList(roadType),
				Description: "List roads with measured lengths",
				Args:        pageArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					roads, _, err := deps.Directory.ListRoads(p.Context, gqlListOptions(p.Args))
					if err != nil {
						return nil, err
					}
					for i := range roads {
						normalize.LocalizeRoad(&roads[i], p.Args["lang"].(string))
					}
					return roads, nil
				},
			},
			"road": &graphql.Field{
				Type:        roadType,
				Description: "Get a road by ID",
				Args:        idArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					road, err := deps.Directory.GetRoad(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					normalize.LocalizeRoad(road, p.Args["lang"].(string))
					return road, nil
				},
			},
			"categories": &graphql.Field{
				Type:        graphql.NewList(categoryType),
				Description: "Category taxonomy with marker styles",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Catalog.Categories(), nil
				},
			},
			"classify": &graphql.Field{
				Type:        categoryType,
				Description: "Category of a raw location or road type",
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Catalog.Classify(p.Args["type"].(string)), nil
				},
			},
			"measurePath": &graphql.Field{
				Type:        pathType,
				Description: "Measure a WKT line or a route through locations",
				Args: graphql.FieldConfigArgument{
					"wkt":          &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"location_ids": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := usecases.PathRequest{WKT: p.Args["wkt"].(string)}
					if ids, ok := p.Args["location_ids"].([]any); ok {
						for _, id := range ids {
							if s, ok := id.(string); ok {
								req.LocationIDs = append(req.LocationIDs, s)
							}
						}
					}
					return deps.Paths.Measure(p.Context, req)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func gqlListOptions(args map[string]any) usecases.ListOptions {
	opts := usecases.ListOptions{}
	opts.CityID, _ = args["city_id"].(string)
	if cat, _ := args["category"].(string); cat != "" {
		opts.Category = domain.CategoryKey(cat)
	}
	opts.Limit, _ = args["limit"].(int)
	opts.Offset, _ = args["offset"].(int)
	return opts
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// Programming error in the schema definition.
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
