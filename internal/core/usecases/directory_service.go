package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
	"github.com/maubinnav/maubinnav/internal/pkg/telemetry"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	defaultCacheTTL = 300
	cachePrefix     = "dir:"
)

// ListOptions filters and pages directory listings.
type ListOptions struct {
	CityID   string
	Category domain.CategoryKey
	Limit    int
	Offset   int
}

func (o ListOptions) clamp() ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultPageSize
	}
	if o.Limit > maxPageSize {
		o.Limit = maxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// DirectoryService serves normalized cities, locations, roads and city
// details. Normalized listings are cached per kind and city.
type DirectoryService struct {
	source ports.RecordSource
	cache  ports.CacheService
	norm   *normalize.Normalizer
	ttl    int
}

// NewDirectoryService creates a new DirectoryService. cache may be nil.
func NewDirectoryService(source ports.RecordSource, cache ports.CacheService, norm *normalize.Normalizer, ttlSeconds int) *DirectoryService {
	if norm == nil {
		norm = normalize.New(category.Default)
	}
	if ttlSeconds <= 0 {
		ttlSeconds = defaultCacheTTL
	}
	return &DirectoryService{source: source, cache: cache, norm: norm, ttl: ttlSeconds}
}

// ListCities returns a page of cities and the total count.
func (s *DirectoryService) ListCities(ctx context.Context, opts ListOptions) ([]domain.City, int, error) {
	ctx, span := startSpan(ctx, "DirectoryService.ListCities", domain.KindCity)
	defer span.End()

	all, err := cached(ctx, s, listKey(domain.KindCity, ""), func(ctx context.Context) ([]domain.City, error) {
		recs, err := s.source.List(ctx, domain.KindCity, ports.RecordFilter{})
		if err != nil {
			return nil, err
		}
		out := make([]domain.City, len(recs))
		for i, r := range recs {
			out[i] = s.norm.City(r)
		}
		return out, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list cities: %w", err)
	}
	items, total := paginate(all, opts.clamp())
	span.SetAttributes(telemetry.AttrRecords.Int(total))
	return items, total, nil
}

// GetCity returns one city.
func (s *DirectoryService) GetCity(ctx context.Context, id string) (*domain.City, error) {
	ctx, span := startSpan(ctx, "DirectoryService.GetCity", domain.KindCity, telemetry.AttrRecordID.String(id))
	defer span.End()

	city, err := cached(ctx, s, itemKey(domain.KindCity, id), func(ctx context.Context) (domain.City, error) {
		rec, err := s.source.Get(ctx, domain.KindCity, id)
		if err != nil {
			return domain.City{}, err
		}
		return s.norm.City(rec), nil
	})
	if err != nil {
		return nil, fmt.Errorf("get city %s: %w", id, err)
	}
	return &city, nil
}

// ListLocations returns a page of locations, optionally restricted to a
// city and a category.
func (s *DirectoryService) ListLocations(ctx context.Context, opts ListOptions) ([]domain.Location, int, error) {
	ctx, span := startSpan(ctx, "DirectoryService.ListLocations", domain.KindLocation,
		telemetry.AttrCityID.String(opts.CityID), telemetry.AttrCategory.String(string(opts.Category)))
	defer span.End()

	all, err := s.allLocations(ctx, opts.CityID)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	if opts.Category != "" {
		filtered := make([]domain.Location, 0, len(all))
		for _, l := range all {
			if l.Category == opts.Category {
				filtered = append(filtered, l)
			}
		}
		all = filtered
	}
	items, total := paginate(all, opts.clamp())
	span.SetAttributes(telemetry.AttrRecords.Int(total))
	return items, total, nil
}

// allLocations returns every location of a city, or of all cities when
// cityID is empty.
func (s *DirectoryService) allLocations(ctx context.Context, cityID string) ([]domain.Location, error) {
	return cached(ctx, s, listKey(domain.KindLocation, cityID), func(ctx context.Context) ([]domain.Location, error) {
		recs, err := s.source.List(ctx, domain.KindLocation, ports.RecordFilter{CityID: cityID})
		if err != nil {
			return nil, err
		}
		out := make([]domain.Location, len(recs))
		for i, r := range recs {
			out[i] = s.norm.Location(r)
		}
		return out, nil
	})
}

// GetLocation returns one location.
func (s *DirectoryService) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	ctx, span := startSpan(ctx, "DirectoryService.GetLocation", domain.KindLocation, telemetry.AttrRecordID.String(id))
	defer span.End()

	loc, err := cached(ctx, s, itemKey(domain.KindLocation, id), func(ctx context.Context) (domain.Location, error) {
		rec, err := s.source.Get(ctx, domain.KindLocation, id)
		if err != nil {
			return domain.Location{}, err
		}
		return s.norm.Location(rec), nil
	})
	if err != nil {
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	return &loc, nil
}

// GetLocations returns the locations with the given IDs, in source order.
// Unknown IDs are skipped.
func (s *DirectoryService) GetLocations(ctx context.Context, ids []string) ([]domain.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, span := startSpan(ctx, "DirectoryService.GetLocations", domain.KindLocation, telemetry.AttrRecords.Int(len(ids)))
	defer span.End()

	recs, err := s.source.GetMany(ctx, domain.KindLocation, ids)
	if err != nil {
		return nil, fmt.Errorf("get locations: %w", err)
	}
	out := make([]domain.Location, len(recs))
	for i, r := range recs {
		out[i] = s.norm.Location(r)
	}
	return out, nil
}

// ListRoads returns a page of roads, optionally restricted to a city.
func (s *DirectoryService) ListRoads(ctx context.Context, opts ListOptions) ([]domain.Road, int, error) {
	ctx, span := startSpan(ctx, "DirectoryService.ListRoads", domain.KindRoad, telemetry.AttrCityID.String(opts.CityID))
	defer span.End()

	all, err := cached(ctx, s, listKey(domain.KindRoad, opts.CityID), func(ctx context.Context) ([]domain.Road, error) {
		recs, err := s.source.List(ctx, domain.KindRoad, ports.RecordFilter{CityID: opts.CityID})
		if err != nil {
			return nil, err
		}
		out := make([]domain.Road, len(recs))
		for i, r := range recs {
			out[i] = s.norm.Road(r)
		}
		return out, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list roads: %w", err)
	}
	if opts.Category != "" {
		filtered := make([]domain.Road, 0, len(all))
		for _, r := range all {
			if r.Category == opts.Category {
				filtered = append(filtered, r)
			}
		}
		all = filtered
	}
	items, total := paginate(all, opts.clamp())
	span.SetAttributes(telemetry.AttrRecords.Int(total))
	return items, total, nil
}

// GetRoad returns one road.
func (s *DirectoryService) GetRoad(ctx context.Context, id string) (*domain.Road, error) {
	ctx, span := startSpan(ctx, "DirectoryService.GetRoad", domain.KindRoad, telemetry.AttrRecordID.String(id))
	defer span.End()

	road, err := cached(ctx, s, itemKey(domain.KindRoad, id), func(ctx context.Context) (domain.Road, error) {
		rec, err := s.source.Get(ctx, domain.KindRoad, id)
		if err != nil {
			return domain.Road{}, err
		}
		return s.norm.Road(rec), nil
	})
	if err != nil {
		return nil, fmt.Errorf("get road %s: %w", id, err)
	}
	return &road, nil
}

// ListCityDetails returns every detail section of a city.
func (s *DirectoryService) ListCityDetails(ctx context.Context, cityID string) ([]domain.CityDetail, error) {
	ctx, span := startSpan(ctx, "DirectoryService.ListCityDetails", domain.KindCityDetail, telemetry.AttrCityID.String(cityID))
	defer span.End()

	details, err := cached(ctx, s, listKey(domain.KindCityDetail, cityID), func(ctx context.Context) ([]domain.CityDetail, error) {
		recs, err := s.source.List(ctx, domain.KindCityDetail, ports.RecordFilter{CityID: cityID})
		if err != nil {
			return nil, err
		}
		out := make([]domain.CityDetail, len(recs))
		for i, r := range recs {
			out[i] = s.norm.CityDetail(r)
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list city details: %w", err)
	}
	return details, nil
}

// Invalidate drops every cached entry of kind.
func (s *DirectoryService) Invalidate(ctx context.Context, kind domain.RecordKind) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeletePrefix(ctx, cachePrefix+string(kind)+":"); err != nil {
		return fmt.Errorf("invalidate %s: %w", kind, err)
	}
	slog.InfoContext(ctx, "directory cache invalidated", "kind", kind)
	return nil
}

func listKey(kind domain.RecordKind, cityID string) string {
	return cachePrefix + string(kind) + ":list:" + cityID
}

func itemKey(kind domain.RecordKind, id string) string {
	return cachePrefix + string(kind) + ":id:" + id
}

// cached reads key from the cache, falling back to load and storing
// its result. Cache failures never fail the request.
func cached[T any](ctx context.Context, s *DirectoryService, key string, load func(context.Context) (T, error)) (T, error) {
	span := trace.SpanFromContext(ctx)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				metrics.CacheHits.WithLabelValues(cacheOp(key)).Inc()
				span.SetAttributes(telemetry.AttrCacheHit.Bool(true))
				return v, nil
			}
		}
		metrics.CacheMisses.WithLabelValues(cacheOp(key)).Inc()
	}
	span.SetAttributes(telemetry.AttrCacheHit.Bool(false))

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				slog.DebugContext(ctx, "cache set failed", "key", key, "error", err)
			}
		}
	}
	return v, nil
}

// cacheOp turns "dir:roads:id:42" into "roads.id".
func cacheOp(key string) string {
	parts := strings.SplitN(strings.TrimPrefix(key, cachePrefix), ":", 3)
	if len(parts) < 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}

func paginate[T any](all []T, opts ListOptions) ([]T, int) {
	total := len(all)
	if opts.Offset >= total {
		return []T{}, total
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return all[opts.Offset:end], total
}

func startSpan(ctx context.Context, name string, kind domain.RecordKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, telemetry.AttrRecordKind.String(string(kind)))
	return telemetry.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
