package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/core/usecases"
)

func TestDirectoryService_ListLocations_ByCategory(t *testing.T) {
	src := &mockSource{
		listFn: func(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
			if kind != domain.KindLocation {
				t.Errorf("expected kind locations, got %s", kind)
			}
			if f.CityID != "c1" {
				t.Errorf("expected city c1, got %q", f.CityID)
			}
			return locationRecords(), nil
		},
	}
	svc := usecases.NewDirectoryService(src, nil, nil, 0)

	locs, total, err := svc.ListLocations(context.Background(), usecases.ListOptions{
		CityID:   "c1",
		Category: domain.CategoryReligious,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(locs) != 1 {
		t.Fatalf("expected 1 location, got %d (total %d)", len(locs), total)
	}
	if locs[0].ID != "l2" {
		t.Errorf("expected l2, got %s", locs[0].ID)
	}
}

func TestDirectoryService_ListLocations_Pagination(t *testing.T) {
	src := &mockSource{
		listFn: func(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
			return locationRecords(), nil
		},
	}
	svc := usecases.NewDirectoryService(src, nil, nil, 0)

	locs, total, err := svc.ListLocations(context.Background(), usecases.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if len(locs) != 2 || locs[0].ID != "l3" {
		t.Fatalf("unexpected page: %+v", locs)
	}
	if locs[1].Category != domain.CategoryOther {
		t.Errorf("expected unknown tag to classify as other, got %s", locs[1].Category)
	}
	if locs[1].Point != nil {
		t.Error("expected nil point for record without geometry")
	}

	locs, _, _ = svc.ListLocations(context.Background(), usecases.ListOptions{Offset: 10})
	if locs == nil || len(locs) != 0 {
		t.Errorf("expected empty non-nil page past the end, got %v", locs)
	}
}

func TestDirectoryService_CachesAndInvalidates(t *testing.T) {
	src := &mockSource{
		listFn: func(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
			return locationRecords(), nil
		},
	}
	cache := newMemCache()
	svc := usecases.NewDirectoryService(src, cache, nil, 60)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := svc.ListLocations(ctx, usecases.ListOptions{CityID: "c1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if src.listCalls != 1 {
		t.Errorf("expected 1 source call, got %d", src.listCalls)
	}

	if err := svc.Invalidate(ctx, domain.KindLocation); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	locs, _, err := svc.ListLocations(ctx, usecases.ListOptions{CityID: "c1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.listCalls != 2 {
		t.Errorf("expected source reload after invalidate, got %d calls", src.listCalls)
	}
	if locs[0].Name.EN == nil || *locs[0].Name.EN != "General Hospital" {
		t.Errorf("cached record lost its name: %+v", locs[0].Name)
	}
}

func TestDirectoryService_GetRoad(t *testing.T) {
	src := &mockSource{
		getFn: func(ctx context.Context, kind domain.RecordKind, id string) (domain.RawRecord, error) {
			return domain.RawRecord{
				"id":        id,
				"name":      `{"en":"Strand Road","mm":"ကမ်းနားလမ်း"}`,
				"road_type": "primary",
				"geometry":  "LINESTRING(95.65 16.73, 95.66 16.73)",
			}, nil
		},
	}
	svc := usecases.NewDirectoryService(src, newMemCache(), nil, 0)

	road, err := svc.GetRoad(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(road.Distance.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(road.Distance.Segments))
	}
	if road.Distance.Total < 1000 || road.Distance.Total > 1100 {
		t.Errorf("expected ~1066 m, got %f", road.Distance.Total)
	}
	if road.Category != domain.CategoryTransportation {
		t.Errorf("expected transportation, got %s", road.Category)
	}
}

func TestDirectoryService_GetCity_NotFound(t *testing.T) {
	svc := usecases.NewDirectoryService(&mockSource{}, nil, nil, 0)
	_, err := svc.GetCity(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectoryService_SourceError(t *testing.T) {
	boom := errors.New("db down")
	src := &mockSource{
		listFn: func(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
			return nil, boom
		},
	}
	svc := usecases.NewDirectoryService(src, newMemCache(), nil, 0)
	if _, _, err := svc.ListCities(context.Background(), usecases.ListOptions{}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestDirectoryService_ListCityDetails(t *testing.T) {
	src := &mockSource{
		listFn: func(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
			if kind != domain.KindCityDetail {
				t.Errorf("expected city_details, got %s", kind)
			}
			return []domain.RawRecord{
				{"id": "d1", "city_id": f.CityID, "predefined_title": "History", "body": map[string]any{"en": "Old town"}},
			}, nil
		},
	}
	svc := usecases.NewDirectoryService(src, nil, nil, 0)
	details, err := svc.ListCityDetails(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 || details[0].CityID != "c1" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if details[0].Body.EN == nil || *details[0].Body.EN != "Old town" {
		t.Errorf("expected body en, got %+v", details[0].Body)
	}
}
