package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maubinnav/maubinnav/internal/adapters/upstream"
	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/ports"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("city_id"); got != "" && got != "c1" {
			t.Errorf("unexpected city_id %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_success":true,"data":[
			{"id":"l1","name_en":"Clinic","location_type":"clinic","geometry":"POINT(95.65 16.73)"},
			{"id":"l2","name_en":"Market","location_type":"market","geometry":"POINT(95.66 16.73)"},
			{"id":"l3","name_en":"Jetty","location_type":"jetty","geometry":"POINT(95.66 16.74)"}
		]}`))
	})
	mux.HandleFunc("/cities/c1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"is_success":true,"data":{"id":"c1","name_en":"Maubin"}}`))
	})
	mux.HandleFunc("/cities/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"is_success":false,"msg":"City not found"}`))
	})
	mux.HandleFunc("/city-details", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"is_success":false,"msg":"city_id is required"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_List(t *testing.T) {
	c := upstream.New(newServer(t).URL, 2*time.Second)

	recs, err := c.List(context.Background(), domain.KindLocation, ports.RecordFilter{CityID: "c1", Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0]["id"] != "l2" {
		t.Fatalf("unexpected page: %v", recs)
	}
}

func TestClient_GetAndGetMany(t *testing.T) {
	c := upstream.New(newServer(t).URL, 2*time.Second)
	ctx := context.Background()

	city, err := c.Get(ctx, domain.KindCity, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city["name_en"] != "Maubin" {
		t.Errorf("expected Maubin, got %v", city["name_en"])
	}

	if _, err := c.Get(ctx, domain.KindCity, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	recs, err := c.GetMany(ctx, domain.KindLocation, []string{"l3", "l1", "zz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}

	if _, err := c.Get(ctx, domain.KindLocation, "zz"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown location, got %v", err)
	}
}

func TestClient_UnsuccessfulEnvelope(t *testing.T) {
	c := upstream.New(newServer(t).URL, 2*time.Second)

	_, err := c.List(context.Background(), domain.KindCityDetail, ports.RecordFilter{})
	var se *upstream.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusBadRequest || se.Msg != "city_id is required" {
		t.Errorf("unexpected status error: %+v", se)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	c := upstream.New(newServer(t).URL, 2*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.List(ctx, domain.KindLocation, ports.RecordFilter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
