package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
)

type recordingWriter struct {
	mu      sync.Mutex
	batches [][]domain.Location
	failOn  string
}

func (w *recordingWriter) UpsertLocations(ctx context.Context, locs []domain.Location) error {
	if w.failOn != "" && locs[0].CityID == w.failOn {
		return errors.New("boom")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, locs)
	return nil
}

func TestDecodeRecords(t *testing.T) {
	recs, err := decodeRecords([]byte(`[{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = decodeRecords([]byte(`{"is_success":true,"data":[{"id":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "a", recs[0]["id"])

	_, err = decodeRecords([]byte(`{"msg":"nope"}`))
	assert.Error(t, err)

	_, err = decodeRecords([]byte(`not json`))
	assert.Error(t, err)
}

func TestGroupByCity(t *testing.T) {
	norm := normalize.New(category.Default)
	recs := []domain.RawRecord{
		{"id": "1", "city_id": "c1", "name_en": "Clinic", "location_type": "clinic"},
		{"id": "2", "city_id": "c2", "name_en": "Market"},
		{"id": "3", "name": `{"en":"Jetty","mm":"ဆိပ်ကမ်း"}`},
	}

	all := groupByCity(norm, recs, "")
	assert.Len(t, all["c1"], 1)
	assert.Len(t, all["c2"], 1)
	assert.Len(t, all[""], 1)
	assert.Equal(t, domain.CategoryHealthcare, all["c1"][0].Category)

	only := groupByCity(norm, recs, "c1")
	require.Len(t, only, 1)
	assert.Len(t, only["c1"], 2)
	assert.Equal(t, 2, countAll(only))
}

func TestImportAll_Batches(t *testing.T) {
	locs := make([]domain.Location, batchSize+10)
	for i := range locs {
		locs[i].CityID = "c1"
	}
	w := &recordingWriter{}

	n := importAll(context.Background(), w, map[string][]domain.Location{"c1": locs}, 0)
	assert.Equal(t, len(locs), n)
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], batchSize)
	assert.Len(t, w.batches[1], 10)
}

func TestImportAll_FailedCityDoesNotStopOthers(t *testing.T) {
	w := &recordingWriter{failOn: "bad"}
	byCity := map[string][]domain.Location{
		"bad":  {{CityID: "bad"}},
		"good": {{CityID: "good"}, {CityID: "good"}},
	}

	n := importAll(context.Background(), w, byCity, 2)
	assert.Equal(t, 2, n)
	require.Len(t, w.batches, 1)
	assert.Equal(t, "good", w.batches[0][0].CityID)
}
