package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"sync"

	natsadapter "github.com/maubinnav/maubinnav/internal/adapters/nats"
	"github.com/maubinnav/maubinnav/internal/adapters/postgres"
	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
	"github.com/maubinnav/maubinnav/internal/pkg/config"
	"github.com/maubinnav/maubinnav/internal/pkg/logging"
)

const (
	serviceName = "maubin-importer"
	batchSize   = 500
)

func main() {
	file := flag.String("file", "locations.json", "JSON export of raw location records")
	city := flag.String("city", "", "import only this city ID; also assigned to records without one")
	concurrency := flag.Int("concurrency", 4, "cities imported in parallel")
	flag.Parse()

	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(serviceName, cfg.Log.Level, cfg.Log.Format)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	recs, err := decodeRecords(data)
	if err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	norm := normalize.New(category.Default.Extend(cfg.Taxonomy.Extra))
	byCity := groupByCity(norm, recs, *city)
	slog.Info("importing locations", "file", *file, "records", len(recs), "cities", len(byCity))

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewRecordRepo(db)

	imported := importAll(ctx, repo, byCity, *concurrency)

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, skipping change event", "error", err)
	} else {
		defer pub.Close()
		if err := pub.PublishChange(ctx, domain.ChangeEvent{Kind: domain.KindLocation}); err != nil {
			slog.Warn("publish change event failed", "error", err)
		}
	}

	slog.Info("import complete", "imported", imported, "skipped", len(recs)-countAll(byCity))
}

// decodeRecords accepts a bare JSON array or the {"data": [...]} envelope
// returned by the REST API.
func decodeRecords(data []byte) ([]domain.RawRecord, error) {
	var recs []domain.RawRecord
	if err := json.Unmarshal(data, &recs); err == nil {
		return recs, nil
	}
	var env struct {
		Data []domain.RawRecord `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, errors.New(`expected a JSON array or an object with "data"`)
	}
	return env.Data, nil
}

// groupByCity normalizes records and buckets them by city. With onlyCity
// set, records of other cities are dropped and records without a city are
// assigned to it.
func groupByCity(norm *normalize.Normalizer, recs []domain.RawRecord, onlyCity string) map[string][]domain.Location {
	out := make(map[string][]domain.Location)
	for _, rec := range recs {
		loc := norm.Location(rec)
		if loc.CityID == "" {
			loc.CityID = onlyCity
		}
		if onlyCity != "" && loc.CityID != onlyCity {
			continue
		}
		out[loc.CityID] = append(out[loc.CityID], loc)
	}
	return out
}

func countAll(byCity map[string][]domain.Location) int {
	n := 0
	for _, locs := range byCity {
		n += len(locs)
	}
	return n
}

// importAll writes every city's locations, at most concurrency cities at a
// time, and returns how many locations were stored.
func importAll(ctx context.Context, w ports.LocationWriter, byCity map[string][]domain.Location, concurrency int) int {
	if concurrency < 1 {
		concurrency = 1
	}
	cities := make([]string, 0, len(byCity))
	for id := range byCity {
		cities = append(cities, id)
	}
	sort.Strings(cities)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	sem := make(chan struct{}, concurrency)

	for _, cityID := range cities {
		wg.Add(1)
		go func(cityID string, locs []domain.Location) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			n, err := importCity(ctx, w, locs)
			if err != nil {
				slog.Error("import city failed", "city_id", cityID, "stored", n, "error", err)
			} else {
				slog.Info("city imported", "city_id", cityID, "locations", n)
			}
			mu.Lock()
			total += n
			mu.Unlock()
		}(cityID, byCity[cityID])
	}

	wg.Wait()
	return total
}

func importCity(ctx context.Context, w ports.LocationWriter, locs []domain.Location) (int, error) {
	stored := 0
	for start := 0; start < len(locs); start += batchSize {
		end := min(start+batchSize, len(locs))
		if err := w.UpsertLocations(ctx, locs[start:end]); err != nil {
			return stored, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		stored = end
	}
	return stored, nil
}
