package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/pkg/wkt"
)

// table describes how one record kind is read. Geometry is returned as WKT
// so rows decode through the same path as upstream JSON.
type table struct {
	name    string
	columns string
	// cityColumn is matched against RecordFilter.CityID.
	cityColumn string
	order      string
}

var tables = map[domain.RecordKind]table{
	domain.KindCity: {
		name: "cities",
		columns: `id::text AS id, user_id::text AS user_id, name, address, description,
		          image_urls, ST_AsText(geom) AS geometry, is_active`,
		cityColumn: "id",
		order:      "created_at",
	},
	domain.KindLocation: {
		name: "locations",
		columns: `id::text AS id, city_id::text AS city_id, user_id::text AS user_id,
		          name, address, description, image_urls, location_type,
		          ST_AsText(geom) AS geometry, is_active`,
		cityColumn: "city_id",
		order:      "created_at",
	},
	domain.KindRoad: {
		name: "roads",
		columns: `id::text AS id, city_id::text AS city_id, user_id::text AS user_id,
		          name, road_type, is_oneway, length_m, ST_AsText(geom) AS geometry, is_active`,
		cityColumn: "city_id",
		order:      "created_at",
	},
	domain.KindCityDetail: {
		name: "city_details",
		columns: `id::text AS id, city_id::text AS city_id, user_id::text AS user_id,
		          predefined_title, subtitle, body, image_urls, is_active`,
		cityColumn: "city_id",
		order:      "created_at DESC",
	},
}

func lookup(kind domain.RecordKind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("unknown record kind %q", kind)
	}
	return t, nil
}

// RecordRepo implements ports.RecordSource, ports.RoadLengthStore and
// ports.LocationWriter with pgx.
type RecordRepo struct {
	db *DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// List returns raw records of kind, active ones only.
func (r *RecordRepo) List(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE is_active
		  AND ($1 = '' OR %s::text = $1)
		  AND ($2 = '' OR user_id::text = $2)
		ORDER BY %s
		LIMIT NULLIF($3::int, 0) OFFSET $4
	`, t.columns, t.name, t.cityColumn, t.order)

	rows, err := r.db.Pool.Query(ctx, query, f.CityID, f.UserID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	return collect(rows)
}

// Get returns one raw record or domain.ErrNotFound.
func (r *RecordRepo) Get(ctx context.Context, kind domain.RecordKind, id string) (domain.RawRecord, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id::text = $1`, t.columns, t.name), id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return domain.RawRecord(m), nil
}

// GetMany returns the records with the given IDs in arbitrary order.
func (r *RecordRepo) GetMany(ctx context.Context, kind domain.RecordKind, ids []string) ([]domain.RawRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id::text = ANY($1)`, t.columns, t.name), ids)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]domain.RawRecord, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawRecord, len(maps))
	for i, m := range maps {
		out[i] = domain.RawRecord(m)
	}
	return out, nil
}

// ListRoadIDs returns the IDs of every road.
func (r *RecordRepo) ListRoadIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id::text FROM roads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query roads: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// UpdateRoadLengths stores per-segment lengths of a road.
func (r *RecordRepo) UpdateRoadLengths(ctx context.Context, id string, segments []float64) error {
	if segments == nil {
		segments = []float64{}
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE roads SET length_m = $2, updated_at = now()
		WHERE id::text = $1
	`, id, segments)
	if err != nil {
		return fmt.Errorf("update road %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertLocations inserts or updates normalized locations using pgx.Batch.
// Locations without an ID get a new one.
func (r *RecordRepo) UpsertLocations(ctx context.Context, locs []domain.Location) error {
	if len(locs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range locs {
		l := &locs[i]
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		images := l.ImageURLs
		if images == nil {
			images = []string{}
		}
		var geom *string
		if l.Point != nil {
			s := wkt.EncodePoint(*l.Point)
			geom = &s
		}
		batch.Queue(`
			INSERT INTO locations (id, city_id, user_id, name, address, description,
			                       image_urls, location_type, geom, is_active)
			VALUES ($1, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid,
			        COALESCE($4::jsonb, '{}'::jsonb), $5::jsonb, $6::jsonb, $7, NULLIF($8, ''),
			        ST_GeomFromEWKT($9), COALESCE($10, TRUE))
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, address = EXCLUDED.address,
			    description = EXCLUDED.description, image_urls = EXCLUDED.image_urls,
			    location_type = EXCLUDED.location_type, geom = EXCLUDED.geom,
			    is_active = EXCLUDED.is_active, updated_at = now()
		`, l.ID, l.CityID, l.UserID,
			jsonText(l.Name), jsonText(l.Address), jsonText(l.Description),
			images, l.LocationType, geom, l.IsActive)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range locs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// jsonText encodes a bilingual value for a JSONB column, dropping absent
// languages. Empty values are stored as NULL.
func jsonText(t domain.LocalizedText) *string {
	obj := make(map[string]string, 2)
	if t.EN != nil {
		obj["en"] = *t.EN
	}
	if t.MM != nil {
		obj["mm"] = *t.MM
	}
	if len(obj) == 0 {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
