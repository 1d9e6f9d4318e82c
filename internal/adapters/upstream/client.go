// Package upstream reads directory records from the legacy navigation REST
// API. Responses use the {"is_success", "msg", "data"} envelope.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
)

// paths maps record kinds to collection endpoints.
var paths = map[domain.RecordKind]string{
	domain.KindCity:       "/cities",
	domain.KindLocation:   "/locations",
	domain.KindRoad:       "/roads",
	domain.KindCityDetail: "/city-details",
}

type envelope struct {
	IsSuccess bool            `json:"is_success"`
	Msg       string          `json:"msg"`
	Data      json.RawMessage `json:"data"`
}

// Client implements ports.RecordSource over HTTP.
type Client struct {
	base    string
	timeout time.Duration
	http    *fasthttp.Client
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "maubin-directory",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

// List fetches a collection. Filters the API does not support are applied
// locally.
func (c *Client) List(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
	path, ok := paths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	q := url.Values{}
	if f.CityID != "" && kind != domain.KindCity {
		q.Set("city_id", f.CityID)
	}
	if f.UserID != "" {
		q.Set("user_id", f.UserID)
	}

	var recs []domain.RawRecord
	if err := c.get(ctx, kind, path, q, &recs); err != nil {
		return nil, err
	}
	if f.CityID != "" && kind == domain.KindCity {
		recs = filterIDs(recs, []string{f.CityID})
	}
	return page(recs, f.Offset, f.Limit), nil
}

// Get fetches one record. Only cities have an item endpoint; other kinds
// are looked up in their collection.
func (c *Client) Get(ctx context.Context, kind domain.RecordKind, id string) (domain.RawRecord, error) {
	if kind == domain.KindCity {
		var rec domain.RawRecord
		if err := c.get(ctx, kind, paths[kind]+"/"+url.PathEscape(id), nil, &rec); err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, domain.ErrNotFound
		}
		return rec, nil
	}
	recs, err := c.GetMany(ctx, kind, []string{id})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, domain.ErrNotFound
	}
	return recs[0], nil
}

// GetMany fetches the collection and keeps the requested IDs.
func (c *Client) GetMany(ctx context.Context, kind domain.RecordKind, ids []string) ([]domain.RawRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if kind == domain.KindCityDetail {
		return nil, fmt.Errorf("%w: city details can only be listed per city", domain.ErrInvalidInput)
	}
	recs, err := c.List(ctx, kind, ports.RecordFilter{})
	if err != nil {
		return nil, err
	}
	return filterIDs(recs, ids), nil
}

// Ping checks that the API answers.
func (c *Client) Ping(ctx context.Context) error {
	var ignored json.RawMessage
	return c.get(ctx, "", "/", nil, &ignored)
}

func (c *Client) get(ctx context.Context, kind domain.RecordKind, path string, q url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.base + path
	if len(q) > 0 {
		uri += "?" + q.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	err := c.http.DoDeadline(req, resp, deadline)
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode())
	}
	metrics.UpstreamRequestDuration.WithLabelValues(string(kind), status).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("upstream %s: %w", path, err)
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		return domain.ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("upstream %s: decode envelope: %w", path, err)
	}
	if resp.StatusCode() >= 400 || !env.IsSuccess {
		return &StatusError{Path: path, Code: resp.StatusCode(), Msg: env.Msg}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("upstream %s: decode data: %w", path, err)
	}
	return nil
}

// StatusError is an unsuccessful upstream answer.
type StatusError struct {
	Path string
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: status %d: %s", e.Path, e.Code, e.Msg)
}

func filterIDs(recs []domain.RawRecord, ids []string) []domain.RawRecord {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]domain.RawRecord, 0, len(ids))
	for _, r := range recs {
		if id, ok := r["id"].(string); ok && want[id] {
			out = append(out, r)
		}
	}
	return out
}

func page(recs []domain.RawRecord, offset, limit int) []domain.RawRecord {
	if offset > 0 {
		if offset >= len(recs) {
			return []domain.RawRecord{}
		}
		recs = recs[offset:]
	}
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs
}
