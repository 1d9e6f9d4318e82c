package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/maubinnav/maubinnav/internal/core/usecases"
)

// Pinger is a backing service the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Directory *usecases.DirectoryService
	Paths     *usecases.PathService
	Catalog   *usecases.CatalogService
	// Source names where records are read from, reported by /v1/health.
	Source string
	// Checks are pinged by /v1/ready, keyed by the name reported.
	Checks map[string]Pinger
	NATS   *nats.Conn
	// AllowOrigins is passed to the CORS middleware; empty allows all.
	AllowOrigins string
	// DocsPath locates the OpenAPI document served at /docs/openapi.yaml.
	DocsPath string
}
