package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const probeTimeout = 3 * time.Second

// probe is the outcome of one readiness check.
type probe struct {
	Status    string  `json:"status"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// HealthHandler reports liveness along with the record source in use.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	source := deps.Source
	if source == "" {
		source = "unknown"
	}

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"source": source,
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	}
}

// ReadyHandler pings every configured backing service in parallel. An
// unconfigured NATS connection is reported but does not fail the probe.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
		defer cancel()

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			checks = make(map[string]probe, len(deps.Checks)+1)
			ready  = true
		)
		for name, p := range deps.Checks {
			wg.Add(1)
			go func(name string, p Pinger) {
				defer wg.Done()
				start := time.Now()
				err := p.Ping(ctx)
				res := probe{Status: "ok", LatencyMS: float64(time.Since(start).Microseconds()) / 1000}
				if err != nil {
					res.Status, res.Error = "error", err.Error()
				}
				mu.Lock()
				checks[name] = res
				if err != nil {
					ready = false
				}
				mu.Unlock()
			}(name, p)
		}
		wg.Wait()

		switch {
		case deps.NATS == nil:
			checks["nats"] = probe{Status: "not configured"}
		case deps.NATS.IsConnected():
			checks["nats"] = probe{Status: "ok"}
		default:
			checks["nats"] = probe{Status: "disconnected"}
			ready = false
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": checks})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": checks})
	}
}
