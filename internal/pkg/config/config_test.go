package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maubinnav/maubinnav/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("maubin-test")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, config.SourcePostgres, cfg.Source)
	assert.Equal(t, 300, cfg.Valkey.CacheTTL)
	assert.Equal(t, 500.0, cfg.Paths.SnapRadius)
	assert.Equal(t, "maubin-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, "postgres://maubin:@localhost:5432/maubin?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAUBIN_SERVER_PORT", "9090")
	t.Setenv("MAUBIN_SOURCE", "upstream")
	t.Setenv("MAUBIN_UPSTREAM_BASE_URL", "http://legacy:5000")

	cfg, err := config.Load("maubin-test")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.SourceUpstream, cfg.Source)
	assert.Equal(t, "http://legacy:5000", cfg.Upstream.BaseURL)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := config.Config{Source: "mongo"}
	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, `source must be "postgres" or "upstream"`)
	assert.Contains(t, msg, "nats.url is required")
	assert.Contains(t, msg, "valkey.addr is required")
}

func TestValidate_UpstreamSourceSkipsDatabase(t *testing.T) {
	cfg := config.Config{
		Server:   config.ServerConfig{Port: 8080, ReadTimeout: 1, WriteTimeout: 1},
		Source:   config.SourceUpstream,
		Upstream: config.UpstreamConfig{BaseURL: "http://x", Timeout: 5},
		NATS:     config.NATSConfig{URL: "nats://x"},
		Valkey:   config.ValkeyConfig{Addr: "x:6379"},
	}
	assert.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
