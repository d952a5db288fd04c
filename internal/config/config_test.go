package config

import (
	"testing"
	"time"

	"github.com/abgdnv/inventory/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_ProjectConfig(t *testing.T) {
	// given
	t.Setenv("INVENTORY_LOG_LEVEL", "debug")
	t.Setenv("INVENTORY_NATS_URL", "nats://localhost:4222")

	// when
	cfg, err := configloader.Load[*Config]("inventory",
		configloader.WithConfigFile("../../config.yaml"),
		configloader.WithEnvFile("testdata/missing.env"),
	)

	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, "9090", cfg.GRPC.Port)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, "file://migrations", cfg.Database.Migrations)
	assert.Equal(t, 5*time.Minute, cfg.Reconcile.Interval)
	assert.Equal(t, uint32(5), cfg.Breaker.ConsecutiveFailures)
	assert.Equal(t, "debug", cfg.Log.Level, "environment overrides the file")
	assert.True(t, cfg.NATS.Enabled())
	assert.NotContains(t, cfg.String(), "inventory:inventory@", "credentials are masked")
}

func Test_Validate_ReportsSection(t *testing.T) {
	cfg, err := configloader.Load[*Config]("inventory",
		configloader.WithConfigFile("../../config.yaml"),
		configloader.WithEnvFile("testdata/missing.env"),
	)
	require.NoError(t, err)

	cfg.Breaker.ConsecutiveFailures = 0
	err = cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid breaker config")
}

func Test_Load_EnvOverridesMultiWordKeys(t *testing.T) {
	// given
	t.Setenv("INVENTORY_DATABASE_MAXCONNS", "3")
	t.Setenv("INVENTORY_SERVER_MAXHEADERBYTES", "4096")
	t.Setenv("INVENTORY_SERVER_TIMEOUT_READHEADER", "7s")

	// when
	cfg, err := configloader.Load[*Config]("inventory",
		configloader.WithConfigFile("../../config.yaml"),
		configloader.WithEnvFile("testdata/missing.env"),
	)

	// then
	require.NoError(t, err)
	assert.Equal(t, int32(3), cfg.Database.MaxConns)
	assert.Equal(t, 4096, cfg.HTTPServer.MaxHeaderBytes)
	assert.Equal(t, 7*time.Second, cfg.HTTPServer.Timeout.ReadHeader)
}
