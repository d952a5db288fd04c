// Package config holds the inventory service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/abgdnv/inventory/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig           `koanf:"server"`
	Database   config.DatabaseConfig       `koanf:"database"`
	Log        config.LogConfig            `koanf:"log"`
	PProf      config.PProfConfig          `koanf:"pprof"`
	GRPC       config.GrpcServerConfig     `koanf:"grpc"`
	Metrics    config.MetricsConfig        `koanf:"metrics"`
	Telemetry  config.TelemetryConfig      `koanf:"telemetry"`
	NATS       config.NATSConfig           `koanf:"nats"`
	Breaker    config.CircuitBreakerConfig `koanf:"breaker"`
	Reconcile  config.ReconcileConfig      `koanf:"reconcile"`
	Shutdown   config.ShutdownConfig       `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("\n=== Inventory Service Configuration ===\n")
	for _, section := range []fmt.Stringer{
		&c.HTTPServer, &c.GRPC, &c.Database, &c.NATS, &c.Breaker,
		&c.Log, &c.PProf, &c.Metrics, &c.Telemetry, &c.Reconcile, &c.Shutdown,
	} {
		b.WriteString(section.String())
	}
	return b.String()
}

// Validate checks every section and reports the first failure.
func (c *Config) Validate() error {
	validators := []struct {
		section string
		v       interface{ Validate() error }
	}{
		{"server", &c.HTTPServer},
		{"database", &c.Database},
		{"log", &c.Log},
		{"pprof", &c.PProf},
		{"grpc", &c.GRPC},
		{"metrics", &c.Metrics},
		{"telemetry", &c.Telemetry},
		{"nats", &c.NATS},
		{"breaker", &c.Breaker},
		{"reconcile", &c.Reconcile},
		{"shutdown", &c.Shutdown},
	}
	for _, s := range validators {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("invalid %s config: %w", s.section, err)
		}
	}
	return nil
}
