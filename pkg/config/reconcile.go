package config

import (
	"fmt"
	"strings"
	"time"
)

// ReconcileConfig controls the background pass that repairs products missing a stock row.
// A zero interval runs the pass once at start-up only.
type ReconcileConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// String returns a string representation of the ReconcileConfig.
func (c *ReconcileConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Reconcile ---\n")
	b.WriteString(fmt.Sprintf("  interval: %s\n", c.Interval))
	return b.String()
}

func (c *ReconcileConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("reconcile interval must not be negative")
	}
	return nil
}
