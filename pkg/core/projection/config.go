package projection

import (
	"fmt"
	"strconv"
)

const (
	// DefaultMaxPeriods is the computation horizon in months.
	DefaultMaxPeriods = 60
	// DefaultCOGSRatio is the share of revenue booked as cost of goods sold.
	DefaultCOGSRatio = 0.30
)

// Config holds the constants of the monthly generator. It is passed into the
// Engine explicitly so two engines with different settings never interfere.
type Config struct {
	MaxPeriods int     `json:"max_periods" yaml:"max_periods"`
	COGSRatio  float64 `json:"cogs_ratio" yaml:"cogs_ratio"`
}

// DefaultConfig returns the 60 month / 30% COGS configuration.
func DefaultConfig() Config {
	return Config{MaxPeriods: DefaultMaxPeriods, COGSRatio: DefaultCOGSRatio}
}

// normalized replaces unusable values with the defaults. A zero COGS ratio is
// legitimate and kept.
func (c Config) normalized() Config {
	if c.MaxPeriods <= 0 {
		c.MaxPeriods = DefaultMaxPeriods
	}
	if c.COGSRatio < 0 || c.COGSRatio > 1 {
		c.COGSRatio = DefaultCOGSRatio
	}
	return c
}

// Fingerprint names the settings that change generated rows. Equivalent
// configurations produce the same string.
func (c Config) Fingerprint() string {
	c = c.normalized()
	return fmt.Sprintf("max_periods=%d cogs_ratio=%s", c.MaxPeriods, strconv.FormatFloat(c.COGSRatio, 'g', -1, 64))
}

// Horizon returns the number of months actually computed for a declared period count.
func (c Config) Horizon(periods int) int {
	c = c.normalized()
	if periods <= 0 {
		return 0
	}
	if periods > c.MaxPeriods {
		return c.MaxPeriods
	}
	return periods
}
