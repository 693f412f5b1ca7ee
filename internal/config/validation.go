/*
Package config provides validation for recognized configuration options.

Validation is shared by LoadFrom and Save so a bad value can neither be
read in nor written out.
*/
package config

import (
	"fmt"

	"github.com/khanglvm/tool-optimizer/internal/selector"
)

// Validate checks every recognized option for an admissible value.
func (c *Config) Validate() error {
	if _, err := selector.ParseStrategy(c.DefaultStrategy); err != nil {
		return fmt.Errorf("defaultStrategy: %w", err)
	}
	if _, err := selector.ParseMethod(c.DefaultMethod); err != nil {
		return fmt.Errorf("defaultMethod: %w", err)
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("cacheSize must be positive, got %d", c.CacheSize)
	}
	if c.CompressionThreshold <= 0 || c.CompressionThreshold > 1 {
		return fmt.Errorf("compressionThreshold must be in (0, 1], got %g", c.CompressionThreshold)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("historySize must be positive, got %d", c.HistorySize)
	}
	if c.MetricHistorySize <= 0 {
		return fmt.Errorf("metricHistorySize must be positive, got %d", c.MetricHistorySize)
	}
	if c.AlertLogSize <= 0 {
		return fmt.Errorf("alertLogSize must be positive, got %d", c.AlertLogSize)
	}

	if t := c.Thresholds; t != nil {
		if t.ResponseTime <= 0 {
			return fmt.Errorf("thresholds.responseTime must be positive, got %g", t.ResponseTime)
		}
		if t.ErrorRate <= 0 || t.ErrorRate > 1 {
			return fmt.Errorf("thresholds.errorRate must be in (0, 1], got %g", t.ErrorRate)
		}
		if t.ResourceUsage <= 0 || t.ResourceUsage > 1 {
			return fmt.Errorf("thresholds.resourceUsage must be in (0, 1], got %g", t.ResourceUsage)
		}
	}

	return nil
}
