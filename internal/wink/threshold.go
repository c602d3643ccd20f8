package wink

import (
	"errors"
	"fmt"
)

// Closure thresholds. Constrained devices produce noisier, smaller EARs for
// open eyes, so their cutoff is lower.
const (
	DefaultThreshold            = 0.24
	DefaultConstrainedThreshold = 0.20
)

// ErrInvalidThresholds is returned by Thresholds.Validate.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds holds the two closure cutoffs.
type Thresholds struct {
	Default     float64 `json:"default"`
	Constrained float64 `json:"constrained"`
}

// DefaultThresholds returns the built-in cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Default:     DefaultThreshold,
		Constrained: DefaultConstrainedThreshold,
	}
}

// Validate checks both cutoffs lie in (0,1) and the constrained cutoff is
// strictly below the default one.
func (t Thresholds) Validate() error {
	if t.Default <= 0 || t.Default >= 1 {
		return fmt.Errorf("%w: default %v outside (0,1)", ErrInvalidThresholds, t.Default)
	}
	if t.Constrained <= 0 || t.Constrained >= 1 {
		return fmt.Errorf("%w: constrained %v outside (0,1)", ErrInvalidThresholds, t.Constrained)
	}
	if t.Constrained >= t.Default {
		return fmt.Errorf("%w: constrained %v not below default %v", ErrInvalidThresholds, t.Constrained, t.Default)
	}
	return nil
}

// Active returns the cutoff for the given runtime context.
func (t Thresholds) Active(rc RuntimeContext) float64 {
	if rc.Constrained {
		return t.Constrained
	}
	return t.Default
}

// ActiveThreshold returns the built-in cutoff for the given runtime context.
func ActiveThreshold(rc RuntimeContext) float64 {
	return DefaultThresholds().Active(rc)
}
