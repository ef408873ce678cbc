package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositivePatience = errors.New("convergence patience must be positive")
	ErrNegativeThreshold   = errors.New("convergence threshold must not be negative")
)

// ConvergenceOptions defines when a run is considered converged
type ConvergenceOptions struct {
	// Enabled controls whether training may stop before all epochs are run
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Patience is the number of consecutive epochs without significant improvement before stopping
	Patience int `json:"patience" yaml:"patience"`

	// Threshold is the minimum relative loss improvement that counts as progress, where the relative
	// improvement is (lastSignificant - loss) / lastSignificant
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// NewDefaultConvergenceOptions stops after 10 epochs improving the loss by less than 1e-9
func NewDefaultConvergenceOptions() ConvergenceOptions {
	return ConvergenceOptions{
		Enabled:   true,
		Patience:  10,
		Threshold: 1e-9,
	}
}

// NewDisabledConvergenceOptions always runs every epoch
func NewDisabledConvergenceOptions() ConvergenceOptions {
	return ConvergenceOptions{
		Enabled: false,
	}
}

func (c ConvergenceOptions) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Patience <= 0 {
		return fmt.Errorf("got %d, %w", c.Patience, ErrNonPositivePatience)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("got %g, %w", c.Threshold, ErrNegativeThreshold)
	}
	return nil
}

// ConvergenceTracker tracks the loss history and detects when training has stopped improving
type ConvergenceTracker struct {
	opt             ConvergenceOptions
	count           int
	bestLoss        float64
	lastSignificant float64
	staleCount      int
}

func NewConvergenceTracker(opt ConvergenceOptions) *ConvergenceTracker {
	return &ConvergenceTracker{
		opt:             opt,
		bestLoss:        math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records a new loss and returns true once the loss has gone Patience updates without a
// significant relative improvement
func (c *ConvergenceTracker) Update(loss float64) bool {
	if !c.opt.Enabled {
		return false
	}

	c.count++
	if loss < c.bestLoss {
		c.bestLoss = loss
	}

	if c.count == 1 {
		c.lastSignificant = loss
		return false
	}

	var improvement float64
	if c.lastSignificant > 0 {
		improvement = (c.lastSignificant - loss) / c.lastSignificant
	}

	if c.lastSignificant > 0 && improvement > c.opt.Threshold {
		c.lastSignificant = loss
		c.staleCount = 0
		return false
	}

	c.staleCount++
	return c.staleCount >= c.opt.Patience
}

// BestLoss returns the lowest loss seen so far
func (c *ConvergenceTracker) BestLoss() float64 {
	return c.bestLoss
}

// StaleCount returns the current number of updates without significant improvement
func (c *ConvergenceTracker) StaleCount() int {
	return c.staleCount
}

func (c *ConvergenceTracker) Reset() {
	c.count = 0
	c.bestLoss = math.Inf(1)
	c.lastSignificant = math.Inf(1)
	c.staleCount = 0
}
