package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoOptions             = errors.New("no initialized model options")
	ErrTargetLenMismatch     = errors.New("target length does not match training length")
	ErrNoTrainingArray       = errors.New("no training array")
	ErrNoTargetArray         = errors.New("no target array")
	ErrUntrainedModel        = errors.New("model has not been trained yet")
	ErrNonFiniteObservation  = errors.New("observation is not finite")
	ErrNonPositiveRate       = errors.New("learning rate must be positive")
	ErrNonPositiveEpochs     = errors.New("epochs must be positive")
	ErrUnknownGradientScale  = errors.New("unknown gradient scale")
	ErrInvalidDivergenceRule = errors.New("divergence factor must be greater than 1")
	ErrDiverged              = errors.New("training diverged")
)

// DivergenceError is returned when a parameter or the training loss stops being usable part way
// through training. No parameters are returned alongside it.
type DivergenceError struct {
	// Epoch is the zero based epoch whose update diverged
	Epoch int

	// LastIntercept and LastSlope are the parameters before the diverging update
	LastIntercept float64
	LastSlope     float64

	// Intercept and Slope are the parameters produced by the diverging update
	Intercept float64
	Slope     float64

	Loss   float64
	Reason string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf(
		"training diverged on epoch %d (%s): intercept=%g slope=%g loss=%g, last intercept=%g slope=%g",
		e.Epoch, e.Reason, e.Intercept, e.Slope, e.Loss, e.LastIntercept, e.LastSlope,
	)
}

func (e *DivergenceError) Is(target error) bool {
	return target == ErrDiverged
}
