// Package normalize rescales the independent variable of a dataset into [0, 1] and maps parameters
// fitted on the rescaled data back into the original units.
package normalize

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-linreg/dataset"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrDegenerateRange = errors.New("independent variable has zero range")
	ErrNonFiniteRange  = errors.New("independent variable range is not finite")
)

// Range is the min/max of the independent variable observed in a training set
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns max - min
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Validate returns ErrNonFiniteRange when min, max or their span is not finite and
// ErrDegenerateRange when min and max are equal
func (r Range) Validate() error {
	if !isFinite(r.Min) || !isFinite(r.Max) || !isFinite(r.Span()) {
		return fmt.Errorf("min %g, max %g, %w", r.Min, r.Max, ErrNonFiniteRange)
	}
	if r.Max == r.Min {
		return fmt.Errorf("min and max are both %g, %w", r.Min, ErrDegenerateRange)
	}
	return nil
}

// ComputeRange scans the x values of the dataset once
func ComputeRange(ds *dataset.Dataset) (Range, error) {
	if ds.Len() == 0 || len(ds.X) == 0 {
		return Range{}, dataset.ErrEmptyDataset
	}
	return Range{
		Min: floats.Min(ds.X),
		Max: floats.Max(ds.X),
	}, nil
}

// Normalize maps x to (x - min) / (max - min)
func Normalize(x float64, r Range) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return (x - r.Min) / r.Span(), nil
}

// NormalizeDataset returns a new dataset with every x normalized against r. The y values are
// copied untouched.
func NormalizeDataset(ds *dataset.Dataset, r Range) (*dataset.Dataset, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := ds.Copy()
	span := r.Span()
	for i, x := range out.X {
		out.X[i] = (x - r.Min) / span
	}
	return out, nil
}

// DenormalizeParameters converts an intercept and slope fitted against normalized x into parameters
// valid for the original x so that
//
//	intercept + slope*x == interceptN + slopeN*(x-min)/(max-min)
func DenormalizeParameters(interceptN, slopeN float64, r Range) (float64, float64, error) {
	if err := r.Validate(); err != nil {
		return 0, 0, err
	}
	slope := slopeN / r.Span()
	intercept := interceptN - slope*r.Min
	return intercept, slope, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
