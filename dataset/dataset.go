// Package dataset holds the ordered (x, y) observations a linear model is trained on and loads them
// from delimited text.
package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDataset       = errors.New("dataset has no observations")
	ErrDatasetLenMismatch = errors.New("x values have a different length than y values")
)

// Observation is a single (x, y) pair where x is the independent variable and y the dependent one.
type Observation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dataset stores observations as parallel slices. Order is preserved from the input so that
// training passes over the data in a stable order.
type Dataset struct {
	X []float64
	Y []float64
}

// New returns an instance of a Dataset given the independent and dependent value slices. Both must
// be of the same, non-zero length. The input slices are copied.
func New(x, y []float64) (*Dataset, error) {
	if len(y) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"x has length of %d, but y has a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}

	xSeries := make([]float64, len(x))
	ySeries := make([]float64, len(y))
	copy(xSeries, x)
	copy(ySeries, y)
	return &Dataset{
		X: xSeries,
		Y: ySeries,
	}, nil
}

// FromObservations builds a Dataset from a slice of observations keeping their order.
func FromObservations(obs []Observation) (*Dataset, error) {
	x := make([]float64, 0, len(obs))
	y := make([]float64, 0, len(obs))
	for _, o := range obs {
		x = append(x, o.X)
		y = append(y, o.Y)
	}
	return New(x, y)
}

// Len returns the number of observations
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Y)
}

// Validate checks that the dataset is non-empty and its slices line up
func (ds *Dataset) Validate() error {
	if ds.Len() == 0 {
		return ErrEmptyDataset
	}
	if len(ds.X) != len(ds.Y) {
		return fmt.Errorf(
			"x has length of %d, but y has a length of %d, %w",
			len(ds.X), len(ds.Y), ErrDatasetLenMismatch,
		)
	}
	return nil
}

// Observations returns the dataset as a slice of pairs in input order
func (ds *Dataset) Observations() []Observation {
	obs := make([]Observation, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		obs = append(obs, Observation{X: ds.X[i], Y: ds.Y[i]})
	}
	return obs
}

func (ds *Dataset) Copy() *Dataset {
	xSeries := make([]float64, len(ds.X))
	ySeries := make([]float64, len(ds.Y))
	copy(xSeries, ds.X)
	copy(ySeries, ds.Y)
	return &Dataset{
		X: xSeries,
		Y: ySeries,
	}
}
