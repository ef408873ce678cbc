package models

import (
	"fmt"

	"github.com/aouyang1/go-linreg/dataset"
	"github.com/aouyang1/go-linreg/stats"
)

var _ Model = (*GradientDescentRegression)(nil)

// GradientDescentRegression fits intercept + slope*x with batch gradient descent. The x values are
// used as given; rescaling is left to the caller.
type GradientDescentRegression struct {
	opt *GradientDescentOptions

	intercept float64
	slope     float64
	result    *TrainResult
}

func NewGradientDescentRegression(opt *GradientDescentOptions) (*GradientDescentRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &GradientDescentRegression{
		opt: opt,
	}, nil
}

// Fit trains a fresh set of parameters on x and y. The previous fit is kept if training fails.
func (g *GradientDescentRegression) Fit(x, y []float64) error {
	if g.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingArray
	}
	if y == nil {
		return ErrNoTargetArray
	}
	if len(x) != len(y) {
		return fmt.Errorf("training data has %d rows and target has %d rows, %w", len(x), len(y), ErrTargetLenMismatch)
	}

	ds, err := dataset.New(x, y)
	if err != nil {
		return err
	}

	res, err := Train(ds, g.opt)
	if err != nil {
		return err
	}

	g.intercept = res.Intercept
	g.slope = res.Slope
	g.result = res
	return nil
}

func (g *GradientDescentRegression) Predict(x []float64) ([]float64, error) {
	if g.result == nil {
		return nil, ErrUntrainedModel
	}
	if x == nil {
		return nil, ErrNoTrainingArray
	}

	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = Predict(g.intercept, g.slope, v)
	}
	return res, nil
}

// Score returns the r-squared of the fit against x and y
func (g *GradientDescentRegression) Score(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0.0, fmt.Errorf("training data has %d rows and target has %d rows, %w", len(x), len(y), ErrTargetLenMismatch)
	}

	res, err := g.Predict(x)
	if err != nil {
		return 0.0, err
	}
	return stats.RSquared(res, y)
}

func (g *GradientDescentRegression) Intercept() float64 {
	return g.intercept
}

func (g *GradientDescentRegression) Slope() float64 {
	return g.slope
}

func (g *GradientDescentRegression) Coef() []float64 {
	return []float64{g.slope}
}

// Result returns the details of the last successful training run
func (g *GradientDescentRegression) Result() *TrainResult {
	return g.result
}
