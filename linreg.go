// Package linreg fits a single variable linear model with batch gradient descent, optionally on
// min-max normalized input, and reports its parameters in the original units of the data.
package linreg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aouyang1/go-linreg/dataset"
	"github.com/aouyang1/go-linreg/models"
	"github.com/aouyang1/go-linreg/normalize"
	"github.com/aouyang1/go-linreg/params"
	"github.com/aouyang1/go-linreg/stats"
	"github.com/go-echarts/go-echarts/v2/components"
	"go.uber.org/zap"
)

var (
	ErrUntrainedRegressor = errors.New("regressor has not been trained yet")
	ErrNoOptionsInModel   = errors.New("no options set in model")
	ErrNoTrainingData     = errors.New("regressor has no training data to plot")
)

// Regressor fits a linear model and can be used to generate predictions
type Regressor struct {
	opt *Options
	lg  *zap.Logger

	parameters params.Parameters
	normRange  *normalize.Range
	scores     *stats.Scores
	history    []float64
	epochs     int
	converged  bool

	fitTrainingData *dataset.Dataset
	trained         bool
}

// New creates a new instance of a Regressor using the provided options. If no options are provided
// a default is used. A logger set only on the gradient descent options is also used by the Regressor.
func New(opt *Options) (*Regressor, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	gdOpt, err := opt.GradientDescentOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid gradient descent options, %w", err)
	}

	var gdLg *zap.Logger
	if opt.GradientDescentOptions != nil {
		gdLg = opt.GradientDescentOptions.Logger
	}
	lg := opt.Logger
	if lg == nil {
		lg = gdLg
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	if gdLg == nil {
		gdOpt.Logger = lg
	}

	return &Regressor{
		opt: &Options{
			Normalize:              opt.Normalize,
			GradientDescentOptions: gdOpt,
			AxisNames:              opt.AxisNames,
			Logger:                 lg,
		},
		lg: lg,
	}, nil
}

// NewFromModel creates a new instance of Regressor from a pre-existing model. This should be
// generated from a previous call to Model().
func NewFromModel(model Model) (*Regressor, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	r, err := New(model.Options)
	if err != nil {
		return nil, fmt.Errorf("unable to load from model, %w", err)
	}
	r.parameters = model.Parameters
	r.normRange = model.Range
	r.scores = model.Scores
	r.epochs = model.Epochs
	r.converged = model.Converged
	r.trained = true
	return r, nil
}

// NewFromParameters creates a Regressor for inference only from persisted parameters
func NewFromParameters(p params.Parameters) *Regressor {
	r, _ := New(nil)
	r.parameters = p
	r.trained = true
	return r
}

// Fit trains the model on x and y
func (r *Regressor) Fit(x, y []float64) error {
	ds, err := dataset.New(x, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	return r.FitDataset(ds)
}

// FitDataset trains the model on ds. When normalization is enabled the x values are rescaled into
// [0, 1] with the range of ds and the fitted parameters are converted back afterwards. Nothing on the
// Regressor changes when training fails.
func (r *Regressor) FitDataset(ds *dataset.Dataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("unable to fit dataset, %w", err)
	}

	trainData := ds
	var normRange *normalize.Range
	if r.opt.Normalize {
		rng, err := normalize.ComputeRange(ds)
		if err != nil {
			return fmt.Errorf("unable to compute normalization range, %w", err)
		}
		trainData, err = normalize.NormalizeDataset(ds, rng)
		if err != nil {
			return fmt.Errorf("unable to normalize dataset, %w", err)
		}
		normRange = &rng
	}

	res, err := models.Train(trainData, r.opt.GradientDescentOptions)
	if err != nil {
		return fmt.Errorf("unable to train model, %w", err)
	}

	intercept, slope := res.Intercept, res.Slope
	if normRange != nil {
		intercept, slope, err = normalize.DenormalizeParameters(intercept, slope, *normRange)
		if err != nil {
			return fmt.Errorf("unable to denormalize parameters, %w", err)
		}
	}

	predicted := make([]float64, ds.Len())
	for i, x := range ds.X {
		predicted[i] = models.Predict(intercept, slope, x)
	}
	scores, err := stats.NewScores(predicted, ds.Y)
	if err != nil {
		return fmt.Errorf("unable to score fit, %w", err)
	}

	r.parameters = params.Parameters{Intercept: intercept, Slope: slope}
	r.normRange = normRange
	r.scores = scores
	r.history = res.History
	r.epochs = res.Epochs
	r.converged = res.Converged
	r.fitTrainingData = ds.Copy()
	r.trained = true

	r.lg.Info("training complete",
		zap.Float64("intercept", intercept),
		zap.Float64("slope", slope),
		zap.Int("epochs", res.Epochs),
		zap.Bool("converged", res.Converged),
		zap.Float64("mse", scores.MSE),
		zap.Float64("r2", scores.R2),
	)
	return nil
}

// Predict generates a predicted value for every input x
func (r *Regressor) Predict(x []float64) (*Results, error) {
	if !r.trained {
		return nil, ErrUntrainedRegressor
	}

	xCopy := make([]float64, len(x))
	copy(xCopy, x)
	predicted := make([]float64, len(x))
	for i, v := range x {
		predicted[i] = models.Predict(r.parameters.Intercept, r.parameters.Slope, v)
	}
	return &Results{
		X:         xCopy,
		Predicted: predicted,
	}, nil
}

// PredictValue returns the prediction for a single x
func (r *Regressor) PredictValue(x float64) (float64, error) {
	if !r.trained {
		return 0, ErrUntrainedRegressor
	}
	return models.Predict(r.parameters.Intercept, r.parameters.Slope, x), nil
}

// Intercept returns the intercept in the original units of x
func (r *Regressor) Intercept() float64 {
	return r.parameters.Intercept
}

// Slope returns the slope in the original units of x
func (r *Regressor) Slope() float64 {
	return r.parameters.Slope
}

// Parameters returns the fitted intercept and slope ready to be persisted
func (r *Regressor) Parameters() params.Parameters {
	return r.parameters
}

// Range returns the normalization range used by the last fit and false if the fit did not normalize
func (r *Regressor) Range() (normalize.Range, bool) {
	if r.normRange == nil {
		return normalize.Range{}, false
	}
	return *r.normRange, true
}

// History returns the mean squared error before training followed by the error after each epoch
func (r *Regressor) History() []float64 {
	h := make([]float64, len(r.history))
	copy(h, r.history)
	return h
}

// Epochs returns the number of epochs run by the last fit
func (r *Regressor) Epochs() int {
	return r.epochs
}

// Converged reports whether the last fit stopped early on the convergence rule
func (r *Regressor) Converged() bool {
	return r.converged
}

// Scores returns the fit scores against the training data
func (r *Regressor) Scores() stats.Scores {
	if r.scores == nil {
		return stats.Scores{}
	}
	return *r.scores
}

// TrainingData returns the training data used to fit the current model
func (r *Regressor) TrainingData() *dataset.Dataset {
	return r.fitTrainingData
}

// Model generates a serializeable representation of the options, parameters and fit scores. This
// can be used to initialize a new Regressor for immediate predictions skipping the training step.
func (r *Regressor) Model() (Model, error) {
	if !r.trained {
		return Model{}, ErrUntrainedRegressor
	}
	return Model{
		Options:    r.opt,
		Parameters: r.parameters,
		Range:      r.normRange,
		Scores:     r.scores,
		Epochs:     r.epochs,
		Converged:  r.converged,
	}, nil
}

// ModelEq returns a string representation of the fit model represented as y ~ b+m*x
func (r *Regressor) ModelEq() (string, error) {
	if !r.trained {
		return "", ErrUntrainedRegressor
	}
	return fmt.Sprintf("y ~ %.2f%+.6f*x", r.parameters.Intercept, r.parameters.Slope), nil
}

// PlotFit uses the Apache Echarts library to generate an html file showing the training data with
// the fitted line overlaid and the training loss per epoch
func (r *Regressor) PlotFit(path string) error {
	if !r.trained {
		return ErrUntrainedRegressor
	}
	if r.fitTrainingData == nil {
		return ErrNoTrainingData
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return r.renderFit(file)
}

func (r *Regressor) renderFit(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(ScatterFit("Linear Regression Fit", r.fitTrainingData, r.parameters, r.opt.AxisNames))
	if len(r.history) > 0 {
		page.AddCharts(LineLoss("Training Loss", r.history))
	}
	return page.Render(w)
}
