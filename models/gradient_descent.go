package models

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-linreg/dataset"
	"go.uber.org/zap"
)

const (
	DefaultLearningRate     = 0.5
	DefaultEpochs           = 1000
	DefaultDivergenceFactor = 1e12

	logEvery = 100
)

// GradientScale selects what the summed gradient is divided by before it is applied
type GradientScale string

const (
	// ScaleBySamples divides by the number of observations, giving the mean gradient
	ScaleBySamples GradientScale = "samples"

	// ScaleByEpochs divides by the epoch count. This changes the effective step size with the
	// number of epochs and is only kept for reproducing older runs.
	ScaleByEpochs GradientScale = "epochs"
)

// GradientDescentOptions configures a batch gradient descent run
type GradientDescentOptions struct {
	LearningRate  float64       `json:"learning_rate"`
	Epochs        int           `json:"epochs"`
	GradientScale GradientScale `json:"gradient_scale"`

	// DivergenceFactor stops training when the loss grows past this multiple of the loss at the
	// initial parameters. Must be greater than 1. Use math.MaxFloat64 to only stop on non-finite values.
	DivergenceFactor float64 `json:"divergence_factor"`

	// Convergence optionally stops training early once the loss stops improving
	Convergence ConvergenceOptions `json:"convergence"`

	Logger *zap.Logger `json:"-"`
}

// NewDefaultGradientDescentOptions returns a default set of gradient descent options
func NewDefaultGradientDescentOptions() *GradientDescentOptions {
	return &GradientDescentOptions{
		LearningRate:     DefaultLearningRate,
		Epochs:           DefaultEpochs,
		GradientScale:    ScaleBySamples,
		DivergenceFactor: DefaultDivergenceFactor,
		Convergence:      NewDisabledConvergenceOptions(),
	}
}

// Validate checks the options and returns a copy with unset fields defaulted
func (o *GradientDescentOptions) Validate() (*GradientDescentOptions, error) {
	if o == nil {
		o = NewDefaultGradientDescentOptions()
	}
	opt := *o

	if !(opt.LearningRate > 0) || math.IsInf(opt.LearningRate, 1) {
		return nil, fmt.Errorf("got %g, %w", opt.LearningRate, ErrNonPositiveRate)
	}
	if opt.Epochs <= 0 {
		return nil, fmt.Errorf("got %d, %w", opt.Epochs, ErrNonPositiveEpochs)
	}

	switch opt.GradientScale {
	case "":
		opt.GradientScale = ScaleBySamples
	case ScaleBySamples, ScaleByEpochs:
	default:
		return nil, fmt.Errorf("%q, %w", opt.GradientScale, ErrUnknownGradientScale)
	}

	if opt.DivergenceFactor == 0 {
		opt.DivergenceFactor = DefaultDivergenceFactor
	}
	if !(opt.DivergenceFactor > 1) {
		return nil, fmt.Errorf("got %g, %w", opt.DivergenceFactor, ErrInvalidDivergenceRule)
	}

	if err := opt.Convergence.Validate(); err != nil {
		return nil, err
	}

	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &opt, nil
}

// TrainResult holds the fitted parameters of a completed run
type TrainResult struct {
	Intercept float64
	Slope     float64

	// Epochs is the number of epochs run, which is less than requested when the run converged early
	Epochs    int
	Converged bool

	// History is the mean squared error at the initial parameters followed by the error after each
	// epoch's update
	History []float64
}

// Train fits intercept + slope*x to the dataset with batch gradient descent starting from (0, 0).
// Every epoch sums the prediction error over the whole dataset in input order and applies a single
// update to both parameters. A *DivergenceError is returned if a parameter or the loss becomes
// non-finite, or if the loss grows past the configured divergence factor.
func Train(ds *dataset.Dataset, opt *GradientDescentOptions) (*TrainResult, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	for i := 0; i < ds.Len(); i++ {
		if !isFinite(ds.X[i]) || !isFinite(ds.Y[i]) {
			return nil, fmt.Errorf("index %d, x=%g y=%g, %w", i, ds.X[i], ds.Y[i], ErrNonFiniteObservation)
		}
	}

	divisor := float64(ds.Len())
	if opt.GradientScale == ScaleByEpochs {
		divisor = float64(opt.Epochs)
	}

	var intercept, slope float64
	initLoss := meanSquaredError(ds, intercept, slope)

	history := make([]float64, 1, opt.Epochs+1)
	history[0] = initLoss

	var tracker *ConvergenceTracker
	if opt.Convergence.Enabled {
		tracker = NewConvergenceTracker(opt.Convergence)
		tracker.Update(initLoss)
	}

	lg := opt.Logger
	lg.Debug("starting gradient descent",
		zap.Int("observations", ds.Len()),
		zap.Float64("learning_rate", opt.LearningRate),
		zap.Int("epochs", opt.Epochs),
		zap.String("gradient_scale", string(opt.GradientScale)),
		zap.Float64("initial_loss", initLoss),
	)

	res := &TrainResult{}
	for epoch := 0; epoch < opt.Epochs; epoch++ {
		sumErr, sumErrX := errorSums(ds, intercept, slope)

		lastIntercept, lastSlope := intercept, slope
		intercept -= opt.LearningRate * sumErr / divisor
		slope -= opt.LearningRate * sumErrX / divisor

		divErr := &DivergenceError{
			Epoch:         epoch,
			LastIntercept: lastIntercept,
			LastSlope:     lastSlope,
			Intercept:     intercept,
			Slope:         slope,
			Loss:          math.NaN(),
		}
		if !isFinite(intercept) || !isFinite(slope) {
			divErr.Reason = "non-finite parameter"
			return nil, logDivergence(lg, divErr)
		}

		loss := meanSquaredError(ds, intercept, slope)
		divErr.Loss = loss
		if !isFinite(loss) {
			divErr.Reason = "non-finite loss"
			return nil, logDivergence(lg, divErr)
		}
		if initLoss > 0 && loss > opt.DivergenceFactor*initLoss {
			divErr.Reason = fmt.Sprintf("loss grew past %g times the initial loss", opt.DivergenceFactor)
			return nil, logDivergence(lg, divErr)
		}
		history = append(history, loss)
		res.Epochs = epoch + 1

		if epoch%logEvery == 0 {
			lg.Debug("epoch complete",
				zap.Int("epoch", epoch),
				zap.Float64("intercept", intercept),
				zap.Float64("slope", slope),
				zap.Float64("loss", loss),
			)
		}

		if tracker != nil && tracker.Update(loss) {
			res.Converged = true
			lg.Debug("converged early",
				zap.Int("epoch", epoch),
				zap.Float64("loss", loss),
			)
			break
		}
	}

	res.Intercept = intercept
	res.Slope = slope
	res.History = history
	return res, nil
}

// errorSums accumulates the prediction error and the error weighted by x across the dataset in order
func errorSums(ds *dataset.Dataset, intercept, slope float64) (float64, float64) {
	var sumErr, sumErrX float64
	for i, x := range ds.X {
		e := Predict(intercept, slope, x) - ds.Y[i]
		sumErr += e
		sumErrX += e * x
	}
	return sumErr, sumErrX
}

func meanSquaredError(ds *dataset.Dataset, intercept, slope float64) float64 {
	var sse float64
	for i, x := range ds.X {
		e := Predict(intercept, slope, x) - ds.Y[i]
		sse += e * e
	}
	return sse / float64(ds.Len())
}

func logDivergence(lg *zap.Logger, err *DivergenceError) error {
	lg.Error("gradient descent diverged",
		zap.Int("epoch", err.Epoch),
		zap.String("reason", err.Reason),
		zap.Float64("intercept", err.Intercept),
		zap.Float64("slope", err.Slope),
		zap.Float64("last_intercept", err.LastIntercept),
		zap.Float64("last_slope", err.LastSlope),
		zap.Float64("loss", err.Loss),
	)
	return err
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
