package linreg

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aouyang1/go-linreg/dataset"
	"github.com/aouyang1/go-linreg/models"
	"github.com/aouyang1/go-linreg/normalize"
	"github.com/aouyang1/go-linreg/params"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/stat"
)

func newTestRegressor(t *testing.T, normalized bool, lr float64, epochs int) *Regressor {
	t.Helper()
	opt := NewDefaultOptions()
	opt.Normalize = normalized
	opt.GradientDescentOptions.LearningRate = lr
	opt.GradientDescentOptions.Epochs = epochs

	r, err := New(opt)
	require.Nil(t, err)
	return r
}

func loadCars(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.LoadCSVFile(filepath.Join("testdata", "data.csv"), nil)
	require.Nil(t, err)
	return ds
}

func TestFitEndToEnd(t *testing.T) {
	r := newTestRegressor(t, true, 0.5, 1000)
	err := r.Fit([]float64{10000, 20000, 30000}, []float64{9000, 8000, 7000})
	require.Nil(t, err)

	assert.InDelta(t, 10000.0, r.Intercept(), 1.0)
	assert.InDelta(t, -0.1, r.Slope(), 1.0)
	assert.InDelta(t, 10000.0, r.Intercept(), 1e-6)
	assert.InDelta(t, -0.1, r.Slope(), 1e-9)

	y, err := r.PredictValue(25000)
	require.Nil(t, err)
	assert.InDelta(t, 7500.0, y, 1e-6)

	res, err := r.Predict([]float64{0, 25000})
	require.Nil(t, err)
	assert.Equal(t, []float64{0, 25000}, res.X)
	assert.InDeltaSlice(t, []float64{10000, 7500}, res.Predicted, 1e-6)

	rng, ok := r.Range()
	require.True(t, ok)
	assert.Equal(t, normalize.Range{Min: 10000, Max: 30000}, rng)

	assert.Equal(t, 1000, r.Epochs())
	assert.False(t, r.Converged())
	assert.Len(t, r.History(), 1001)
	assert.InDelta(t, 1.0, r.Scores().R2, 1e-9)
	assert.Equal(t, params.Parameters{Intercept: r.Intercept(), Slope: r.Slope()}, r.Parameters())

	eq, err := r.ModelEq()
	require.Nil(t, err)
	assert.Equal(t, "y ~ 10000.00-0.100000*x", eq)
}

func TestFitDenormalizationRoundTrip(t *testing.T) {
	ds := loadCars(t)
	opt := &models.GradientDescentOptions{LearningRate: 0.5, Epochs: 2000}

	r, err := New(&Options{Normalize: true, GradientDescentOptions: opt})
	require.Nil(t, err)
	require.Nil(t, r.FitDataset(ds))

	rng, ok := r.Range()
	require.True(t, ok)
	normDs, err := normalize.NormalizeDataset(ds, rng)
	require.Nil(t, err)
	normRes, err := models.Train(normDs, opt)
	require.Nil(t, err)

	for _, x := range []float64{0, 22899, 61789, 101000, 240000, 300000} {
		xn, err := normalize.Normalize(x, rng)
		require.Nil(t, err)

		expected := models.Predict(normRes.Intercept, normRes.Slope, xn)
		actual, err := r.PredictValue(x)
		require.Nil(t, err)
		assert.InEpsilon(t, expected, actual, 1e-9, "x=%f", x)
	}
}

func TestFitMatchesClosedForm(t *testing.T) {
	ds := loadCars(t)

	r := newTestRegressor(t, true, 1.0, 10000)
	require.Nil(t, r.FitDataset(ds))

	intercept, slope := stat.LinearRegression(ds.X, ds.Y, nil, false)
	assert.InDelta(t, intercept, r.Intercept(), 1e-6)
	assert.InDelta(t, slope, r.Slope(), 1e-9)

	scores := r.Scores()
	assert.Greater(t, scores.R2, 0.7)
	assert.Less(t, scores.R2, 0.75)
}

func TestFitErrors(t *testing.T) {
	testData := map[string]struct {
		normalized bool
		lr         float64
		epochs     int
		x          []float64
		y          []float64
		err        error
	}{
		"empty dataset": {
			normalized: true,
			lr:         0.5,
			epochs:     10,
			err:        dataset.ErrEmptyDataset,
		},
		"length mismatch": {
			normalized: true,
			lr:         0.5,
			epochs:     10,
			x:          []float64{1, 2},
			y:          []float64{1},
			err:        dataset.ErrDatasetLenMismatch,
		},
		"zero variance": {
			normalized: true,
			lr:         0.5,
			epochs:     10,
			x:          []float64{100, 100, 100},
			y:          []float64{1, 2, 3},
			err:        normalize.ErrDegenerateRange,
		},
		"infinite mileage": {
			normalized: true,
			lr:         0.5,
			epochs:     10,
			x:          []float64{math.Inf(1), 20000, 30000},
			y:          []float64{9000, 8000, 7000},
			err:        normalize.ErrNonFiniteRange,
		},
		"overflowing range": {
			normalized: true,
			lr:         0.5,
			epochs:     10,
			x:          []float64{-1e308, 0, 1e308},
			y:          []float64{9000, 8000, 7000},
			err:        normalize.ErrNonFiniteRange,
		},
		"infinite mileage without normalization": {
			normalized: false,
			lr:         0.5,
			epochs:     10,
			x:          []float64{math.Inf(1), 20000, 30000},
			y:          []float64{9000, 8000, 7000},
			err:        models.ErrNonFiniteObservation,
		},
		"raw mileage diverges": {
			normalized: false,
			lr:         0.5,
			epochs:     1000,
			x:          []float64{240000, 139800, 150500, 22899},
			y:          []float64{3650, 3800, 4400, 7990},
			err:        models.ErrDiverged,
		},
		"oversized learning rate": {
			normalized: false,
			lr:         10,
			epochs:     50,
			x:          []float64{0, 1},
			y:          []float64{0, 100},
			err:        models.ErrDiverged,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r := newTestRegressor(t, td.normalized, td.lr, td.epochs)
			err := r.Fit(td.x, td.y)
			require.NotNil(t, err)
			assert.ErrorIs(t, err, td.err)

			_, err = r.PredictValue(1)
			assert.ErrorIs(t, err, ErrUntrainedRegressor)
			_, err = r.Model()
			assert.ErrorIs(t, err, ErrUntrainedRegressor)
		})
	}
}

func TestFitDivergenceLeavesRegressorUntrained(t *testing.T) {
	r := newTestRegressor(t, false, 10, 50)

	err := r.Fit([]float64{0, 1}, []float64{0, 100})
	var divErr *models.DivergenceError
	require.True(t, errors.As(err, &divErr))
	assert.Less(t, divErr.Epoch, 50)
	assert.Nil(t, r.TrainingData())
	assert.Empty(t, r.History())
	assert.Equal(t, params.Parameters{}, r.Parameters())
}

func TestFitWithoutNormalization(t *testing.T) {
	r := newTestRegressor(t, false, 0.5, 1000)
	require.Nil(t, r.Fit([]float64{0, 0.5, 1}, []float64{9000, 8000, 7000}))

	_, ok := r.Range()
	assert.False(t, ok)
	assert.InDelta(t, 9000.0, r.Intercept(), 1e-6)
	assert.InDelta(t, -2000.0, r.Slope(), 1e-6)
}

func TestNewLoggerFallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gdOpt := models.NewDefaultGradientDescentOptions()
	gdOpt.Logger = zap.New(core)

	r, err := New(&Options{Normalize: true, GradientDescentOptions: gdOpt})
	require.Nil(t, err)
	require.Nil(t, r.Fit([]float64{10000, 20000, 30000}, []float64{9000, 8000, 7000}))

	assert.Equal(t, 1, logs.FilterMessage("starting gradient descent").Len())
	assert.Equal(t, 1, logs.FilterMessage("training complete").Len())

	regCore, regLogs := observer.New(zapcore.DebugLevel)
	gdCore, gdLogs := observer.New(zapcore.DebugLevel)
	gdOpt = models.NewDefaultGradientDescentOptions()
	gdOpt.Logger = zap.New(gdCore)

	r, err = New(&Options{Normalize: true, GradientDescentOptions: gdOpt, Logger: zap.New(regCore)})
	require.Nil(t, err)
	require.Nil(t, r.Fit([]float64{10000, 20000, 30000}, []float64{9000, 8000, 7000}))

	assert.Equal(t, 1, gdLogs.FilterMessage("starting gradient descent").Len())
	assert.Equal(t, 0, gdLogs.FilterMessage("training complete").Len())
	assert.Equal(t, 0, regLogs.FilterMessage("starting gradient descent").Len())
	assert.Equal(t, 1, regLogs.FilterMessage("training complete").Len())
}

func TestNewInvalidOptions(t *testing.T) {
	_, err := New(&Options{GradientDescentOptions: &models.GradientDescentOptions{LearningRate: -1, Epochs: 1}})
	assert.ErrorIs(t, err, models.ErrNonPositiveRate)

	_, err = NewFromModel(Model{})
	assert.ErrorIs(t, err, ErrNoOptionsInModel)
}

func TestModelRoundTrip(t *testing.T) {
	r := newTestRegressor(t, true, 0.5, 1000)
	require.Nil(t, r.FitDataset(loadCars(t)))

	m, err := r.Model()
	require.Nil(t, err)

	out, err := json.MarshalIndent(m, "", "  ")
	require.Nil(t, err)

	var loaded Model
	require.Nil(t, json.Unmarshal(out, &loaded))

	r2, err := NewFromModel(loaded)
	require.Nil(t, err)
	assert.Equal(t, r.Parameters(), r2.Parameters())
	assert.Equal(t, r.Scores(), r2.Scores())
	assert.Equal(t, r.Epochs(), r2.Epochs())

	rng, ok := r2.Range()
	require.True(t, ok)
	expected, _ := r.Range()
	assert.Equal(t, expected, rng)

	for _, x := range []float64{0, 50000, 250000} {
		y1, err := r.PredictValue(x)
		require.Nil(t, err)
		y2, err := r2.PredictValue(x)
		require.Nil(t, err)
		assert.Equal(t, y1, y2)
	}
}

func TestNewFromParameters(t *testing.T) {
	r := NewFromParameters(params.Parameters{Intercept: 10000, Slope: -0.1})
	y, err := r.PredictValue(25000)
	require.Nil(t, err)
	assert.InDelta(t, 7500.0, y, 1e-9)

	zero := NewFromParameters(params.Parameters{})
	y, err = zero.PredictValue(25000)
	require.Nil(t, err)
	assert.Equal(t, 0.0, y)

	assert.ErrorIs(t, zero.PlotFit(filepath.Join(t.TempDir(), "fit.html")), ErrNoTrainingData)
}

func TestPlotFit(t *testing.T) {
	r := newTestRegressor(t, true, 0.5, 200)
	require.Nil(t, r.FitDataset(loadCars(t)))

	path := filepath.Join(t.TempDir(), "fit.html")
	require.Nil(t, r.PlotFit(path))

	out, err := os.ReadFile(path)
	require.Nil(t, err)
	html := string(out)
	assert.Contains(t, html, "Linear Regression Fit")
	assert.Contains(t, html, "Observations")
	assert.Contains(t, html, "Training Loss")

	untrained := newTestRegressor(t, true, 0.5, 10)
	assert.ErrorIs(t, untrained.PlotFit(path), ErrUntrainedRegressor)
}

func TestPlotParameters(t *testing.T) {
	var buf bytes.Buffer
	err := PlotParameters(&buf, loadCars(t), params.Parameters{Intercept: 8499.6, Slope: -0.0214}, nil)
	require.Nil(t, err)

	html := buf.String()
	assert.Contains(t, html, "Observations")
	assert.Contains(t, html, "Fit")
	assert.True(t, strings.Contains(html, "-0.0214x"))
	assert.Contains(t, html, DefaultXAxisName)
	assert.Contains(t, html, DefaultYAxisName)
}
