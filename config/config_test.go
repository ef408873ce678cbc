package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-linreg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
data:
  path: cars.csv
train:
  learning_rate: 0.1
  epochs: 5000
  normalize: false
  gradient_scale: epochs
  convergence:
    enabled: true
    patience: 4
    threshold: 0.001
parameters:
  file: params.json
`)

	cfg, err := Load(path)
	require.Nil(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "cars.csv", cfg.Data.Path)
	assert.Equal(t, "km", cfg.Data.XColumn)
	assert.Equal(t, 0.1, cfg.Train.LearningRate)
	assert.Equal(t, 5000, cfg.Train.Epochs)
	assert.False(t, cfg.Train.Normalize)
	assert.Equal(t, models.ScaleByEpochs, cfg.Train.GradientScale)
	assert.Equal(t, models.ConvergenceOptions{Enabled: true, Patience: 4, Threshold: 0.001}, cfg.Train.Convergence)
	assert.Equal(t, "params.json", cfg.Params.File)
	assert.Equal(t, "LINREG_THETA0", cfg.Params.InterceptEnv)

	opt := cfg.Train.GradientDescentOptions()
	assert.Equal(t, 0.1, opt.LearningRate)
	assert.Equal(t, 5000, opt.Epochs)
	assert.Equal(t, models.ScaleByEpochs, opt.GradientScale)
	assert.True(t, opt.Convergence.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "train:\n  learning_rate: 0.1\n")
	t.Setenv("LINREG_LEARNING_RATE", "0.75")
	t.Setenv("LINREG_EPOCHS", "42")
	t.Setenv("LINREG_LOG_LEVEL", "warn")
	t.Setenv("LINREG_DATA", "other.csv")
	t.Setenv("LINREG_PARAMS_FILE", "p.json")

	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, 0.75, cfg.Train.LearningRate)
	assert.Equal(t, 42, cfg.Train.Epochs)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "other.csv", cfg.Data.Path)
	assert.Equal(t, "p.json", cfg.Params.File)
}

func TestLoadErrors(t *testing.T) {
	testData := map[string]struct {
		content string
		env     map[string]string
		invalid bool
	}{
		"bad yaml": {
			content: "train: [",
		},
		"bad log level": {
			content: "log_level: loud\n",
			invalid: true,
		},
		"empty column": {
			content: "data:\n  x_column: \"\"\n",
			invalid: true,
		},
		"bad env epochs": {
			env:     map[string]string{"LINREG_EPOCHS": "many"},
			invalid: true,
		},
		"bad env learning rate": {
			env:     map[string]string{"LINREG_LEARNING_RATE": "fast"},
			invalid: true,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			for k, v := range td.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, td.content))
			require.NotNil(t, err)
			if td.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
