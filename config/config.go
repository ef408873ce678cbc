// Package config handles training and prediction configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aouyang1/go-linreg/models"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config defines the structure for all application configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Data     DataConf       `yaml:"data"`
	Train    TrainConf      `yaml:"train"`
	Params   ParametersConf `yaml:"parameters"`
	Plot     PlotConf       `yaml:"plot"`
}

// DataConf locates the training csv and names its header columns
type DataConf struct {
	Path    string `yaml:"path"`
	XColumn string `yaml:"x_column"`
	YColumn string `yaml:"y_column"`
}

// TrainConf holds the gradient descent settings
type TrainConf struct {
	LearningRate  float64                   `yaml:"learning_rate"`
	Epochs        int                       `yaml:"epochs"`
	Normalize     bool                      `yaml:"normalize"`
	GradientScale models.GradientScale      `yaml:"gradient_scale"`
	Convergence   models.ConvergenceOptions `yaml:"convergence"`
}

// ParametersConf sets where fitted parameters are persisted. File is optional; when empty the
// environment variables are used.
type ParametersConf struct {
	InterceptEnv string `yaml:"intercept_env"`
	SlopeEnv     string `yaml:"slope_env"`
	File         string `yaml:"file"`
}

// PlotConf holds the visualization output path
type PlotConf struct {
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Data: DataConf{
			Path:    "data.csv",
			XColumn: "km",
			YColumn: "price",
		},
		Train: TrainConf{
			LearningRate:  models.DefaultLearningRate,
			Epochs:        models.DefaultEpochs,
			Normalize:     true,
			GradientScale: models.ScaleBySamples,
			Convergence:   models.NewDisabledConvergenceOptions(),
		},
		Params: ParametersConf{
			InterceptEnv: "LINREG_THETA0",
			SlopeEnv:     "LINREG_THETA1",
		},
		Plot: PlotConf{
			Output: "linreg.html",
		},
	}
}

// Load reads the optional YAML file at path over the defaults and then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config %s, %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LINREG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LINREG_DATA"); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv("LINREG_PARAMS_FILE"); v != "" {
		c.Params.File = v
	}
	if v := os.Getenv("LINREG_LEARNING_RATE"); v != "" {
		lr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LINREG_LEARNING_RATE=%q, %w", v, ErrInvalidConfig)
		}
		c.Train.LearningRate = lr
	}
	if v := os.Getenv("LINREG_EPOCHS"); v != "" {
		epochs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LINREG_EPOCHS=%q, %w", v, ErrInvalidConfig)
		}
		c.Train.Epochs = epochs
	}
	return nil
}

// Validate checks the values that cannot be defaulted later
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q, %w", c.LogLevel, ErrInvalidConfig)
	}
	if c.Data.XColumn == "" || c.Data.YColumn == "" {
		return fmt.Errorf("data columns must be named, %w", ErrInvalidConfig)
	}
	if c.Params.InterceptEnv == "" || c.Params.SlopeEnv == "" {
		return fmt.Errorf("parameter environment names must be set, %w", ErrInvalidConfig)
	}
	return nil
}

// GradientDescentOptions converts the training section into engine options
func (t TrainConf) GradientDescentOptions() *models.GradientDescentOptions {
	opt := models.NewDefaultGradientDescentOptions()
	opt.LearningRate = t.LearningRate
	opt.Epochs = t.Epochs
	opt.GradientScale = t.GradientScale
	opt.Convergence = t.Convergence
	return opt
}
