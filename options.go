package linreg

import (
	"github.com/aouyang1/go-linreg/models"
	"go.uber.org/zap"
)

// Options configures a Regressor
type Options struct {
	// Normalize rescales x into [0, 1] before training and maps the fitted parameters back to the
	// original units afterwards
	Normalize bool `json:"normalize"`

	GradientDescentOptions *models.GradientDescentOptions `json:"gradient_descent"`

	// AxisNames labels the PlotFit axes. Nil uses the mileage and price labels.
	AxisNames *AxisNames `json:"axis_names,omitempty"`

	Logger *zap.Logger `json:"-"`
}

// NewDefaultOptions normalizes the input and trains with the default gradient descent options
func NewDefaultOptions() *Options {
	return &Options{
		Normalize:              true,
		GradientDescentOptions: models.NewDefaultGradientDescentOptions(),
	}
}
