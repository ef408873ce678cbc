// Package params persists the two fitted parameters of a linear model between the training and
// prediction steps. The process environment and a JSON file are supported as storage.
package params

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrMissingParameters = errors.New("no persisted parameters, defaulting to 0")
	ErrMalformedValue    = errors.New("persisted parameter is not a number")
	ErrNoStorePath       = errors.New("no parameter file path")
)

const (
	DefaultInterceptName = "LINREG_THETA0"
	DefaultSlopeName     = "LINREG_THETA1"
)

// Parameters are the intercept and slope of a fitted model in the original units of the data
type Parameters struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

// Store loads and saves parameters. Load returns usable Parameters alongside an error wrapping
// ErrMissingParameters when some value was never saved; callers treat that as a warning.
type Store interface {
	Load() (Parameters, error)
	Save(p Parameters) error
}

// Names are the keys the two parameters are stored under
type Names struct {
	Intercept string
	Slope     string
}

func NewDefaultNames() Names {
	return Names{
		Intercept: DefaultInterceptName,
		Slope:     DefaultSlopeName,
	}
}

// FormatFloat renders a parameter so that parsing it back gives the same float64
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Export writes the fitted values followed by shell export statements that persist them
func Export(w io.Writer, names Names, p Parameters) error {
	if _, err := fmt.Fprintf(w, "Optimized theta values:\n- t0: %s\n- t1: %s\n\n",
		FormatFloat(p.Intercept), FormatFloat(p.Slope)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Export them with:\nexport %s=%s\nexport %s=%s\n",
		names.Intercept, FormatFloat(p.Intercept),
		names.Slope, FormatFloat(p.Slope)); err != nil {
		return err
	}
	return nil
}
