package params

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvStore keeps the parameters in two process environment variables
type EnvStore struct {
	names Names

	lookup func(string) (string, bool)
	set    func(string, string) error
}

// NewEnvStore returns a store over the process environment. Empty names fall back to the defaults.
func NewEnvStore(names Names) *EnvStore {
	if names.Intercept == "" {
		names.Intercept = DefaultInterceptName
	}
	if names.Slope == "" {
		names.Slope = DefaultSlopeName
	}
	return &EnvStore{
		names:  names,
		lookup: os.LookupEnv,
		set:    os.Setenv,
	}
}

func (e *EnvStore) Names() Names {
	return e.names
}

// Load reads both variables. A missing or empty variable defaults to 0 and the parameters are returned
// together with ErrMissingParameters naming the unset variables.
func (e *EnvStore) Load() (Parameters, error) {
	intercept, iFound, err := e.read(e.names.Intercept)
	if err != nil {
		return Parameters{}, err
	}
	slope, sFound, err := e.read(e.names.Slope)
	if err != nil {
		return Parameters{}, err
	}

	p := Parameters{Intercept: intercept, Slope: slope}

	var missing []string
	if !iFound {
		missing = append(missing, e.names.Intercept)
	}
	if !sFound {
		missing = append(missing, e.names.Slope)
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("%s unset, %w", strings.Join(missing, " and "), ErrMissingParameters)
	}
	return p, nil
}

func (e *EnvStore) read(name string) (float64, bool, error) {
	raw, found := e.lookup(name)
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		return 0.0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.0, true, fmt.Errorf("%s=%q, %w", name, raw, ErrMalformedValue)
	}
	return v, true, nil
}

// Save sets both variables for the current process and its children
func (e *EnvStore) Save(p Parameters) error {
	if err := e.set(e.names.Intercept, FormatFloat(p.Intercept)); err != nil {
		return fmt.Errorf("unable to set %s, %w", e.names.Intercept, err)
	}
	if err := e.set(e.names.Slope, FormatFloat(p.Slope)); err != nil {
		return fmt.Errorf("unable to set %s, %w", e.names.Slope, err)
	}
	return nil
}
