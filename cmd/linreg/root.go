package main

import (
	"errors"

	"github.com/aouyang1/go-linreg/config"
	"github.com/aouyang1/go-linreg/params"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every subcommand once the persistent flags are parsed
type app struct {
	logLevel   string
	configPath string

	cfg *config.Config
	lg  *zap.Logger
}

func newRootCmd() *cobra.Command {
	return newAppCmd(&app{})
}

// newAppCmd builds the command tree around a. A logger already set on a is kept.
func newAppCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linreg",
		Short: "Single variable linear regression trained with gradient descent",
		Long: `linreg fits price ~ theta0 + theta1*mileage on a csv of observations with batch
gradient descent, persists the fitted parameters and predicts from them.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.lg != nil {
				_ = a.lg.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a yaml config file")

	rootCmd.AddCommand(
		newTrainCmd(a),
		newPredictCmd(a),
		newPlotCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if a.lg == nil {
		lg, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		a.lg = lg
	}
	return nil
}

// newLogger builds a development logger for debug output and a production logger otherwise. Both
// write to stderr so stdout only carries command results.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// paramStore returns the file store when a parameter file is configured and the environment store
// otherwise
func (a *app) paramStore(path string) (params.Store, error) {
	if path != "" {
		return params.NewFileStore(path)
	}
	return params.NewEnvStore(a.names()), nil
}

func (a *app) names() params.Names {
	return params.Names{
		Intercept: a.cfg.Params.InterceptEnv,
		Slope:     a.cfg.Params.SlopeEnv,
	}
}

// loadParameters reads the persisted parameters. Missing parameters are only a warning and the
// zero parameters are used.
func (a *app) loadParameters(path string) (params.Parameters, error) {
	store, err := a.paramStore(path)
	if err != nil {
		return params.Parameters{}, err
	}
	p, err := store.Load()
	if err != nil {
		if !errors.Is(err, params.ErrMissingParameters) {
			return params.Parameters{}, err
		}
		a.lg.Warn("using zero parameters", zap.Error(err))
	}
	return p, nil
}
