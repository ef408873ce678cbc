package main

import (
	"errors"
	"fmt"

	linreg "github.com/aouyang1/go-linreg"
	"github.com/aouyang1/go-linreg/dataset"
	"github.com/aouyang1/go-linreg/models"
	"github.com/aouyang1/go-linreg/params"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrUnknownProfile = errors.New("unknown profile mode, expected cpu or mem")

type trainFlags struct {
	dataPath      string
	learningRate  float64
	epochs        int
	normalize     bool
	gradientScale string
	paramsFile    string
	profileMode   string
	summary       bool
}

func newTrainCmd(a *app) *cobra.Command {
	f := &trainFlags{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the model on a csv dataset and print the fitted parameters",
		Long: `Fits intercept and slope with batch gradient descent on the csv dataset. The parameters are
printed with the export statements for the environment store and saved to --params-file when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTrain(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.dataPath, "data", "", "Training csv path")
	cmd.Flags().Float64VarP(&f.learningRate, "learning-rate", "l", models.DefaultLearningRate, "Gradient descent learning rate")
	cmd.Flags().IntVarP(&f.epochs, "epochs", "e", models.DefaultEpochs, "Number of epochs")
	cmd.Flags().BoolVar(&f.normalize, "normalize", true, "Min-max normalize x before training")
	cmd.Flags().StringVar(&f.gradientScale, "gradient-scale", string(models.ScaleBySamples), "Gradient divisor: samples or epochs")
	cmd.Flags().StringVar(&f.paramsFile, "params-file", "", "Save the fitted parameters to this json file")
	cmd.Flags().StringVar(&f.profileMode, "profile", "", "Profile training: cpu or mem")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "Print the model summary table")
	return cmd
}

func (a *app) runTrain(cmd *cobra.Command, f *trainFlags) error {
	cfg := *a.cfg
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path = f.dataPath
	}
	if flags.Changed("learning-rate") {
		cfg.Train.LearningRate = f.learningRate
	}
	if flags.Changed("epochs") {
		cfg.Train.Epochs = f.epochs
	}
	if flags.Changed("normalize") {
		cfg.Train.Normalize = f.normalize
	}
	if flags.Changed("gradient-scale") {
		cfg.Train.GradientScale = models.GradientScale(f.gradientScale)
	}
	if flags.Changed("params-file") {
		cfg.Params.File = f.paramsFile
	}

	gdOpt := cfg.Train.GradientDescentOptions()
	gdOpt.Logger = a.lg
	r, err := linreg.New(&linreg.Options{
		Normalize:              cfg.Train.Normalize,
		GradientDescentOptions: gdOpt,
		Logger:                 a.lg,
	})
	if err != nil {
		return err
	}

	ds, err := dataset.LoadCSVFile(cfg.Data.Path, &dataset.CSVOptions{
		XColumn: cfg.Data.XColumn,
		YColumn: cfg.Data.YColumn,
	})
	if err != nil {
		return err
	}
	a.lg.Info("loaded dataset", zap.String("path", cfg.Data.Path), zap.Int("observations", ds.Len()))

	switch f.profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("%q, %w", f.profileMode, ErrUnknownProfile)
	}

	if err := r.FitDataset(ds); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.summary {
		m, err := r.Model()
		if err != nil {
			return err
		}
		if err := m.TablePrint(out, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	p := r.Parameters()
	if cfg.Params.File != "" {
		store, err := params.NewFileStore(cfg.Params.File)
		if err != nil {
			return err
		}
		if err := store.Save(p); err != nil {
			return err
		}
		a.lg.Info("saved parameters", zap.String("path", store.Path()))
	}
	return params.Export(out, a.names(), p)
}
