package main

import (
	linreg "github.com/aouyang1/go-linreg"
	"github.com/aouyang1/go-linreg/config"
	"github.com/aouyang1/go-linreg/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		dataPath   string
		paramsFile string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the dataset with the fitted line to an html page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			flags := cmd.Flags()
			if flags.Changed("data") {
				cfg.Data.Path = dataPath
			}
			if flags.Changed("params-file") {
				cfg.Params.File = paramsFile
			}
			if flags.Changed("out") {
				cfg.Plot.Output = output
			}

			ds, err := dataset.LoadCSVFile(cfg.Data.Path, &dataset.CSVOptions{
				XColumn: cfg.Data.XColumn,
				YColumn: cfg.Data.YColumn,
			})
			if err != nil {
				return err
			}
			p, err := a.loadParameters(cfg.Params.File)
			if err != nil {
				return err
			}

			if err := linreg.PlotParametersFile(cfg.Plot.Output, ds, p, axisNames(cfg.Data)); err != nil {
				return err
			}
			a.lg.Info("wrote plot", zap.String("path", cfg.Plot.Output))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Dataset csv path")
	cmd.Flags().StringVar(&paramsFile, "params-file", "", "Read the parameters from this json file instead of the environment")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output html path")
	return cmd
}

// axisNames keeps the mileage and price labels for the default columns and labels the axes with the
// configured column names otherwise
func axisNames(d config.DataConf) *linreg.AxisNames {
	if d.XColumn == dataset.DefaultXColumn && d.YColumn == dataset.DefaultYColumn {
		return nil
	}
	return &linreg.AxisNames{X: d.XColumn, Y: d.YColumn}
}
