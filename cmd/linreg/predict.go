package main

import (
	"fmt"

	linreg "github.com/aouyang1/go-linreg"
	"github.com/aouyang1/go-linreg/params"
	"github.com/spf13/cobra"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		mileage    float64
		paramsFile string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the price for a mileage from the persisted parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Params.File
			if cmd.Flags().Changed("params-file") {
				path = paramsFile
			}
			p, err := a.loadParameters(path)
			if err != nil {
				return err
			}

			y, err := linreg.NewFromParameters(p).PredictValue(mileage)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), params.FormatFloat(y))
			return err
		},
	}

	cmd.Flags().Float64VarP(&mileage, "mileage", "m", 0, "Mileage to estimate the price for (required)")
	cmd.Flags().StringVar(&paramsFile, "params-file", "", "Read the parameters from this json file instead of the environment")
	_ = cmd.MarkFlagRequired("mileage")
	return cmd
}
