package linreg

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aouyang1/go-linreg/normalize"
	"github.com/aouyang1/go-linreg/params"
	"github.com/aouyang1/go-linreg/stats"
)

// Model represents a serializeable format of a fitted regressor storing the options, the fitted
// parameters in original units, the normalization range and the fit scores
type Model struct {
	Options    *Options          `json:"options"`
	Parameters params.Parameters `json:"parameters"`
	Range      *normalize.Range  `json:"range,omitempty"`
	Scores     *stats.Scores     `json:"scores"`
	Epochs     int               `json:"epochs"`
	Converged  bool              `json:"converged"`
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if m.Options != nil {
		if _, err := fmt.Fprintf(w, "%s%sOptions:\n", prefix, indentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sNormalize: %t\n", prefix, indentExpand(indent, 1), m.Options.Normalize); err != nil {
			return err
		}
		if gd := m.Options.GradientDescentOptions; gd != nil {
			if _, err := fmt.Fprintf(w, "%s%sLearning Rate: %.3f    Epochs: %d    Gradient Scale: %s\n",
				prefix, indentExpand(indent, 1),
				gd.LearningRate, gd.Epochs, gd.GradientScale); err != nil {
				return err
			}
			if !gd.Convergence.Enabled {
				if _, err := fmt.Fprintf(w, "%s%sConvergence: None\n", prefix, indentExpand(indent, 1)); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, "%s%sConvergence: Patience: %d    Threshold: %g\n",
					prefix, indentExpand(indent, 1),
					gd.Convergence.Patience, gd.Convergence.Threshold); err != nil {
					return err
				}
			}
		}
	}

	if m.Range != nil {
		if _, err := fmt.Fprintf(w, "%s%sRange:\n", prefix, indentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMin: %.3f    Max: %.3f\n",
			prefix, indentExpand(indent, 1), m.Range.Min, m.Range.Max); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s%sTraining:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sEpochs Run: %d    Converged: %t\n",
		prefix, indentExpand(indent, 1), m.Epochs, m.Converged); err != nil {
		return err
	}

	if m.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			prefix, indentExpand(indent, 1),
			m.Scores.MAPE,
			m.Scores.MSE,
			m.Scores.R2,
		); err != nil {
			return err
		}
	}

	return m.tablePrintWeights(w, prefix, indent)
}

func (m Model) tablePrintWeights(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sWeights:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sType\tValue\t\n", prefix, indentExpand(indent, 1)); err != nil {
		return err
	}
	rows := []struct {
		name  string
		value float64
	}{
		{"Intercept", m.Parameters.Intercept},
		{"Slope", m.Parameters.Slope},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%.6f\t\n",
			prefix, indentExpand(indent, 1), row.name, row.value); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func indentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}
