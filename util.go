package linreg

import (
	"io"
	"os"

	"github.com/aouyang1/go-linreg/dataset"
	"github.com/aouyang1/go-linreg/models"
	"github.com/aouyang1/go-linreg/params"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultXAxisName = "Mileage (km)"
	DefaultYAxisName = "Price"
)

// AxisNames labels the x and y axes of the fit plots
type AxisNames struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func NewDefaultAxisNames() *AxisNames {
	return &AxisNames{
		X: DefaultXAxisName,
		Y: DefaultYAxisName,
	}
}

func (a *AxisNames) orDefault() AxisNames {
	names := *NewDefaultAxisNames()
	if a == nil {
		return names
	}
	if a.X != "" {
		names.X = a.X
	}
	if a.Y != "" {
		names.Y = a.Y
	}
	return names
}

// ScatterFit generates an echart scatter plot of the observations with the line given by the
// parameters drawn across the observed x range. Nil or empty axis names fall back to the mileage and
// price labels.
func ScatterFit(title string, ds *dataset.Dataset, p params.Parameters, axes *AxisNames) *charts.Scatter {
	names := axes.orDefault()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    title,
				Subtitle: fitSubtitle(p),
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: names.X,
				Type: "value",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: names.Y,
				Type: "value",
			},
		),
	)

	scatterData := make([]opts.ScatterData, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		scatterData = append(scatterData, opts.ScatterData{Value: []float64{ds.X[i], ds.Y[i]}})
	}
	scatter.AddSeries("Observations", scatterData)

	if ds.Len() > 0 {
		minX, maxX := floats.Min(ds.X), floats.Max(ds.X)

		line := charts.NewLine()
		line.AddSeries("Fit", []opts.LineData{
			{Value: []float64{minX, models.Predict(p.Intercept, p.Slope, minX)}, Symbol: "none"},
			{Value: []float64{maxX, models.Predict(p.Intercept, p.Slope, maxX)}, Symbol: "none"},
		})
		scatter.Overlap(line)
	}
	return scatter
}

// LineLoss generates an echart line chart of the mean squared error per epoch
func LineLoss(title string, history []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	epochs := make([]int, 0, len(history))
	lineData := make([]opts.LineData, 0, len(history))
	for i, loss := range history {
		epochs = append(epochs, i)
		lineData = append(lineData, opts.LineData{Value: loss})
	}

	line.SetXAxis(epochs).AddSeries("MSE", lineData)
	return line
}

// PlotParameters renders the observations with the line given by previously fitted parameters to
// an html page
func PlotParameters(w io.Writer, ds *dataset.Dataset, p params.Parameters, axes *AxisNames) error {
	page := components.NewPage()
	page.AddCharts(ScatterFit("Linear Regression", ds, p, axes))
	return page.Render(w)
}

// PlotParametersFile writes the PlotParameters page to path
func PlotParametersFile(path string, ds *dataset.Dataset, p params.Parameters, axes *AxisNames) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return PlotParameters(file, ds, p, axes)
}

func fitSubtitle(p params.Parameters) string {
	return "y = " + params.FormatFloat(p.Slope) + "x + " + params.FormatFloat(p.Intercept)
}
