// Package models holds the single variable linear model, the batch gradient descent engine that
// fits it and the prediction function shared by training and inference.
package models

// Model is a fitted single variable linear model
type Model interface {
	Fit(x, y []float64) error
	Predict(x []float64) ([]float64, error)
	Score(x, y []float64) (float64, error)
	Intercept() float64
	Coef() []float64
}

// Predict evaluates intercept + slope*x. Training error and inference both go through this function.
func Predict(intercept, slope, x float64) float64 {
	return intercept + slope*x
}
