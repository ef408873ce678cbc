package linreg

// Results holds the predicted value for each input
type Results struct {
	X         []float64 `json:"x"`
	Predicted []float64 `json:"predicted"`
}
