// Command linreg trains a single variable linear regression with gradient descent, predicts from
// the fitted parameters and plots them against the training data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "linreg: %v\n", err)
		os.Exit(1)
	}
}
