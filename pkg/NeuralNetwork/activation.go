package NeuralNetwork

import "math"

// Sigmoid maps a logit to (0, 1). Large negative inputs are computed through
// exp(x) so the result does not underflow to NaN.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}
