package NeuralNetwork

import "math"

// BCE is the mean binary cross-entropy between 0/1 labels and predicted p(y=1).
// Probabilities are clipped away from 0 and 1 so a confident miss stays finite.
func BCE(yTrue, yPred []float64) float64 {
	n := len(yTrue)
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := range n {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
	}
	return s / float64(n)
}
