package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// softmax normalizes v in place.
func softmax(v []float64) {
	lse := floats.LogSumExp(v)
	for i := range v {
		v[i] = math.Exp(v[i] - lse)
	}
}
