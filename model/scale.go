package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// scaler standardizes feature columns to zero mean and unit variance using
// the statistics of the training matrix.
type scaler struct {
	mean, std []float64
}

func fitScaler(x *mat.Dense) scaler {
	_, c := x.Dims()
	s := scaler{mean: make([]float64, c), std: make([]float64, c)}
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, x)
		s.mean[j], s.std[j] = stat.MeanStdDev(col, nil)
		if s.std[j] == 0 || math.IsNaN(s.std[j]) {
			s.std[j] = 1
		}
	}
	return s
}

// withBias returns the standardized rows of x, row-major, with a trailing
// constant 1 column for the intercept.
func (s scaler) withBias(x *mat.Dense) []float64 {
	r, c := x.Dims()
	out := make([]float64, 0, r*(c+1))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, (x.At(i, j)-s.mean[j])/s.std[j])
		}
		out = append(out, 1)
	}
	return out
}
