// Package model wraps the classifiers the examples train: a softmax
// logistic regression built on gorgonia, golearn's CART decision tree and
// kNN, and a go-deep multilayer perceptron.
package model

import (
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/vandoorenxander/mlexamples/dataset"
)

// ErrFit marks failures while fitting a model or predicting with it.
var ErrFit = errors.New("model fit")

// Kind names a classifier.
type Kind string

const (
	LogisticKind Kind = "logistic"
	TreeKind     Kind = "tree"
	KNNKind      Kind = "knn"
	MLPKind      Kind = "mlp"
)

// Classifier is trained on a Dataset and predicts one label per feature row.
type Classifier interface {
	Fit(ds *dataset.Dataset) error
	Predict(x *mat.Dense) ([]string, error)
}

// LossReporter is implemented by classifiers that record a per-iteration
// training loss.
type LossReporter interface {
	Losses() []float64
}

// Config selects and parameterizes a classifier. Zero values fall back to
// the defaults of each model.
type Config struct {
	Kind         Kind    `yaml:"kind"`
	Iterations   int     `yaml:"iterations"`
	LearningRate float64 `yaml:"learning_rate"`
	MaxDepth     int     `yaml:"max_depth"`
	MinWeight    float64 `yaml:"min_weight"`
	Neighbours   int     `yaml:"neighbours"`
	Hidden       int     `yaml:"hidden"`
	Seed         int64   `yaml:"seed"`

	// Progress receives a progress bar during iterative fits when set.
	Progress io.Writer `yaml:"-"`
}

// New builds the classifier described by cfg.
func New(cfg Config) (Classifier, error) {
	switch cfg.Kind {
	case LogisticKind, "":
		return NewLogistic(cfg), nil
	case TreeKind:
		return NewTree(cfg), nil
	case KNNKind:
		return NewKNN(cfg), nil
	case MLPKind:
		return NewMLP(cfg), nil
	}
	return nil, errors.Errorf("unknown model kind %q", cfg.Kind)
}

// classIndex maps each class to its position in classes.
func classIndex(classes []string) map[string]int {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return idx
}

func checkFeatures(x *mat.Dense, want int) error {
	if x == nil {
		return errors.Wrap(ErrFit, "nil feature matrix")
	}
	if _, c := x.Dims(); c != want {
		return errors.Wrapf(ErrFit, "got %d features, model was fitted on %d", c, want)
	}
	return nil
}

func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
