package model

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/trees"
	"gonum.org/v1/gonum/mat"

	"github.com/vandoorenxander/mlexamples/dataset"
)

const (
	DefaultMaxDepth  = 100
	DefaultMinWeight = 1.0
	giniCriterion    = "gini"
)

// Tree is a CART decision tree split on Gini impurity.
type Tree struct {
	MaxDepth int
	// MinWeight is the minimum weight of a split or leaf. golearn's CART
	// grows leaves down to a single sample, so only 1 is accepted.
	MinWeight float64

	golearnModel
	tree *trees.CARTDecisionTreeClassifier
}

// NewTree returns an unfitted decision tree.
func NewTree(cfg Config) *Tree {
	t := &Tree{MaxDepth: cfg.MaxDepth, MinWeight: cfg.MinWeight}
	if t.MaxDepth <= 0 {
		t.MaxDepth = DefaultMaxDepth
	}
	if t.MinWeight <= 0 {
		t.MinWeight = DefaultMinWeight
	}
	return t
}

func (t *Tree) Fit(ds *dataset.Dataset) error {
	if t.MinWeight != DefaultMinWeight {
		return errors.Wrapf(ErrFit, "minimum split weight %v is not supported", t.MinWeight)
	}
	inst, err := t.trainingSet(ds)
	if err != nil {
		return err
	}
	labels := make([]int64, len(t.classes))
	for i := range labels {
		labels[i] = int64(i)
	}
	t.tree = trees.NewDecisionTreeClassifier(giniCriterion, int64(t.MaxDepth), labels)
	if err := t.tree.Fit(inst); err != nil {
		return errors.Wrapf(ErrFit, "unable to grow decision tree: %v", err)
	}
	log.Debug().Int("max_depth", t.MaxDepth).Int("classes", len(t.classes)).Msg("fitted decision tree")
	return nil
}

func (t *Tree) Predict(x *mat.Dense) ([]string, error) {
	if t.tree == nil {
		return nil, errors.Wrap(ErrFit, "decision tree is not fitted")
	}
	inst, err := t.querySet(x)
	if err != nil {
		return nil, err
	}
	preds := t.tree.Predict(inst)
	out := make([]string, len(preds))
	for i, p := range preds {
		if p < 0 || int(p) >= len(t.classes) {
			return nil, errors.Wrapf(ErrFit, "predicted class index %d out of range", p)
		}
		out[i] = t.classes[p]
	}
	return out, nil
}
