package model

import (
	"github.com/pkg/errors"
	"github.com/sjwhitworth/golearn/knn"
	"gonum.org/v1/gonum/mat"

	"github.com/vandoorenxander/mlexamples/dataset"
)

const DefaultNeighbours = 5

// KNN is a k-nearest-neighbours classifier using euclidean distance.
type KNN struct {
	Neighbours int

	golearnModel
	cls *knn.KNNClassifier
}

// NewKNN returns an unfitted kNN classifier.
func NewKNN(cfg Config) *KNN {
	m := &KNN{Neighbours: cfg.Neighbours}
	if m.Neighbours <= 0 {
		m.Neighbours = DefaultNeighbours
	}
	return m
}

func (m *KNN) Fit(ds *dataset.Dataset) error {
	inst, err := m.trainingSet(ds)
	if err != nil {
		return err
	}
	m.cls = knn.NewKnnClassifier("euclidean", "linear", m.Neighbours)
	if err := m.cls.Fit(inst); err != nil {
		return errors.Wrapf(ErrFit, "unable to fit knn: %v", err)
	}
	return nil
}

func (m *KNN) Predict(x *mat.Dense) ([]string, error) {
	if m.cls == nil {
		return nil, errors.Wrap(ErrFit, "knn is not fitted")
	}
	inst, err := m.querySet(x)
	if err != nil {
		return nil, err
	}
	preds, err := m.cls.Predict(inst)
	if err != nil {
		return nil, errors.Wrapf(ErrFit, "unable to predict: %v", err)
	}
	return fromPredictions(preds, m.classes)
}
