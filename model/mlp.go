package model

import (
	"math/rand"

	deep "github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/vandoorenxander/mlexamples/dataset"
)

const (
	DefaultHidden    = 8
	DefaultMLPEpochs = 200
	mlpLearningRate  = 0.01
)

// MLP is a one-hidden-layer perceptron with a softmax output, trained with
// online SGD.
type MLP struct {
	Hidden       int
	Epochs       int
	LearningRate float64
	Seed         int64

	classes   []string
	nFeatures int
	scale     scaler
	net       *deep.Neural
}

// NewMLP returns an unfitted perceptron.
func NewMLP(cfg Config) *MLP {
	m := &MLP{Hidden: cfg.Hidden, Epochs: cfg.Iterations, LearningRate: cfg.LearningRate, Seed: cfg.Seed}
	if m.Hidden <= 0 {
		m.Hidden = DefaultHidden
	}
	if m.Epochs <= 0 {
		m.Epochs = DefaultMLPEpochs
	}
	if m.LearningRate <= 0 {
		m.LearningRate = mlpLearningRate
	}
	return m
}

func (m *MLP) Fit(ds *dataset.Dataset) error {
	m.classes = ds.Classes()
	if len(m.classes) < 2 {
		return errors.Wrapf(ErrFit, "mlp needs two classes, got %v", m.classes)
	}
	m.nFeatures = ds.NumFeatures()
	m.scale = fitScaler(ds.Features)
	rand.Seed(m.Seed)

	k := len(m.classes)
	m.net = deep.NewNeural(&deep.Config{
		Inputs:     m.nFeatures,
		Layout:     []int{m.Hidden, k},
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeMultiClass,
		Loss:       deep.LossCrossEntropy,
		Weight:     deep.NewNormal(0.5, 0),
		Bias:       true,
	})

	idx := classIndex(m.classes)
	examples := make(training.Examples, ds.Len())
	for i := range examples {
		response := make([]float64, k)
		response[idx[ds.Labels[i]]] = 1
		examples[i] = training.Example{Input: m.inputs(ds.Features, i), Response: response}
	}
	trainer := training.NewTrainer(training.NewSGD(m.LearningRate, 0.1, 1e-6, true), 0)
	trainer.Train(m.net, examples, nil, m.Epochs)
	log.Debug().Int("epochs", m.Epochs).Int("hidden", m.Hidden).Msg("fitted mlp")
	return nil
}

func (m *MLP) inputs(x *mat.Dense, i int) []float64 {
	row := mat.Row(nil, i, x)
	for j := range row {
		row[j] = (row[j] - m.scale.mean[j]) / m.scale.std[j]
	}
	return row
}

func (m *MLP) Predict(x *mat.Dense) ([]string, error) {
	if m.net == nil {
		return nil, errors.Wrap(ErrFit, "mlp is not fitted")
	}
	if err := checkFeatures(x, m.nFeatures); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	out := make([]string, r)
	for i := range out {
		out[i] = m.classes[argmax(m.net.Predict(m.inputs(x, i)))]
	}
	return out, nil
}
