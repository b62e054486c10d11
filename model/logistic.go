package model

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/vandoorenxander/mlexamples/dataset"
)

const (
	DefaultIterations   = 150
	DefaultLearningRate = 0.05
	rmsPropDecay        = 0.9
)

// Logistic is a multinomial logistic regression: a softmax over a linear
// map of the standardized features, trained on the mean cross-entropy with
// full-batch RMSProp for a fixed number of iterations. With two classes it
// is ordinary binary logistic regression.
type Logistic struct {
	Iterations   int
	LearningRate float64

	cfg       Config
	classes   []string
	nFeatures int
	scale     scaler
	weights   *mat.Dense
	losses    []float64
}

// NewLogistic returns an unfitted logistic regression.
func NewLogistic(cfg Config) *Logistic {
	m := &Logistic{Iterations: cfg.Iterations, LearningRate: cfg.LearningRate, cfg: cfg}
	if m.Iterations <= 0 {
		m.Iterations = DefaultIterations
	}
	if m.LearningRate <= 0 {
		m.LearningRate = DefaultLearningRate
	}
	return m
}

// Losses returns the training loss recorded after each iteration.
func (m *Logistic) Losses() []float64 { return m.losses }

// Classes returns the labels the model predicts, in weight column order.
func (m *Logistic) Classes() []string { return m.classes }

func (m *Logistic) Fit(ds *dataset.Dataset) (err error) {
	classes := ds.Classes()
	if len(classes) < 2 {
		return errors.Wrapf(ErrFit, "logistic regression needs two classes, got %v", classes)
	}
	n, d := ds.Features.Dims()
	k := len(classes)
	m.scale = fitScaler(ds.Features)

	xT := tensor.New(tensor.WithShape(n, d+1), tensor.WithBacking(m.scale.withBias(ds.Features)))
	yT := tensor.New(tensor.WithShape(n, k), tensor.WithBacking(oneHot(ds.Labels, classes)))

	g := gorgonia.NewGraph()
	x := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(n, d+1), gorgonia.WithName("x"))
	y := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(n, k), gorgonia.WithName("y"))
	w := gorgonia.NewMatrix(g, tensor.Float64, gorgonia.WithShape(d+1, k), gorgonia.WithName("w"), gorgonia.WithInit(gorgonia.Zeroes()))

	cost, err := crossEntropy(x, y, w)
	if err != nil {
		return errors.Wrap(ErrFit, err.Error())
	}
	var costVal gorgonia.Value
	gorgonia.Read(cost, &costVal)

	if _, err = gorgonia.Grad(cost, w); err != nil {
		return errors.Wrapf(ErrFit, "unable to differentiate cost: %v", err)
	}
	vm := gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(w))
	defer vm.Close()
	solver := gorgonia.NewRMSPropSolver(gorgonia.WithLearnRate(m.LearningRate), gorgonia.WithRho(rmsPropDecay))

	bar := newProgress(m.cfg.Progress, m.Iterations, "logistic ")
	defer bar.finish()
	m.losses = m.losses[:0]
	for i := 0; i < m.Iterations; i++ {
		if err = gorgonia.Let(x, xT); err != nil {
			return errors.Wrap(ErrFit, err.Error())
		}
		if err = gorgonia.Let(y, yT); err != nil {
			return errors.Wrap(ErrFit, err.Error())
		}
		if err = vm.RunAll(); err != nil {
			return errors.Wrapf(ErrFit, "failed at iteration %d: %v", i, err)
		}
		if err = solver.Step(gorgonia.NodesToValueGrads(gorgonia.Nodes{w})); err != nil {
			return errors.Wrapf(ErrFit, "unable to update weights at iteration %d: %v", i, err)
		}
		if loss, ok := costVal.Data().(float64); ok {
			m.losses = append(m.losses, loss)
		}
		vm.Reset()
		bar.increment()
	}

	weights, ok := w.Value().Data().([]float64)
	if !ok {
		return errors.Wrap(ErrFit, "unexpected weight backing")
	}
	m.weights = mat.NewDense(d+1, k, append([]float64(nil), weights...))
	m.classes = classes
	m.nFeatures = d
	if len(m.losses) > 0 {
		log.Debug().Int("iterations", m.Iterations).Float64("loss", m.losses[len(m.losses)-1]).Msg("fitted logistic regression")
	}
	return nil
}

// crossEntropy builds mean(logsumexp(x·w) - sum(y * x·w)) on the graph,
// the mean negative log-likelihood of the softmax over one-hot targets y.
func crossEntropy(x, y, w *gorgonia.Node) (*gorgonia.Node, error) {
	logits, err := gorgonia.Mul(x, w)
	if err != nil {
		return nil, errors.Wrap(err, "unable to multiply x and w")
	}
	exp, err := gorgonia.Exp(logits)
	if err != nil {
		return nil, errors.Wrap(err, "unable to exponentiate logits")
	}
	norm, err := gorgonia.Sum(exp, 1)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sum exponentials")
	}
	lse, err := gorgonia.Log(norm)
	if err != nil {
		return nil, errors.Wrap(err, "unable to take log normalizer")
	}
	picked, err := gorgonia.HadamardProd(logits, y)
	if err != nil {
		return nil, errors.Wrap(err, "unable to select target logits")
	}
	target, err := gorgonia.Sum(picked, 1)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sum target logits")
	}
	nll, err := gorgonia.Sub(lse, target)
	if err != nil {
		return nil, errors.Wrap(err, "unable to subtract target logits")
	}
	return gorgonia.Mean(nll)
}

// PredictProba returns one row of class probabilities per row of x, columns
// ordered as Classes.
func (m *Logistic) PredictProba(x *mat.Dense) (*mat.Dense, error) {
	if m.weights == nil {
		return nil, errors.Wrap(ErrFit, "logistic regression is not fitted")
	}
	if err := checkFeatures(x, m.nFeatures); err != nil {
		return nil, err
	}
	r, _ := x.Dims()
	xb := mat.NewDense(r, m.nFeatures+1, m.scale.withBias(x))
	var logits mat.Dense
	logits.Mul(xb, m.weights)
	for i := 0; i < r; i++ {
		softmax(logits.RawRowView(i))
	}
	return &logits, nil
}

func (m *Logistic) Predict(x *mat.Dense) ([]string, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	r, _ := proba.Dims()
	out := make([]string, r)
	for i := range out {
		out[i] = m.classes[argmax(proba.RawRowView(i))]
	}
	return out, nil
}

func oneHot(labels []string, classes []string) []float64 {
	idx := classIndex(classes)
	k := len(classes)
	out := make([]float64, len(labels)*k)
	for i, l := range labels {
		out[i*k+idx[l]] = 1
	}
	return out
}
