package model

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/vandoorenxander/mlexamples/dataset"
)

// blobs returns n points per class around well separated centres.
func blobs(t *testing.T, n int, classes ...string) *dataset.Dataset {
	t.Helper()
	r := rand.New(rand.NewSource(7))
	var (
		rows   [][]float64
		labels []string
	)
	for c, name := range classes {
		cx, cy := float64(c*10), float64(-c*10)
		for i := 0; i < n; i++ {
			rows = append(rows, []float64{cx + r.NormFloat64(), cy + r.NormFloat64()})
			labels = append(labels, name)
		}
	}
	ds, err := dataset.New([]string{"x", "y"}, "class", rows, labels)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func accuracy(want, got []string) float64 {
	hit := 0
	for i := range want {
		if want[i] == got[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}

func fitAndScore(t *testing.T, cls Classifier, ds *dataset.Dataset) float64 {
	t.Helper()
	train, test, err := dataset.Split(ds, dataset.DefaultSplit())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if err := cls.Fit(train); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	preds, err := cls.Predict(test.Features)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(preds) != test.Len() {
		t.Fatalf("Expected %d predictions, got %d", test.Len(), len(preds))
	}
	return accuracy(test.Labels, preds)
}

func TestClassifiersSeparateBlobs(t *testing.T) {
	cases := []struct {
		cfg Config
		min float64
	}{
		{Config{Kind: LogisticKind}, 0.9},
		{Config{Kind: TreeKind}, 0.9},
		{Config{Kind: KNNKind, Neighbours: 3}, 0.9},
	}
	for _, tc := range cases {
		t.Run(string(tc.cfg.Kind), func(t *testing.T) {
			for _, classes := range [][]string{{"bad", "good"}, {"a", "b", "c"}} {
				cls, err := New(tc.cfg)
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				if acc := fitAndScore(t, cls, blobs(t, 30, classes...)); acc < tc.min {
					t.Errorf("%v: accuracy %.2f below %.2f", classes, acc, tc.min)
				}
			}
		})
	}
}

func TestMLPPredictsKnownClasses(t *testing.T) {
	ds := blobs(t, 20, "a", "b", "c")
	m := NewMLP(Config{Iterations: 20, Seed: 1})
	if err := m.Fit(ds); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	preds, err := m.Predict(ds.Features)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(preds) != ds.Len() {
		t.Fatalf("Expected %d predictions, got %d", ds.Len(), len(preds))
	}
	known := map[string]bool{"a": true, "b": true, "c": true}
	for _, p := range preds {
		if !known[p] {
			t.Fatalf("unexpected class %q", p)
		}
	}
}

func checkLossDecreases(t *testing.T, name string, losses []float64, iterations int) {
	t.Helper()
	if len(losses) != iterations {
		t.Fatalf("%s: expected %d losses, got %d", name, iterations, len(losses))
	}
	if first, last := losses[0], losses[len(losses)-1]; last >= first {
		t.Errorf("%s: loss did not decrease: first %v last %v", name, first, last)
	}
}

func TestLogisticRecordsLosses(t *testing.T) {
	for _, classes := range [][]string{{"bad", "good"}, {"a", "b", "c"}} {
		m := NewLogistic(Config{})
		if m.Iterations != 150 {
			t.Errorf("Expected 150 iterations by default, got %d", m.Iterations)
		}
		if err := m.Fit(blobs(t, 20, classes...)); err != nil {
			t.Fatalf("Fit: %v", err)
		}
		checkLossDecreases(t, strings.Join(classes, "/"), m.Losses(), m.Iterations)
	}
}

func TestLogisticLearnsWine(t *testing.T) {
	ds, err := dataset.Wine()
	if err != nil {
		t.Fatal(err)
	}
	if ds, err = dataset.Relabel(ds, dataset.GoodWine); err != nil {
		t.Fatal(err)
	}
	m := NewLogistic(Config{})
	if err := m.Fit(ds); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	checkLossDecreases(t, "wine", m.Losses(), m.Iterations)
	// A fitted model beats always answering the majority class on its own
	// training rows.
	preds, err := m.Predict(ds.Features)
	if err != nil {
		t.Fatal(err)
	}
	good := 0
	for _, l := range ds.Labels {
		if l == "good" {
			good++
		}
	}
	majority := float64(ds.Len()-good) / float64(ds.Len())
	if good*2 > ds.Len() {
		majority = float64(good) / float64(ds.Len())
	}
	if acc := accuracy(ds.Labels, preds); acc < majority {
		t.Errorf("training accuracy %.2f below majority baseline %.2f", acc, majority)
	}
}

func TestLogisticProbabilitiesSumToOne(t *testing.T) {
	ds := blobs(t, 10, "a", "b", "c")
	m := NewLogistic(Config{Iterations: 20})
	if err := m.Fit(ds); err != nil {
		t.Fatal(err)
	}
	proba, err := m.PredictProba(ds.Features)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := proba.Dims()
	for i := 0; i < r; i++ {
		if s := mat.Sum(proba.RowView(i)); s < 0.999 || s > 1.001 {
			t.Errorf("row %d sums to %v", i, s)
		}
	}
}

func TestUnfittedAndMismatched(t *testing.T) {
	x := mat.NewDense(1, 3, []float64{1, 2, 3})
	for _, kind := range []Kind{LogisticKind, TreeKind, KNNKind, MLPKind} {
		cls, err := New(Config{Kind: kind})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := cls.Predict(x); !errors.Is(err, ErrFit) {
			t.Errorf("%s: expected ErrFit before Fit, got %v", kind, err)
		}
	}

	m := NewTree(Config{})
	if err := m.Fit(blobs(t, 5, "a", "b")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict(x); !errors.Is(err, ErrFit) {
		t.Errorf("expected ErrFit for a feature count mismatch, got %v", err)
	}
}

func TestLogisticNeedsTwoClasses(t *testing.T) {
	if err := NewLogistic(Config{}).Fit(blobs(t, 5, "only")); !errors.Is(err, ErrFit) {
		t.Errorf("expected ErrFit, got %v", err)
	}
}

func TestTreeDefaults(t *testing.T) {
	m := NewTree(Config{})
	if m.MaxDepth != 100 || m.MinWeight != 1.0 {
		t.Errorf("unexpected defaults: depth %d min weight %v", m.MaxDepth, m.MinWeight)
	}
	m = NewTree(Config{MinWeight: 2})
	if err := m.Fit(blobs(t, 5, "a", "b")); !errors.Is(err, ErrFit) {
		t.Errorf("expected ErrFit for an unsupported minimum weight, got %v", err)
	}
}

func TestUnknownKind(t *testing.T) {
	if _, err := New(Config{Kind: "svm"}); err == nil {
		t.Error("expected an error for an unknown model kind")
	}
}
