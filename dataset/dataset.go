// Package dataset turns tabular sources (CSV files, SQLite tables, the
// embedded wine sample) into a numeric feature matrix paired with text labels,
// and partitions them for training and evaluation.
package dataset

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSource marks failures to open or read a data source.
	ErrSource = errors.New("dataset source")
	// ErrSchema marks data that does not have the expected shape.
	ErrSchema = errors.New("dataset schema")
)

// Dataset pairs a feature matrix with one label per row.
type Dataset struct {
	Features     *mat.Dense
	Labels       []string
	FeatureNames []string
	LabelName    string
}

// New builds a Dataset from row-major feature values.
func New(featureNames []string, labelName string, rows [][]float64, labels []string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrSchema, "no data rows")
	}
	if len(rows) != len(labels) {
		return nil, errors.Wrapf(ErrSchema, "%d feature rows but %d labels", len(rows), len(labels))
	}
	if len(featureNames) == 0 {
		return nil, errors.Wrap(ErrSchema, "no feature columns")
	}
	cols := len(featureNames)
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, errors.Wrapf(ErrSchema, "row %d has %d features, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return &Dataset{
		Features:     mat.NewDense(len(rows), cols, data),
		Labels:       labels,
		FeatureNames: featureNames,
		LabelName:    labelName,
	}, nil
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.Labels) }

// NumFeatures is the number of feature columns.
func (d *Dataset) NumFeatures() int { return len(d.FeatureNames) }

// Row returns a copy of the features of row i.
func (d *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, d.Features)
}

// Subset returns a new Dataset holding the given rows, in order.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrSchema, "empty subset")
	}
	cols := d.NumFeatures()
	data := make([]float64, 0, len(rows)*cols)
	labels := make([]string, len(rows))
	for i, r := range rows {
		data = append(data, d.Row(r)...)
		labels[i] = d.Labels[r]
	}
	return &Dataset{
		Features:     mat.NewDense(len(rows), cols, data),
		Labels:       labels,
		FeatureNames: d.FeatureNames,
		LabelName:    d.LabelName,
	}, nil
}

// Classes returns the distinct labels, sorted.
func (d *Dataset) Classes() []string {
	return Classes(d.Labels)
}

// Classes returns the distinct values of labels, sorted.
func Classes(labels ...[]string) []string {
	seen := make(map[string]struct{})
	for _, ls := range labels {
		for _, l := range ls {
			seen[l] = struct{}{}
		}
	}
	out := maps.Keys(seen)
	slices.Sort(out)
	return out
}

// parseFeature converts a raw cell to a feature value. Empty or
// unparseable cells become zero.
func parseFeature(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
