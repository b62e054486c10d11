package model

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sjwhitworth/golearn/base"
	"gonum.org/v1/gonum/mat"

	"github.com/vandoorenxander/mlexamples/dataset"
)

const classAttrName = "__class"

// toInstances converts a feature matrix into golearn instances with one
// float attribute per feature and a float class attribute holding the class
// index. y may be nil for rows whose class is unknown.
func toInstances(names []string, x *mat.Dense, y []int) (*base.DenseInstances, error) {
	r, c := x.Dims()
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, c)
	for j := 0; j < c; j++ {
		specs[j] = inst.AddAttribute(base.NewFloatAttribute(names[j]))
	}
	classAttr := base.NewFloatAttribute(classAttrName)
	classSpec := inst.AddAttribute(classAttr)
	if err := inst.AddClassAttribute(classAttr); err != nil {
		return nil, errors.Wrap(err, "unable to add class attribute")
	}
	if err := inst.Extend(r); err != nil {
		return nil, errors.Wrap(err, "unable to allocate instances")
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			inst.Set(specs[j], i, base.PackFloatToBytes(x.At(i, j)))
		}
		class := 0.0
		if y != nil {
			class = float64(y[i])
		}
		inst.Set(classSpec, i, base.PackFloatToBytes(class))
	}
	return inst, nil
}

func labelIndexes(labels []string, classes []string) []int {
	idx := classIndex(classes)
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = idx[l]
	}
	return out
}

// fromPredictions maps the class column of a golearn prediction grid back to
// class labels.
func fromPredictions(grid base.FixedDataGrid, classes []string) ([]string, error) {
	_, rows := grid.Size()
	out := make([]string, rows)
	for i := range out {
		raw := base.GetClass(grid, i)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrFit, "unexpected predicted class %q", raw)
		}
		k := int(math.Round(v))
		if k < 0 || k >= len(classes) {
			return nil, errors.Wrapf(ErrFit, "predicted class index %d out of range", k)
		}
		out[i] = classes[k]
	}
	return out, nil
}

// golearnModel is the shared shape of the golearn-backed classifiers.
type golearnModel struct {
	classes   []string
	names     []string
	nFeatures int
}

func (g *golearnModel) trainingSet(ds *dataset.Dataset) (*base.DenseInstances, error) {
	g.classes = ds.Classes()
	g.names = ds.FeatureNames
	g.nFeatures = ds.NumFeatures()
	inst, err := toInstances(g.names, ds.Features, labelIndexes(ds.Labels, g.classes))
	if err != nil {
		return nil, errors.Wrap(ErrFit, err.Error())
	}
	return inst, nil
}

func (g *golearnModel) querySet(x *mat.Dense) (*base.DenseInstances, error) {
	if g.classes == nil {
		return nil, errors.Wrap(ErrFit, "model is not fitted")
	}
	if err := checkFeatures(x, g.nFeatures); err != nil {
		return nil, err
	}
	inst, err := toInstances(g.names, x, nil)
	if err != nil {
		return nil, errors.Wrap(ErrFit, err.Error())
	}
	return inst, nil
}
