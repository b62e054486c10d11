package dataset

import (
	"strconv"

	"github.com/pkg/errors"
)

// Threshold maps a numeric label to Above when it is strictly greater than
// Value, and to Below otherwise.
type Threshold struct {
	Value float64 `yaml:"threshold"`
	Above string  `yaml:"above"`
	Below string  `yaml:"below"`
}

// GoodWine is the two-class rule used for the wine example.
var GoodWine = Threshold{Value: 6, Above: "good", Below: "bad"}

// Apply maps one label.
func (t Threshold) Apply(label string) (string, error) {
	v, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return "", errors.Wrapf(ErrSchema, "label %q is not numeric", label)
	}
	if v > t.Value {
		return t.Above, nil
	}
	return t.Below, nil
}

// Relabel returns a copy of d with every label mapped through t.
// The feature matrix is shared.
func Relabel(d *Dataset, t Threshold) (*Dataset, error) {
	labels := make([]string, len(d.Labels))
	for i, l := range d.Labels {
		mapped, err := t.Apply(l)
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", i)
		}
		labels[i] = mapped
	}
	out := *d
	out.Labels = labels
	return &out, nil
}
