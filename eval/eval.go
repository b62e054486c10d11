// Package eval scores predictions against the actual labels of an
// evaluation split.
package eval

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sjwhitworth/golearn/evaluation"

	"github.com/vandoorenxander/mlexamples/dataset"
)

// ConfusionMatrix counts predictions per actual class: cm[actual][predicted].
type ConfusionMatrix = evaluation.ConfusionMatrix

// Confusion builds the confusion matrix of predicted against actual.
func Confusion(actual, predicted []string) (ConfusionMatrix, error) {
	if len(actual) != len(predicted) {
		return nil, errors.Errorf("%d actual labels but %d predictions", len(actual), len(predicted))
	}
	cm := make(ConfusionMatrix)
	for _, c := range dataset.Classes(actual, predicted) {
		cm[c] = make(map[string]int)
	}
	for i := range actual {
		cm[actual[i]][predicted[i]]++
	}
	return cm, nil
}

// Total is the number of classified examples.
func Total(cm ConfusionMatrix) int {
	n := 0
	for _, row := range cm {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Accuracy is the fraction of examples on the diagonal.
func Accuracy(cm ConfusionMatrix) float64 {
	if Total(cm) == 0 {
		return 0
	}
	return evaluation.GetAccuracy(cm)
}

// Classes lists every class that appears as actual or predicted, sorted.
func Classes(cm ConfusionMatrix) []string {
	var names []string
	for actual, row := range cm {
		names = append(names, actual)
		for predicted := range row {
			names = append(names, predicted)
		}
	}
	return dataset.Classes(names)
}

// Render writes cm as a table with one row per actual class and one column
// per predicted class.
func Render(w io.Writer, cm ConfusionMatrix) {
	classes := Classes(cm)
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(append([]string{"actual \\ predicted"}, classes...))
	for _, actual := range classes {
		row := []string{actual}
		for _, predicted := range classes {
			row = append(row, strconv.Itoa(cm[actual][predicted]))
		}
		table.Append(row)
	}
	table.Render()
}

// FormatAccuracy renders an accuracy fraction as a percentage with two decimals.
func FormatAccuracy(acc float64) string {
	return fmt.Sprintf("%.2f%%", acc*100)
}

// Summary is golearn's per-class precision/recall/F1 report.
func Summary(cm ConfusionMatrix) string {
	return evaluation.GetSummary(cm)
}
