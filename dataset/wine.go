package dataset

import (
	_ "embed"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

//go:embed data/winequality-red-sample.csv
var wineCSV []byte

// WineLabel is the target column of the wine dataset.
const WineLabel = "quality"

// WineSample is one red wine with its physico-chemical measurements and
// sensory quality score (0-10).
type WineSample struct {
	FixedAcidity       float64 `csv:"fixed_acidity"`
	VolatileAcidity    float64 `csv:"volatile_acidity"`
	CitricAcid         float64 `csv:"citric_acid"`
	ResidualSugar      float64 `csv:"residual_sugar"`
	Chlorides          float64 `csv:"chlorides"`
	FreeSulfurDioxide  float64 `csv:"free_sulfur_dioxide"`
	TotalSulfurDioxide float64 `csv:"total_sulfur_dioxide"`
	Density            float64 `csv:"density"`
	PH                 float64 `csv:"pH"`
	Sulphates          float64 `csv:"sulphates"`
	Alcohol            float64 `csv:"alcohol"`
	Quality            int     `csv:"quality"`
}

var wineFeatures = []string{
	"fixed_acidity", "volatile_acidity", "citric_acid", "residual_sugar",
	"chlorides", "free_sulfur_dioxide", "total_sulfur_dioxide", "density",
	"pH", "sulphates", "alcohol",
}

func (s *WineSample) features() []float64 {
	return []float64{
		s.FixedAcidity, s.VolatileAcidity, s.CitricAcid, s.ResidualSugar,
		s.Chlorides, s.FreeSulfurDioxide, s.TotalSulfurDioxide, s.Density,
		s.PH, s.Sulphates, s.Alcohol,
	}
}

// WineSamples decodes the bundled red wine sample.
func WineSamples() ([]*WineSample, error) {
	var samples []*WineSample
	if err := gocsv.UnmarshalBytes(wineCSV, &samples); err != nil {
		return nil, errors.Wrapf(ErrSchema, "unable to decode wine sample: %v", err)
	}
	return samples, nil
}

// Wine returns the bundled red wine sample as a Dataset labelled by quality.
func Wine() (*Dataset, error) {
	samples, err := WineSamples()
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(samples))
	labels := make([]string, len(samples))
	for i, s := range samples {
		rows[i] = s.features()
		labels[i] = strconv.Itoa(s.Quality)
	}
	return New(wineFeatures, WineLabel, rows, labels)
}
