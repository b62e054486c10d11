package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	dfgo "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

// CSV engines.
const (
	EngineGota        = "gota"
	EngineDataframeGo = "dataframe-go"
)

// DefaultLabel is the label column of the bundled iris file.
const DefaultLabel = "species"

// CSVOptions configures LoadCSV.
type CSVOptions struct {
	// Label is the name of the label column; every other column is a feature.
	Label string
	// Engine selects the dataframe library used to parse the file.
	Engine string
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// HeadRows rows of the parsed frame are printed to HeadOut when HeadOut is set.
	HeadRows int
	HeadOut  io.Writer
}

// DefaultCSVOptions reads the iris layout with gota and prints five rows.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Label: DefaultLabel, Engine: EngineGota, Comma: ',', HeadRows: 5}
}

func (o CSVOptions) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// OpenCSV loads the CSV file at path.
func OpenCSV(ctx context.Context, path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSource, "unable to open %s: %v", path, err)
	}
	defer f.Close()
	ds, err := LoadCSV(ctx, f, opts)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return ds, nil
}

// LoadCSV parses a CSV stream with a header row. The column named opts.Label
// becomes the label vector and the remaining columns the feature matrix.
func LoadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Dataset, error) {
	if opts.Label == "" {
		opts.Label = DefaultLabel
	}
	var (
		ds  *Dataset
		err error
	)
	switch opts.Engine {
	case EngineGota, "":
		ds, err = loadGota(r, opts)
	case EngineDataframeGo:
		ds, err = loadDataframeGo(ctx, r, opts)
	default:
		return nil, errors.Errorf("unknown csv engine %q", opts.Engine)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("engine", opts.Engine).
		Int("rows", ds.Len()).
		Int("features", ds.NumFeatures()).
		Str("label", ds.LabelName).
		Msg("loaded csv")
	return ds, nil
}

func splitColumns(names []string, label string) ([]string, error) {
	features := make([]string, 0, len(names))
	found := false
	for _, n := range names {
		if n == label {
			found = true
			continue
		}
		features = append(features, n)
	}
	if !found {
		return nil, errors.Wrapf(ErrSchema, "label column %q not found in %v", label, names)
	}
	return features, nil
}

func loadGota(r io.Reader, opts CSVOptions) (*Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithDelimiter(opts.comma()),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, errors.Wrapf(ErrSchema, "unable to parse csv: %v", df.Err)
	}
	if opts.HeadOut != nil && opts.HeadRows > 0 {
		fmt.Fprintln(opts.HeadOut, df.Subset(headIndexes(df.Nrow(), opts.HeadRows)))
	}

	features, err := splitColumns(df.Names(), opts.Label)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, df.Nrow())
	for i := range rows {
		rows[i] = make([]float64, len(features))
	}
	for j, name := range features {
		for i, v := range df.Col(name).Float() {
			rows[i][j] = finite(v)
		}
	}
	return New(features, opts.Label, rows, df.Col(opts.Label).Records())
}

func headIndexes(nrow, n int) []int {
	if n > nrow {
		n = nrow
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func loadDataframeGo(ctx context.Context, r io.Reader, opts CSVOptions) (*Dataset, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(ErrSource, "unable to read csv: %v", err)
		}
		rs = bytes.NewReader(data)
	}
	df, err := imports.LoadFromCSV(ctx, rs, imports.CSVLoadOptions{Comma: opts.comma()})
	if err != nil {
		return nil, errors.Wrapf(ErrSchema, "unable to parse csv: %v", err)
	}
	names := df.Names()
	if opts.HeadOut != nil && opts.HeadRows > 0 {
		printHead(opts.HeadOut, names, df, opts.HeadRows)
	}

	features, err := splitColumns(names, opts.Label)
	if err != nil {
		return nil, err
	}
	labelIdx, err := df.NameToColumn(opts.Label)
	if err != nil {
		return nil, errors.Wrap(ErrSchema, err.Error())
	}
	featureIdx := make([]int, len(features))
	for j, name := range features {
		if featureIdx[j], err = df.NameToColumn(name); err != nil {
			return nil, errors.Wrap(ErrSchema, err.Error())
		}
	}

	n := df.NRows()
	rows := make([][]float64, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, len(features))
		for j, idx := range featureIdx {
			rows[i][j] = cellFloat(df.Series[idx].Value(i))
		}
		labels[i] = cellString(df.Series[labelIdx].Value(i))
	}
	return New(features, opts.Label, rows, labels)
}

func printHead(w io.Writer, names []string, df *dfgo.DataFrame, n int) {
	if n > df.NRows() {
		n = df.NRows()
	}
	cells := make([][]string, n)
	for i := range cells {
		cells[i] = make([]string, len(df.Series))
		for j, s := range df.Series {
			cells[i][j] = cellString(s.Value(i))
		}
	}
	renderTable(w, names, cells)
}

func cellFloat(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(x)
	case int64:
		return float64(x)
	case string:
		return parseFeature(x)
	case []byte:
		return parseFeature(string(x))
	}
	return parseFeature(fmt.Sprint(v))
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
