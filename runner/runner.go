// Package runner executes the demonstration procedures from a single
// parameterized configuration: the tabular filter, the bundled wine
// classification and the CSV end-to-end classification.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vandoorenxander/mlexamples/dataset"
	"github.com/vandoorenxander/mlexamples/eval"
	"github.com/vandoorenxander/mlexamples/frame"
	"github.com/vandoorenxander/mlexamples/model"
)

// Report is the outcome of one Run.
type Report struct {
	RunID   string
	Example Example

	// Rows holds the filtered table of the filter example.
	Rows []frame.Person

	Model     model.Kind
	TrainSize int
	TestSize  int
	// Confusion and Accuracy describe the last trial.
	Confusion eval.ConfusionMatrix
	Accuracy  float64
	Losses    []float64

	Accuracies   []float64
	MeanAccuracy float64
	StdAccuracy  float64
}

// Run executes cfg, printing human-readable results to out.
func Run(ctx context.Context, cfg Config, out io.Writer) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rep := &Report{RunID: uuid.New().String(), Example: cfg.Example}
	logger := log.With().Str("run_id", rep.RunID).Str("example", string(cfg.Example)).Logger()
	logger.Info().Str("engine", cfg.Engine).Str("source", cfg.Source.Kind).Str("model", string(cfg.Model.Kind)).Msg("starting run")

	var err error
	if cfg.Example == FilterExample {
		rep.Rows, err = frame.Filter(ctx, frame.Engine(cfg.Engine), cfg.MinAge, out)
		if err != nil {
			return nil, err
		}
		logger.Info().Int("rows", len(rep.Rows)).Msg("filtered table")
		return rep, nil
	}

	ds, err := load(ctx, cfg, out)
	if err != nil {
		return nil, err
	}
	if cfg.Relabel != nil {
		if ds, err = dataset.Relabel(ds, *cfg.Relabel); err != nil {
			return nil, err
		}
	}
	if err = classify(ctx, cfg, ds, rep, logger); err != nil {
		return nil, err
	}

	eval.Render(out, rep.Confusion)
	fmt.Fprintf(out, "Accuracy: %s\n", eval.FormatAccuracy(rep.Accuracy))
	if len(rep.Accuracies) > 1 {
		fmt.Fprintf(out, "Mean accuracy over %d trials: %s (std %s)\n",
			len(rep.Accuracies), eval.FormatAccuracy(rep.MeanAccuracy), eval.FormatAccuracy(rep.StdAccuracy))
	}
	if cfg.Plot && len(rep.Losses) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(rep.Losses, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("training loss")))
	}
	return rep, nil
}

func load(ctx context.Context, cfg Config, out io.Writer) (*dataset.Dataset, error) {
	src := cfg.Source
	switch src.Kind {
	case CSVSource:
		return dataset.OpenCSV(ctx, src.Path, dataset.CSVOptions{
			Label:    src.Label,
			Engine:   cfg.Engine,
			Comma:    src.comma(),
			HeadRows: cfg.HeadRows,
			HeadOut:  out,
		})
	case SQLiteSource:
		return dataset.LoadSQLite(ctx, src.Path, src.Table, src.Label)
	case WineSource:
		return dataset.Wine()
	}
	return nil, errors.Errorf("unknown source kind %q", src.Kind)
}

func classify(ctx context.Context, cfg Config, ds *dataset.Dataset, rep *Report, logger zerolog.Logger) error {
	rep.Model = cfg.Model.Kind
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		split := cfg.Split
		split.Seed += int64(trial)
		train, test, err := dataset.Split(ds, split)
		if err != nil {
			return err
		}

		mcfg := cfg.Model
		mcfg.Seed += int64(trial)
		if cfg.Progress {
			mcfg.Progress = os.Stderr
		}
		cls, err := model.New(mcfg)
		if err != nil {
			return err
		}
		if err := cls.Fit(train); err != nil {
			return err
		}
		preds, err := cls.Predict(test.Features)
		if err != nil {
			return err
		}
		cm, err := eval.Confusion(test.Labels, preds)
		if err != nil {
			return errors.Wrap(model.ErrFit, err.Error())
		}

		rep.TrainSize, rep.TestSize = train.Len(), test.Len()
		rep.Confusion = cm
		rep.Accuracy = eval.Accuracy(cm)
		rep.Accuracies = append(rep.Accuracies, rep.Accuracy)
		if lr, ok := cls.(model.LossReporter); ok {
			rep.Losses = lr.Losses()
		}
		logger.Debug().Int("trial", trial).Int("train", rep.TrainSize).Int("test", rep.TestSize).
			Float64("accuracy", rep.Accuracy).Msg("evaluated")
	}

	var err error
	if rep.MeanAccuracy, err = stats.Mean(rep.Accuracies); err != nil {
		return errors.Wrap(err, "unable to average trial accuracies")
	}
	if len(rep.Accuracies) > 1 {
		if rep.StdAccuracy, err = stats.StandardDeviationSample(rep.Accuracies); err != nil {
			return errors.Wrap(err, "unable to compute accuracy deviation")
		}
	}
	logger.Info().Float64("accuracy", rep.MeanAccuracy).Int("trials", len(rep.Accuracies)).Msg("finished run")
	return nil
}
