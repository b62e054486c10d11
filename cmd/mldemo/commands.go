package main

import (
	"context"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vandoorenxander/mlexamples/model"
	"github.com/vandoorenxander/mlexamples/runner"
)

type common struct {
	verbose  bool
	progress bool
	plot     bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.BoolVar(&c.progress, "progress", false, "show a training progress bar")
	fs.BoolVar(&c.plot, "plot", false, "plot the training loss")
}

func (c *common) apply(cfg *runner.Config) {
	cfg.Progress = cfg.Progress || c.progress
	cfg.Plot = cfg.Plot || c.plot
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func execute(c *common, cfgs ...runner.Config) error {
	setupLogging(c.verbose)
	ctx := context.Background()
	for _, cfg := range cfgs {
		c.apply(&cfg)
		if _, err := runner.Run(ctx, cfg, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func allCmd() *commander.Command {
	var c common
	cmd := &commander.Command{
		UsageLine: "all [options]",
		Short:     "runs the filter, wine and csv examples in order",
		Run: func(_ *commander.Command, _ []string) error {
			return execute(&c, runner.FilterConfig(), runner.WineConfig(), runner.CSVConfig())
		},
		Flag: *flag.NewFlagSet("all", flag.ExitOnError),
	}
	c.register(&cmd.Flag)
	return cmd
}

func filterCmd() *commander.Command {
	var c common
	cfg := runner.FilterConfig()
	cmd := &commander.Command{
		UsageLine: "filter [options]",
		Short:     "filters the people table on age",
		Long: `
builds a three-row table of ages and names and keeps the rows older than -min-age

	$ mldemo filter -engine qframe
`,
		Run: func(_ *commander.Command, _ []string) error {
			return execute(&c, cfg)
		},
		Flag: *flag.NewFlagSet("filter", flag.ExitOnError),
	}
	c.register(&cmd.Flag)
	cmd.Flag.StringVar(&cfg.Engine, "engine", cfg.Engine, "dataframe engine: gota, dataframe-go or qframe")
	cmd.Flag.IntVar(&cfg.MinAge, "min-age", cfg.MinAge, "keep rows with an age above this")
	return cmd
}

func wineCmd() *commander.Command {
	var c common
	cfg := runner.WineConfig()
	modelKind := string(cfg.Model.Kind)
	cmd := &commander.Command{
		UsageLine: "wine [options]",
		Short:     "classifies the bundled red wines as good or bad",
		Run: func(_ *commander.Command, _ []string) error {
			cfg.Model.Kind = model.Kind(modelKind)
			return execute(&c, cfg)
		},
		Flag: *flag.NewFlagSet("wine", flag.ExitOnError),
	}
	c.register(&cmd.Flag)
	cmd.Flag.StringVar(&modelKind, "model", modelKind, "classifier: logistic, tree, knn or mlp")
	cmd.Flag.IntVar(&cfg.Model.Iterations, "it", cfg.Model.Iterations, "training iterations")
	cmd.Flag.Float64Var(&cfg.Relabel.Value, "threshold", cfg.Relabel.Value, "qualities above this are good")
	cmd.Flag.IntVar(&cfg.Trials, "trials", cfg.Trials, "number of split/fit/evaluate trials")
	return cmd
}

func csvCmd() *commander.Command {
	var c common
	cfg := runner.CSVConfig()
	modelKind := string(cfg.Model.Kind)
	cmd := &commander.Command{
		UsageLine: "csv [options]",
		Short:     "trains and evaluates a classifier on a CSV file",
		Long: `
loads a CSV file with a header row, splits off the label column, fits a classifier
on 90% of the rows and reports the confusion matrix and accuracy on the rest

	$ mldemo csv -data ./data/iris.csv -label species -model tree
`,
		Run: func(_ *commander.Command, _ []string) error {
			cfg.Model.Kind = model.Kind(modelKind)
			return execute(&c, cfg)
		},
		Flag: *flag.NewFlagSet("csv", flag.ExitOnError),
	}
	c.register(&cmd.Flag)
	cmd.Flag.StringVar(&cfg.Source.Path, "data", cfg.Source.Path, "CSV file")
	cmd.Flag.StringVar(&cfg.Source.Label, "label", cfg.Source.Label, "label column")
	cmd.Flag.StringVar(&cfg.Source.Comma, "comma", cfg.Source.Comma, "field delimiter")
	cmd.Flag.StringVar(&cfg.Engine, "engine", cfg.Engine, "csv engine: gota or dataframe-go")
	cmd.Flag.StringVar(&modelKind, "model", modelKind, "classifier: logistic, tree, knn or mlp")
	cmd.Flag.IntVar(&cfg.Model.Iterations, "it", cfg.Model.Iterations, "training iterations, 0 for the model default")
	cmd.Flag.IntVar(&cfg.Model.MaxDepth, "depth", cfg.Model.MaxDepth, "maximum tree depth")
	cmd.Flag.IntVar(&cfg.Trials, "trials", cfg.Trials, "number of split/fit/evaluate trials")
	return cmd
}

func runCmd() *commander.Command {
	var (
		c    common
		path string
	)
	cmd := &commander.Command{
		UsageLine: "run -config <file>",
		Short:     "runs an example described by a YAML file",
		Long: `
runs one example from a YAML description; omitted fields keep the example's defaults

	$ mldemo run -config configs/iris-logistic.yaml
`,
		Run: func(_ *commander.Command, _ []string) error {
			cfg, err := runner.LoadConfig(path)
			if err != nil {
				return err
			}
			return execute(&c, cfg)
		},
		Flag: *flag.NewFlagSet("run", flag.ExitOnError),
	}
	c.register(&cmd.Flag)
	cmd.Flag.StringVar(&path, "config", "", "YAML run description")
	return cmd
}
