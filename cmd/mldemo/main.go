// Command mldemo runs the dataframe and classification examples. With no
// arguments it runs all of them in order: the tabular filter, the bundled
// wine classification and the CSV end-to-end classification.
package main

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/vandoorenxander/mlexamples/dataset"
	"github.com/vandoorenxander/mlexamples/model"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"all"}
	}
	if err := root().Dispatch(args); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

func root() *commander.Command {
	return &commander.Command{
		UsageLine: "mldemo <command> [options]",
		Short:     "dataframe and classification examples",
		Subcommands: []*commander.Command{
			allCmd(),
			filterCmd(),
			wineCmd(),
			csvCmd(),
			runCmd(),
		},
	}
}

// exitCode distinguishes I/O, schema and model failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, dataset.ErrSource):
		return 2
	case errors.Is(err, dataset.ErrSchema):
		return 3
	case errors.Is(err, model.ErrFit):
		return 4
	}
	return 1
}
