package runner

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/vandoorenxander/mlexamples/dataset"
	"github.com/vandoorenxander/mlexamples/frame"
	"github.com/vandoorenxander/mlexamples/model"
)

// Example names one of the demonstration procedures.
type Example string

const (
	FilterExample Example = "filter"
	WineExample   Example = "wine"
	CSVExample    Example = "csv"
)

// Source kinds.
const (
	CSVSource    = "csv"
	WineSource   = "wine"
	SQLiteSource = "sqlite"
)

// DefaultCSVPath is where the end-to-end example reads its data.
const DefaultCSVPath = "./data/iris.csv"

// Source locates the dataset of a classification run.
type Source struct {
	Kind  string `yaml:"kind"`
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
	Label string `yaml:"label"`
	Comma string `yaml:"comma"`
}

// Config is one run of the example runner.
type Config struct {
	Example Example `yaml:"example"`
	// Engine is the dataframe library for the filter table or the CSV source.
	Engine string `yaml:"engine"`
	// MinAge is the exclusive lower bound of the filter example.
	MinAge int `yaml:"min_age"`

	Source   Source               `yaml:"source"`
	Model    model.Config         `yaml:"model"`
	Split    dataset.SplitOptions `yaml:"split"`
	Relabel  *dataset.Threshold   `yaml:"relabel"`
	Trials   int                  `yaml:"trials"`
	HeadRows int                  `yaml:"head_rows"`
	Progress bool                 `yaml:"progress"`
	Plot     bool                 `yaml:"plot"`
}

// FilterConfig is the tabular filter example: people older than 25.
func FilterConfig() Config {
	return Config{Example: FilterExample, Engine: string(frame.Gota), MinAge: 25}
}

// WineConfig is the bundled wine example: good (quality > 6) against bad
// wines with a 150-iteration logistic regression on a 90/10 split.
func WineConfig() Config {
	relabel := dataset.GoodWine
	return Config{
		Example: WineExample,
		Source:  Source{Kind: WineSource, Label: dataset.WineLabel},
		Model:   model.Config{Kind: model.LogisticKind, Iterations: model.DefaultIterations},
		Split:   dataset.DefaultSplit(),
		Relabel: &relabel,
		Trials:  1,
	}
}

// CSVConfig is the end-to-end iris example with a Gini decision tree.
func CSVConfig() Config {
	return Config{
		Example:  CSVExample,
		Engine:   dataset.EngineGota,
		Source:   Source{Kind: CSVSource, Path: DefaultCSVPath, Label: dataset.DefaultLabel, Comma: ","},
		Model:    model.Config{Kind: model.TreeKind, MaxDepth: model.DefaultMaxDepth, MinWeight: model.DefaultMinWeight},
		Split:    dataset.DefaultSplit(),
		Trials:   1,
		HeadRows: 5,
	}
}

// Defaults returns the configuration of example.
func Defaults(example Example) (Config, error) {
	switch example {
	case FilterExample:
		return FilterConfig(), nil
	case WineExample:
		return WineConfig(), nil
	case CSVExample:
		return CSVConfig(), nil
	}
	return Config{}, errors.Errorf("unknown example %q", example)
}

// ParseConfig reads a YAML run description. Fields it leaves out keep the
// defaults of the named example.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Example Example `yaml:"example"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, errors.Wrap(err, "unable to parse config")
	}
	cfg, err := Defaults(head.Example)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "unable to parse config")
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads and validates the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to read config")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Validate reports the first inconsistent option.
func (c Config) Validate() error {
	switch c.Example {
	case FilterExample:
		for _, e := range frame.Engines {
			if string(e) == c.Engine {
				return nil
			}
		}
		return errors.Errorf("unknown dataframe engine %q", c.Engine)
	case WineExample, CSVExample:
	default:
		return errors.Errorf("unknown example %q", c.Example)
	}

	switch c.Source.Kind {
	case CSVSource:
		if c.Source.Path == "" {
			return errors.New("csv source needs a path")
		}
		if c.Engine != dataset.EngineGota && c.Engine != dataset.EngineDataframeGo {
			return errors.Errorf("unknown csv engine %q", c.Engine)
		}
		if len([]rune(c.Source.Comma)) > 1 {
			return errors.Errorf("comma must be a single character, got %q", c.Source.Comma)
		}
	case SQLiteSource:
		if c.Source.Path == "" || c.Source.Table == "" {
			return errors.New("sqlite source needs a path and a table")
		}
		if c.Source.Label == "" {
			return errors.New("sqlite source needs a label column")
		}
	case WineSource:
	default:
		return errors.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Split.Ratio <= 0 || c.Split.Ratio >= 1 {
		return errors.Errorf("split ratio %v outside (0, 1)", c.Split.Ratio)
	}
	if c.Trials < 1 {
		return errors.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if _, err := model.New(c.Model); err != nil {
		return err
	}
	return nil
}

func (s Source) comma() rune {
	for _, r := range s.Comma {
		return r
	}
	return ','
}
