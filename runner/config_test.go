package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vandoorenxander/mlexamples/dataset"
	"github.com/vandoorenxander/mlexamples/model"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
example: csv
model:
  kind: logistic
  iterations: 150
split:
  ratio: 0.8
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	want := CSVConfig()
	want.Model = model.Config{Kind: model.LogisticKind, Iterations: 150, MaxDepth: model.DefaultMaxDepth, MinWeight: model.DefaultMinWeight}
	want.Split.Ratio = 0.8
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(model.Config{}, "Progress")); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestParseConfigWine(t *testing.T) {
	cfg, err := ParseConfig([]byte("example: wine\nrelabel:\n  threshold: 5\n  above: good\n  below: bad\ntrials: 3\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if diff := cmp.Diff(&dataset.Threshold{Value: 5, Above: "good", Below: "bad"}, cfg.Relabel); diff != "" {
		t.Errorf("relabel (-want +got):\n%s", diff)
	}
	if cfg.Trials != 3 || cfg.Source.Kind != WineSource || cfg.Model.Iterations != 150 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestParseConfigRejects(t *testing.T) {
	cases := map[string]string{
		"unknown example": "example: polars\n",
		"unknown field":   "example: csv\nlabel_column: species\n",
		"bad ratio":       "example: csv\nsplit:\n  ratio: 1.2\n",
		"bad engine":      "example: filter\nengine: pandas\n",
		"bad model":       "example: wine\nmodel:\n  kind: svm\n",
		"sqlite no table": "example: csv\nsource:\n  kind: sqlite\n  path: x.db\n",
		"zero trials":     "example: wine\ntrials: 0\n",
	}
	for name, doc := range cases {
		if _, err := ParseConfig([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("example: filter\nengine: qframe\nmin_age: 21\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Engine != "qframe" || cfg.MinAge != 21 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDefaultsValidate(t *testing.T) {
	for _, cfg := range []Config{FilterConfig(), WineConfig(), CSVConfig()} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", cfg.Example, err)
		}
	}
}

func TestBundledConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "configs", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if _, err := LoadConfig(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}
