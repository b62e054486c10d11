package runner

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/vandoorenxander/mlexamples/dataset"
	"github.com/vandoorenxander/mlexamples/eval"
	"github.com/vandoorenxander/mlexamples/frame"
	"github.com/vandoorenxander/mlexamples/model"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// twoBlobs is a CSV with a label column named species and 40 rows.
func twoBlobs() string {
	var b strings.Builder
	b.WriteString("a,b,species\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%d.%d,1,left\n", i%3, i)
		fmt.Fprintf(&b, "%d.%d,9,right\n", 10+i%3, i)
	}
	return b.String()
}

func TestRunFilter(t *testing.T) {
	for _, engine := range frame.Engines {
		cfg := FilterConfig()
		cfg.Engine = string(engine)
		var out bytes.Buffer
		rep, err := Run(context.Background(), cfg, &out)
		if err != nil {
			t.Fatalf("%s: %v", engine, err)
		}
		if diff := cmp.Diff([]frame.Person{{Age: 30, Name: "Bob"}}, rep.Rows); diff != "" {
			t.Errorf("%s: rows (-want +got):\n%s", engine, diff)
		}
		if rep.RunID == "" {
			t.Errorf("%s: missing run id", engine)
		}
	}
}

func TestRunCSVTree(t *testing.T) {
	cfg := CSVConfig()
	cfg.Source.Path = writeCSV(t, twoBlobs())
	var out bytes.Buffer
	rep, err := Run(context.Background(), cfg, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.TrainSize != 36 || rep.TestSize != 4 {
		t.Errorf("Expected 36/4 split, got %d/%d", rep.TrainSize, rep.TestSize)
	}
	if got := eval.Total(rep.Confusion); got != rep.TestSize {
		t.Errorf("confusion matrix totals %d, test size %d", got, rep.TestSize)
	}
	if rep.Accuracy != 1 {
		t.Errorf("Expected perfect accuracy on separable data, got %v", rep.Accuracy)
	}
	text := out.String()
	for _, s := range []string{"species", "Accuracy: 100.00%"} {
		if !strings.Contains(text, s) {
			t.Errorf("output missing %q:\n%s", s, text)
		}
	}
}

func TestRunCSVLogisticDataframeGo(t *testing.T) {
	cfg := CSVConfig()
	cfg.Engine = dataset.EngineDataframeGo
	cfg.Source.Path = writeCSV(t, twoBlobs())
	cfg.Model = model.Config{Kind: model.LogisticKind, Iterations: 150}
	cfg.Plot = true
	var out bytes.Buffer
	rep, err := Run(context.Background(), cfg, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Losses) != 150 {
		t.Fatalf("Expected 150 losses, got %d", len(rep.Losses))
	}
	if first, last := rep.Losses[0], rep.Losses[149]; last >= first {
		t.Errorf("loss did not decrease: first %v last %v", first, last)
	}
	if rep.Accuracy != 1 {
		t.Errorf("Expected perfect accuracy on separable data, got %v", rep.Accuracy)
	}
	if !strings.Contains(out.String(), "training loss") {
		t.Errorf("expected a loss plot:\n%s", out.String())
	}
}

func TestRunCSVMissingLabel(t *testing.T) {
	cfg := CSVConfig()
	cfg.Source.Path = writeCSV(t, "a,b,class\n1,2,x\n")
	_, err := Run(context.Background(), cfg, &bytes.Buffer{})
	if !errors.Is(err, dataset.ErrSchema) {
		t.Errorf("expected ErrSchema, got %v", err)
	}
}

func TestRunCSVMissingFile(t *testing.T) {
	cfg := CSVConfig()
	cfg.Source.Path = filepath.Join(t.TempDir(), "iris.csv")
	_, err := Run(context.Background(), cfg, &bytes.Buffer{})
	if !errors.Is(err, dataset.ErrSource) {
		t.Errorf("expected ErrSource, got %v", err)
	}
}

func TestRunWine(t *testing.T) {
	var out bytes.Buffer
	rep, err := Run(context.Background(), WineConfig(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := eval.Total(rep.Confusion); got != rep.TestSize {
		t.Errorf("confusion matrix totals %d, test size %d", got, rep.TestSize)
	}
	for c := range rep.Confusion {
		if c != "good" && c != "bad" {
			t.Errorf("unexpected class %q", c)
		}
	}
	if n := len(rep.Losses); n != 150 || rep.Losses[n-1] >= rep.Losses[0] {
		t.Errorf("expected 150 decreasing losses, got %v", rep.Losses)
	}
}

func TestRunTrials(t *testing.T) {
	cfg := CSVConfig()
	cfg.Source.Path = writeCSV(t, twoBlobs())
	cfg.Trials = 3
	var out bytes.Buffer
	rep, err := Run(context.Background(), cfg, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Accuracies) != 3 {
		t.Fatalf("Expected 3 accuracies, got %d", len(rep.Accuracies))
	}
	if rep.MeanAccuracy != 1 || rep.StdAccuracy != 0 {
		t.Errorf("Expected mean 1 and std 0 over separable trials, got %v and %v", rep.MeanAccuracy, rep.StdAccuracy)
	}
	if !strings.Contains(out.String(), "Mean accuracy over 3 trials") {
		t.Errorf("missing trial summary:\n%s", out.String())
	}
}

func TestRunSQLiteKNN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE points (a REAL, b REAL, side TEXT)`); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if _, err := db.Exec(`INSERT INTO points VALUES (?, 1, 'left'), (?, 9, 'right')`, float64(i%3), float64(10+i%3)); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	cfg := CSVConfig()
	cfg.Source = Source{Kind: SQLiteSource, Path: path, Table: "points", Label: "side"}
	cfg.Model = model.Config{Kind: model.KNNKind, Neighbours: 3}
	rep, err := Run(context.Background(), cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.TestSize != 4 || rep.Accuracy != 1 {
		t.Errorf("unexpected report: test %d accuracy %v", rep.TestSize, rep.Accuracy)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, WineConfig(), &bytes.Buffer{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
