// Package frame holds the tabular filter example: a fixed people table built
// in one of the supported dataframe engines and filtered on age.
package frame

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// Engine names a dataframe library.
type Engine string

const (
	Gota        Engine = "gota"
	DataframeGo Engine = "dataframe-go"
	QFrame      Engine = "qframe"
)

// Engines lists every engine Filter accepts.
var Engines = []Engine{Gota, DataframeGo, QFrame}

const (
	AgeCol  = "Age"
	NameCol = "Name"
)

// Person is one row of the people table.
type Person struct {
	Age  int
	Name string
}

// People returns the fixed example table.
func People() []Person {
	return []Person{
		{Age: 25, Name: "Alice"},
		{Age: 30, Name: "Bob"},
		{Age: 22, Name: "Charlie"},
	}
}

func columns(people []Person) ([]int, []string) {
	ages := make([]int, len(people))
	names := make([]string, len(people))
	for i, p := range people {
		ages[i] = p.Age
		names[i] = p.Name
	}
	return ages, names
}

// Filter builds the people table with engine, keeps the rows whose age is
// strictly greater than minAge and prints the engine's rendering of the result to w.
func Filter(ctx context.Context, engine Engine, minAge int, w io.Writer) ([]Person, error) {
	return FilterPeople(ctx, engine, People(), minAge, w)
}

// FilterPeople is Filter over an arbitrary table.
func FilterPeople(ctx context.Context, engine Engine, people []Person, minAge int, w io.Writer) ([]Person, error) {
	switch engine {
	case Gota, "":
		return filterGota(people, minAge, w)
	case DataframeGo:
		return filterDataframeGo(ctx, people, minAge, w)
	case QFrame:
		return filterQFrame(people, minAge, w)
	}
	return nil, errors.Errorf("unknown dataframe engine %q", engine)
}
