package frame

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

func filterGota(people []Person, minAge int, w io.Writer) ([]Person, error) {
	ages, names := columns(people)
	df := dataframe.New(
		series.New(ages, series.Int, AgeCol),
		series.New(names, series.String, NameCol),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "unable to build gota dataframe")
	}
	filtered := df.Filter(dataframe.F{Colname: AgeCol, Comparator: series.Greater, Comparando: minAge})
	if filtered.Err != nil {
		return nil, errors.Wrap(filtered.Err, "unable to filter gota dataframe")
	}
	fmt.Fprintln(w, filtered)

	ageVals, err := filtered.Col(AgeCol).Int()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read filtered ages")
	}
	nameVals := filtered.Col(NameCol).Records()
	out := make([]Person, filtered.Nrow())
	for i := range out {
		out[i] = Person{Age: ageVals[i], Name: nameVals[i]}
	}
	return out, nil
}
