package frame

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

func filterDataframeGo(ctx context.Context, people []Person, minAge int, w io.Writer) ([]Person, error) {
	ages, names := columns(people)
	ageSeries := dataframe.NewSeriesInt64(AgeCol, &dataframe.SeriesInit{Capacity: len(ages)})
	nameSeries := dataframe.NewSeriesString(NameCol, &dataframe.SeriesInit{Capacity: len(names)})
	for i := range ages {
		ageSeries.Append(int64(ages[i]))
		nameSeries.Append(names[i])
	}
	df := dataframe.NewDataFrame(ageSeries, nameSeries)

	keep := dataframe.FilterDataFrameFn(func(vals map[interface{}]interface{}, row, nRows int) (dataframe.FilterAction, error) {
		age, ok := vals[AgeCol].(int64)
		if ok && age > int64(minAge) {
			return dataframe.KEEP, nil
		}
		return dataframe.DROP, nil
	})
	res, err := dataframe.Filter(ctx, df, keep)
	if err != nil {
		return nil, errors.Wrap(err, "unable to filter dataframe-go frame")
	}
	filtered := res.(*dataframe.DataFrame)
	fmt.Fprint(w, filtered.Table())

	out := make([]Person, 0, filtered.NRows())
	ageIdx, _ := filtered.NameToColumn(AgeCol)
	nameIdx, _ := filtered.NameToColumn(NameCol)
	for row := 0; row < filtered.NRows(); row++ {
		age, _ := filtered.Series[ageIdx].Value(row).(int64)
		name, _ := filtered.Series[nameIdx].Value(row).(string)
		out = append(out, Person{Age: int(age), Name: name})
	}
	return out, nil
}
