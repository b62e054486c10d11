package frame

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/tobgu/qframe"
	"github.com/tobgu/qframe/config/newqf"
)

func filterQFrame(people []Person, minAge int, w io.Writer) ([]Person, error) {
	ages, names := columns(people)
	qf := qframe.New(map[string]interface{}{
		AgeCol:  ages,
		NameCol: names,
	}, newqf.ColumnOrder(AgeCol, NameCol))
	if qf.Err != nil {
		return nil, errors.Wrap(qf.Err, "unable to build qframe")
	}
	filtered := qf.Filter(qframe.Filter{Column: AgeCol, Comparator: ">", Arg: minAge})
	if filtered.Err != nil {
		return nil, errors.Wrap(filtered.Err, "unable to filter qframe")
	}
	fmt.Fprintln(w, filtered)

	ageView, err := filtered.IntView(AgeCol)
	if err != nil {
		return nil, errors.Wrap(err, "unable to view ages")
	}
	nameView, err := filtered.StringView(NameCol)
	if err != nil {
		return nil, errors.Wrap(err, "unable to view names")
	}
	out := make([]Person, filtered.Len())
	for i := range out {
		out[i].Age = ageView.ItemAt(i)
		if name := nameView.ItemAt(i); name != nil {
			out[i].Name = *name
		}
	}
	return out, nil
}
