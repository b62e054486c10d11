package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoadSQLite reads every row of table from the SQLite database at path.
// Column label becomes the label vector, the other columns the features.
func LoadSQLite(ctx context.Context, path, table, label string) (*Dataset, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(ErrSource, "unable to open %s: %v", path, err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT * FROM "%s"`, strings.ReplaceAll(table, `"`, `""`))
	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(ErrSource, "unable to query %s: %v", table, err)
	}
	defer rs.Close()

	names, err := rs.Columns()
	if err != nil {
		return nil, errors.Wrapf(ErrSource, "unable to read columns of %s: %v", table, err)
	}
	features, err := splitColumns(names, label)
	if err != nil {
		return nil, err
	}

	var (
		rows   [][]float64
		labels []string
	)
	cells := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(ErrSource, "unable to scan %s: %v", table, err)
		}
		row := make([]float64, 0, len(features))
		for i, name := range names {
			if name == label {
				labels = append(labels, cellString(cells[i]))
				continue
			}
			row = append(row, cellFloat(cells[i]))
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.Wrapf(ErrSource, "unable to read %s: %v", table, err)
	}
	log.Debug().Str("table", table).Int("rows", len(rows)).Msg("loaded sqlite table")
	return New(features, label, rows, labels)
}
