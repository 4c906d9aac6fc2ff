// Package dataset holds the tabular student dataset the cleaning pipeline
// mutates in place: an ordered column list plus one Row per enrollment.
package dataset

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Row is one record keyed by column name. Values are string, float64
// (NaN for not-a-number), time.Time, or nil/absent for null.
type Row map[string]any

// Dataset is an ordered set of columns over positional rows.
type Dataset struct {
	columns []string
	rows    []Row
}

// New creates a dataset with the given columns and rows.
func New(columns []string, rows []Row) *Dataset {
	d := &Dataset{rows: rows}
	for _, c := range columns {
		d.Ensure(c)
	}
	return d
}

// FromRecords builds a dataset from a header and string records, as read
// from a spreadsheet. Headers are mapped through CanonicalColumn and blank
// cells become null.
func FromRecords(header []string, records [][]string) *Dataset {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = CanonicalColumn(h)
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(cols))
		for i, col := range cols {
			if i >= len(rec) {
				break
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				row[col] = v
			}
		}
		rows = append(rows, row)
	}
	return New(cols, rows)
}

// Columns returns a copy of the column order.
func (d *Dataset) Columns() []string {
	return slices.Clone(d.columns)
}

// Has reports whether col is part of the dataset.
func (d *Dataset) Has(col string) bool {
	return slices.Contains(d.columns, col)
}

// Ensure appends col to the column order if it is not present yet.
func (d *Dataset) Ensure(col string) {
	if col == "" || d.Has(col) {
		return
	}
	d.columns = append(d.columns, col)
}

// Drop removes columns and their values. Missing columns are ignored.
func (d *Dataset) Drop(cols ...string) {
	for _, col := range cols {
		idx := slices.Index(d.columns, col)
		if idx < 0 {
			continue
		}
		d.columns = slices.Delete(d.columns, idx, idx+1)
		for _, r := range d.rows {
			delete(r, col)
		}
	}
}

// Rename moves a column's values to a new name, keeping its position.
// It does nothing when from is missing or to already exists.
func (d *Dataset) Rename(from, to string) {
	idx := slices.Index(d.columns, from)
	if idx < 0 || d.Has(to) {
		return
	}
	d.columns[idx] = to
	for _, r := range d.rows {
		if v, ok := r[from]; ok {
			r[to] = v
			delete(r, from)
		}
	}
}

// Set assigns v to col in row i, adding the column if needed.
func (d *Dataset) Set(i int, col string, v any) {
	d.Ensure(col)
	d.rows[i][col] = v
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns the live rows; stages mutate them in place.
func (d *Dataset) Rows() []Row { return d.rows }

// Row returns the i-th row.
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// Clone returns a deep copy of the column order and row maps.
func (d *Dataset) Clone() *Dataset {
	rows := make([]Row, len(d.rows))
	for i, r := range d.rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		rows[i] = cp
	}
	return &Dataset{columns: d.Columns(), rows: rows}
}

// Records renders the dataset back to a header and string records.
func (d *Dataset) Records() ([]string, [][]string) {
	out := make([][]string, len(d.rows))
	for i, r := range d.rows {
		rec := make([]string, len(d.columns))
		for j, col := range d.columns {
			rec[j] = FormatValue(r[col])
		}
		out[i] = rec
	}
	return d.Columns(), out
}

// Str returns the string form of a non-null value.
func (r Row) Str(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	if f, isFloat := v.(float64); isFloat && math.IsNaN(f) {
		return "", false
	}
	return FormatValue(v), true
}

// Float returns a numeric value, or NaN when the value is null or not numeric.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return math.NaN()
	}
}

// Int returns a finite, integral numeric value.
func (r Row) Int(col string) (int, bool) {
	f := r.Float(col)
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Date returns a time value.
func (r Row) Date(col string) (time.Time, bool) {
	t, ok := r[col].(time.Time)
	return t, ok
}

// IsNull reports whether the value is absent, nil, NaN or a blank string.
func (r Row) IsNull(col string) bool {
	switch v := r[col].(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	default:
		return false
	}
}

// FormatValue renders a cell value. Nulls and NaN render as "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}
