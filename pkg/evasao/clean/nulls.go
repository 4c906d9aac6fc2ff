// Package clean holds the field-level cleaning stages of the pipeline.
// Stages mutate the dataset in place and never fail on a bad cell: values
// that cannot be interpreted become null or NaN and the row is kept.
package clean

import (
	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// DroppedColumns are removed from every input when present.
var DroppedColumns = []string{dataset.ColLegacySequence}

// DropColumns removes the denylisted columns, comparing names folded.
// It returns the names actually dropped.
func DropColumns(ds *dataset.Dataset, denylist []string) []string {
	deny := make(map[string]bool, len(denylist))
	for _, c := range denylist {
		deny[textnorm.Fold(c)] = true
	}
	var dropped []string
	for _, c := range ds.Columns() {
		if deny[textnorm.Fold(c)] {
			dropped = append(dropped, c)
		}
	}
	ds.Drop(dropped...)
	return dropped
}

// FillNulls replaces null cells of the given columns with
// dataset.UnknownValue. Columns missing from the dataset are skipped.
func FillNulls(ds *dataset.Dataset, cols ...string) int {
	filled := 0
	for _, col := range cols {
		if !ds.Has(col) {
			continue
		}
		for _, row := range ds.Rows() {
			if row.IsNull(col) {
				row[col] = dataset.UnknownValue
				filled++
			}
		}
	}
	return filled
}
