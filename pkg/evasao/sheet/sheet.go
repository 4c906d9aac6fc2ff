// Package sheet reads and writes datasets as .xlsx or .csv files.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/internalerr"
)

// Format is a spreadsheet file format.
type Format int

const (
	Unknown Format = iota
	XLSX
	CSV
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return XLSX
	case ".csv":
		return CSV
	default:
		return Unknown
	}
}

// Read loads the first sheet of an .xlsx file or a .csv file. Headers are
// mapped to canonical column names and blank cells become null.
func Read(path string) (*dataset.Dataset, error) {
	format := FormatOf(path)
	if format == Unknown {
		return nil, fmt.Errorf("%s: unsupported extension: %w", path, internalerr.ErrUnreadableInput)
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w: %w", path, internalerr.ErrNotFound, internalerr.ErrUnreadableInput)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrUnreadableInput)
	}
	defer f.Close()

	var ds *dataset.Dataset
	if format == XLSX {
		ds, err = ReadXLSX(f)
	} else {
		ds, err = ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadXLSX reads the first sheet. Cells are read raw, so dates arrive as
// Excel serial numbers.
func ReadXLSX(r io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %v: %w", err, internalerr.ErrUnreadableInput)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %v: %w", err, internalerr.ErrUnreadableInput)
	}
	return fromRows(rows)
}

// ReadCSV reads comma or semicolon separated values; the separator is
// picked from the header line.
func ReadCSV(r io.Reader) (*dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %v: %w", err, internalerr.ErrUnreadableInput)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	firstLine, _, _ := strings.Cut(text, "\n")
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		cr.Comma = ';'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %v: %w", err, internalerr.ErrUnreadableInput)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("no header row: %w", internalerr.ErrUnreadableInput)
	}
	return dataset.FromRecords(rows[0], rows[1:]), nil
}

// Write saves ds as .xlsx or .csv depending on the extension of path.
func Write(path string, ds *dataset.Dataset) error {
	var err error
	switch FormatOf(path) {
	case XLSX:
		err = writeXLSX(path, ds)
	case CSV:
		err = writeCSV(path, ds)
	default:
		return fmt.Errorf("%s: unsupported output extension", path)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	header, records := ds.Records()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)

	cols := ds.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range ds.Rows() {
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = cellValue(row[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// cellValue keeps numbers numeric and renders nulls as empty cells.
func cellValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case time.Time:
		return x.Format(time.DateOnly)
	case nil:
		return nil
	default:
		return dataset.FormatValue(x)
	}
}
