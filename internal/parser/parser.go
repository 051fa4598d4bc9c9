package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

const (
	frontColumn = "front"
	backColumn  = "back"
)

var (
	// ErrMissingColumns means the header row does not name both a front and
	// a back column. The whole source is unusable.
	ErrMissingColumns = errors.New("parser: header must name front and back columns")
	ErrUnknownFormat  = errors.New("parser: unknown file format")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Record is one accepted row of an import source.
type Record struct {
	Line  int    `validate:"gt=0"`
	Front string `validate:"required"`
	Back  string `validate:"required"`
}

// Problem is a row that was skipped.
type Problem struct {
	Line int
	Err  error
}

func (p Problem) Error() string {
	return fmt.Sprintf("line %d: %v", p.Line, p.Err)
}

func (p Problem) Unwrap() error { return p.Err }

// ParseFile reads records from a .csv or .xlsx file. sheet selects the XLSX
// sheet; empty means the first one.
func ParseFile(path, sheet string) ([]Record, []Problem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", "":
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer file.Close()
		return ParseCSV(file)
	case ".xlsx", ".xlsm":
		return ParseXLSX(path, sheet)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseCSV reads comma separated records. The first row is a header naming
// the front and back columns; other columns are ignored. Rows that cannot be
// read or that leave front or back empty are reported and skipped.
func ParseCSV(r io.Reader) ([]Record, []Problem, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrMissingColumns
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := columns(header)
	if err != nil {
		return nil, nil, err
	}

	var records []Record
	var problems []Problem
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, fmt.Errorf("failed to read csv: %w", err)
			}
			problems = append(problems, Problem{Line: parseErr.StartLine, Err: parseErr.Err})
			continue
		}
		line, _ := reader.FieldPos(0)
		rec, err := cols.record(line, row)
		if err != nil {
			problems = append(problems, Problem{Line: line, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, problems, nil
}

// ParseXLSX reads records from a spreadsheet with the same header rules as
// ParseCSV. Line numbers are spreadsheet row numbers.
func ParseXLSX(path, sheet string) ([]Record, []Problem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrMissingColumns
	}
	cols, err := columns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var records []Record
	var problems []Problem
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) == 0 {
			continue
		}
		rec, err := cols.record(line, row)
		if err != nil {
			problems = append(problems, Problem{Line: line, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, problems, nil
}

type columnIndex struct {
	front int
	back  int
}

func columns(header []string) (columnIndex, error) {
	cols := columnIndex{front: -1, back: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case frontColumn:
			cols.front = i
		case backColumn:
			cols.back = i
		}
	}
	if cols.front < 0 || cols.back < 0 {
		return cols, ErrMissingColumns
	}
	return cols, nil
}

func (c columnIndex) record(line int, row []string) (Record, error) {
	rec := Record{Line: line}
	if c.front < len(row) {
		rec.Front = row[c.front]
	}
	if c.back < len(row) {
		rec.Back = row[c.back]
	}
	if err := validate.Struct(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
