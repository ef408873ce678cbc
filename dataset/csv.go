package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrDatasetFormat = errors.New("malformed dataset")

const (
	DefaultXColumn = "km"
	DefaultYColumn = "price"
)

// CSVOptions names the two header tokens expected at the top of the file
type CSVOptions struct {
	XColumn string
	YColumn string
}

func NewDefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		XColumn: DefaultXColumn,
		YColumn: DefaultYColumn,
	}
}

// FormatError reports a header mismatch, a bad row width or a non-numeric or non-finite cell. Line is 1-based and
// counts the header. Column is 0-based and set to -1 when the whole row is at fault.
type FormatError struct {
	Line   int
	Column int
	Value  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("line %d", e.Line)
	if e.Column >= 0 {
		msg += fmt.Sprintf(", column %d", e.Column+1)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(", value %q", e.Value)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ", " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrDatasetFormat
}

// LoadCSVFile opens path and loads it with LoadCSV
func LoadCSVFile(path string, opt *CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset, %w", err)
	}
	defer f.Close()

	ds, err := LoadCSV(f, opt)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s, %w", path, err)
	}
	return ds, nil
}

// LoadCSV reads a two column csv whose header must match the configured x and y column names. Every
// following row must hold two numeric values.
func LoadCSV(r io.Reader, opt *CSVOptions) (*Dataset, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &FormatError{Line: 1, Column: -1, Reason: "missing header"}
		}
		return nil, &FormatError{Line: 1, Column: -1, Reason: "unreadable header", Err: err}
	}
	if err := checkHeader(header, opt); err != nil {
		return nil, err
	}

	var x, y []float64
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &FormatError{Line: line, Column: -1, Reason: "unreadable row", Err: err}
		}
		if len(record) != 2 {
			return nil, &FormatError{
				Line:   line,
				Column: -1,
				Reason: fmt.Sprintf("expected 2 fields, got %d", len(record)),
			}
		}

		vals := make([]float64, 2)
		for col, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &FormatError{
					Line:   line,
					Column: col,
					Value:  cell,
					Reason: "not a number",
					Err:    err,
				}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &FormatError{
					Line:   line,
					Column: col,
					Value:  cell,
					Reason: "not a finite number",
				}
			}
			vals[col] = v
		}
		x = append(x, vals[0])
		y = append(y, vals[1])
	}

	return New(x, y)
}

func checkHeader(header []string, opt *CSVOptions) error {
	if len(header) != 2 {
		return &FormatError{
			Line:   1,
			Column: -1,
			Reason: fmt.Sprintf("expected 2 header fields, got %d", len(header)),
		}
	}
	expected := []string{opt.XColumn, opt.YColumn}
	for col, name := range header {
		if strings.TrimSpace(name) != expected[col] {
			return &FormatError{
				Line:   1,
				Column: col,
				Value:  name,
				Reason: fmt.Sprintf("header must be %q", expected[col]),
			}
		}
	}
	return nil
}
