// Package importer reads question/answer rows out of spreadsheets and CSV
// files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("importer: unsupported file format")
	ErrTooManyRows       = errors.New("importer: too many rows")
)

// FormatFromFilename picks the parser from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Options controls how rows are read.
type Options struct {
	SheetName  string // xlsx only; empty means the first sheet
	SkipHeader bool   // drop the first non-blank row
	MaxRows    int    // zero means no cap
}

// Row is one card candidate. Line is the 1-based line or spreadsheet row.
type Row struct {
	Line     int
	Question string
	Answer   string
	Deck     string
}

type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

type Result struct {
	Rows   []Row
	Errors []RowError
}

// Parse reads question, answer and optional deck columns. Blank rows are
// skipped, a row whose first two cells read "question" and "answer" is
// treated as a header, and rows missing either side are reported in
// Result.Errors rather than failing the whole file.
func Parse(r io.Reader, format Format, opts Options) (*Result, error) {
	var records []record
	var err error
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r, opts.SheetName)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return collect(records, opts)
}

// record is one source row with its 1-based line or row number.
type record struct {
	line  int
	cells []string
}

func readCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records []record
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		// encoding/csv drops empty lines, so take the line from the reader.
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

func readXLSX(r io.Reader, sheet string) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("open xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

func collect(records []record, opts Options) (*Result, error) {
	res := &Result{Rows: make([]Row, 0, len(records))}
	headerSeen := false

	for _, rec := range records {
		line := rec.line
		cells := trimCells(rec.cells)
		if isBlank(cells) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			if opts.SkipHeader || isHeader(cells) {
				continue
			}
		}

		row := Row{Line: line, Question: cell(cells, 0), Answer: cell(cells, 1), Deck: cell(cells, 2)}
		switch {
		case row.Question == "":
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "question is empty"})
			continue
		case row.Answer == "":
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "answer is empty"})
			continue
		}

		if opts.MaxRows > 0 && len(res.Rows) >= opts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, opts.MaxRows)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func trimCells(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func isHeader(cells []string) bool {
	return strings.EqualFold(cell(cells, 0), "question") && strings.EqualFold(cell(cells, 1), "answer")
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
