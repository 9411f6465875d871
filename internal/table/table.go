// Package table loads spreadsheet files into header-keyed rows.
// Only the first worksheet is read. Row 1 supplies the column labels.
package table

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Row maps a header label to the displayed text of its cell.
// Cells without a value are absent from the map.
type Row map[string]string

// Supported file extensions.
const (
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// DefaultMaxFileSize bounds how much of a file Load will read.
const DefaultMaxFileSize int64 = 50 << 20

// ErrUnsupportedFormat is wrapped by a ParseError when the file extension is
// not an accepted spreadsheet type.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError reports a file that could not be read as a spreadsheet.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse spreadsheet: %v", e.Err)
	}
	return fmt.Sprintf("parse spreadsheet %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extensions returns the accepted extensions in display order.
func Extensions() []string {
	return []string{ExtXLSX, ExtXLS}
}

// Accepts reports whether path has an accepted extension (case-insensitive).
func Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ExtXLSX || ext == ExtXLS
}

// Loader reads spreadsheet files from disk.
type Loader struct {
	MaxFileSize int64
}

// NewLoader returns a Loader with the default size limit.
func NewLoader() *Loader {
	return &Loader{MaxFileSize: DefaultMaxFileSize}
}

// Load reads path and parses its first sheet.
func (l *Loader) Load(ctx context.Context, path string) ([]Row, error) {
	if !Accepts(path) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ParseError{Path: path, Err: errors.New("is a directory")}
	}
	limit := l.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if info.Size() > limit {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("file is %d bytes, limit is %d", info.Size(), limit)}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := Parse(data, filepath.Ext(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return rows, nil
}

// Parse decodes the first sheet of a spreadsheet held in data. ext selects
// the decoder and must be one of Extensions.
func Parse(data []byte, ext string) ([]Row, error) {
	var (
		grid [][]string
		err  error
	)
	switch strings.ToLower(ext) {
	case ExtXLSX:
		grid, err = readXLSX(data)
	case ExtXLS:
		grid, err = readXLS(data)
	default:
		return nil, &ParseError{Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return rowsFromGrid(grid), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(data []byte) (grid [][]string, err error) {
	// The BIFF reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("corrupt workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// xlsRow returns row i of sheet, or nil when the file stores nothing for
// it. WorkSheet.Row dereferences absent rows, which Excel omits for blank
// lines.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// rowsFromGrid turns a header-first grid into rows. Blank rows are skipped.
func rowsFromGrid(grid [][]string) []Row {
	if len(grid) == 0 {
		return []Row{}
	}

	headers := headerLabels(grid[0])
	rows := make([]Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(Row)
		for i, cell := range cells {
			if i >= len(headers) || cell == "" {
				continue
			}
			row[headers[i]] = cell
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// headerLabels keeps labels verbatim but makes them unique. Empty labels
// become __EMPTY, repeats get a numeric suffix.
func headerLabels(cells []string) []string {
	seen := make(map[string]int, len(cells))
	labels := make([]string, len(cells))
	for i, cell := range cells {
		base := cell
		if base == "" {
			base = "__EMPTY"
		}
		label := base
		if n, ok := seen[base]; ok {
			for {
				label = fmt.Sprintf("%s_%d", base, n)
				n++
				if _, taken := seen[label]; !taken {
					break
				}
			}
			seen[base] = n
		} else {
			seen[base] = 1
		}
		if label != base {
			seen[label] = 1
		}
		labels[i] = label
	}
	return labels
}

// HasColumns returns the entries of cols that appear in no row.
func HasColumns(rows []Row, cols ...string) (missing []string) {
	for _, col := range cols {
		found := false
		for _, row := range rows {
			if _, ok := row[col]; ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	return missing
}
