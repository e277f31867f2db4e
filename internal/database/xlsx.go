package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSXBackend keeps the workbook in a single .xlsx file.
type XLSXBackend struct {
	path string
}

func NewXLSXBackend(path string) *XLSXBackend {
	return &XLSXBackend{path: path}
}

func (b *XLSXBackend) Path() string {
	return b.path
}

func (b *XLSXBackend) Load(ctx context.Context) (*Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, b.path)
		}
		return nil, fmt.Errorf("stat workbook: %w", err)
	}
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", b.path, err)
	}
	defer f.Close()
	return readFile(f)
}

// Save writes to a temporary file next to the workbook and renames it over
// the old one, so a failed write leaves the previous file in place.
func (b *XLSXBackend) Save(ctx context.Context, wb *Workbook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create workbook directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gamebus-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := WriteXLSX(tmp, wb); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp workbook: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func (b *XLSXBackend) Close() error {
	return nil
}

// ReadXLSX parses an uploaded workbook.
func ReadXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return readFile(f)
}

func readFile(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		// Raw values keep dates as serial numbers instead of locale formatted text.
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("unable to read sheet %s: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, sheetFromRows(name, rows))
	}
	return wb, nil
}

func sheetFromRows(name string, rows [][]string) *Sheet {
	s := &Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	s.Header = trimTrailingBlank(rows[0])
	for i := range s.Header {
		s.Header[i] = strings.TrimSpace(s.Header[i])
	}
	for _, r := range rows[1:] {
		if isBlankRow(r) {
			continue
		}
		row := make([]string, len(s.Header))
		copy(row, r)
		s.Rows = append(s.Rows, row)
	}
	return s
}

// WriteXLSX encodes the workbook, one worksheet per sheet in order.
func WriteXLSX(w io.Writer, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	for i, s := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.Name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	if len(wb.Sheets) > 0 {
		f.SetActiveSheet(0)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s *Sheet) error {
	if len(s.Header) == 0 {
		return nil
	}
	header := make([]interface{}, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", s.Name, err)
	}
	for r, values := range s.Rows {
		row := make([]interface{}, len(s.Header))
		for c := range s.Header {
			var v string
			if c < len(values) {
				v = values[c]
			}
			row[c] = cellValue(s, s.Header[c], v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", r+2, s.Name, err)
		}
	}
	if len(s.Rows) == 0 {
		return nil
	}
	for c, name := range s.Header {
		format := ""
		switch {
		case s.Dates[name]:
			format = dateNumFmt
		case s.Times[name]:
			format = timeNumFmt
		default:
			continue
		}
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return fmt.Errorf("style column %s of %s: %w", name, s.Name, err)
		}
		top, _ := excelize.CoordinatesToCellName(c+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(c+1, len(s.Rows)+1)
		if err := f.SetCellStyle(s.Name, top, bottom, style); err != nil {
			return fmt.Errorf("style column %s of %s: %w", name, s.Name, err)
		}
	}
	return nil
}

const (
	dateNumFmt = "yyyy-mm-dd"
	timeNumFmt = "hh:mm"
)

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// cellValue converts flagged columns to numbers: plain numerics, date
// serials and day fractions. Text that does not parse is written as is.
func cellValue(s *Sheet, column, v string) interface{} {
	if v == "" {
		return v
	}
	switch {
	case s.Dates[column]:
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t.Sub(excelEpoch).Hours() / 24
		}
	case s.Times[column]:
		if t, err := time.Parse("15:04", v); err == nil {
			return float64(t.Hour()*60+t.Minute()) / (24 * 60)
		}
	case s.Numeric[column]:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return v
}

func trimTrailingBlank(r []string) []string {
	end := len(r)
	for end > 0 && strings.TrimSpace(r[end-1]) == "" {
		end--
	}
	return append([]string(nil), r[:end]...)
}

func isBlankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
