package database

import (
	"context"
	"errors"
)

// Sheet names of the operations workbook.
const (
	SheetAssumptions = "Assumptions"
	SheetMonthly     = "Monthly"
	SheetAds         = "Ads"
	SheetFunnel      = "Funnel"
	SheetEventLog    = "Event_Log"
	SheetSummary     = "Summary"
)

// RequiredSheets are synthesized empty when a workbook lacks them.
var RequiredSheets = []string{SheetAssumptions, SheetMonthly, SheetAds, SheetFunnel, SheetEventLog, SheetSummary}

// ErrStoreNotFound is returned by Load when the backing store does not exist.
var ErrStoreNotFound = errors.New("backing store not found")

// Backend persists a whole workbook at once.
type Backend interface {
	Load(ctx context.Context) (*Workbook, error)
	Save(ctx context.Context, wb *Workbook) error
	Close() error
}

// Sheet is an untyped table: a header row and string cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string

	// Numeric marks columns written as numbers when the cell parses as one.
	Numeric map[string]bool
	// Dates and Times mark YYYY-MM-DD and HH:MM columns written as Excel
	// date and time cells.
	Dates map[string]bool
	Times map[string]bool
}

// NewSheet returns an empty sheet with the given header.
func NewSheet(name string, header ...string) *Sheet {
	return &Sheet{Name: name, Header: append([]string(nil), header...)}
}

// ColumnIndex returns the position of a header, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, h := range s.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name.
func (s *Sheet) HasColumn(name string) bool {
	return s.ColumnIndex(name) >= 0
}

// Cell returns the value at row/column name, or "" when either is absent.
func (s *Sheet) Cell(row int, name string) string {
	col := s.ColumnIndex(name)
	if col < 0 || row < 0 || row >= len(s.Rows) || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}

// AppendRow adds a row keyed by column name; unknown names are ignored.
func (s *Sheet) AppendRow(values map[string]string) {
	row := make([]string, len(s.Header))
	for i, h := range s.Header {
		row[i] = values[h]
	}
	s.Rows = append(s.Rows, row)
}

// Clone returns a deep copy.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	out := &Sheet{Name: s.Name, Header: append([]string(nil), s.Header...)}
	out.Rows = make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	out.Numeric = cloneFlags(s.Numeric)
	out.Dates = cloneFlags(s.Dates)
	out.Times = cloneFlags(s.Times)
	return out
}

func cloneFlags(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet looks a sheet up by name.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Put replaces the sheet with the same name or appends it.
func (w *Workbook) Put(s *Sheet) {
	for i, existing := range w.Sheets {
		if existing.Name == s.Name {
			w.Sheets[i] = s
			return
		}
	}
	w.Sheets = append(w.Sheets, s)
}

// EnsureRequired adds empty sheets for every missing required name.
func (w *Workbook) EnsureRequired() {
	for _, name := range RequiredSheets {
		if w.Sheet(name) == nil {
			w.Sheets = append(w.Sheets, NewSheet(name))
		}
	}
}

// Clone returns a deep copy.
func (w *Workbook) Clone() *Workbook {
	out := &Workbook{Sheets: make([]*Sheet, len(w.Sheets))}
	for i, s := range w.Sheets {
		out.Sheets[i] = s.Clone()
	}
	return out
}
