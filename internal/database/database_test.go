package database

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleWorkbook() *Workbook {
	events := NewSheet(SheetEventLog, "ID", "Fecha", "Nombre", "Precio (MXN)")
	events.Numeric = map[string]bool{"ID": true, "Precio (MXN)": true}
	events.Rows = [][]string{
		{"1", "2025-03-14", "Ana", "1000"},
		{"2", "", "Luis, Jr.", "1500.5"},
	}
	assumptions := NewSheet(SheetAssumptions, "Variable", "Valor")
	assumptions.Rows = [][]string{{"Gastos fijos mensuales (MXN)", "5000"}}
	return &Workbook{Sheets: []*Sheet{assumptions, events, NewSheet(SheetSummary)}}
}

func assertSameContent(t *testing.T, got, want *Workbook) {
	t.Helper()
	if len(got.Sheets) != len(want.Sheets) {
		t.Fatalf("got %d sheets, want %d", len(got.Sheets), len(want.Sheets))
	}
	for i, w := range want.Sheets {
		g := got.Sheets[i]
		if g.Name != w.Name {
			t.Fatalf("sheet %d name = %q, want %q", i, g.Name, w.Name)
		}
		if len(w.Header) == 0 && len(g.Header) == 0 {
			continue
		}
		if !reflect.DeepEqual(g.Header, w.Header) {
			t.Fatalf("%s header = %v, want %v", w.Name, g.Header, w.Header)
		}
		if !reflect.DeepEqual(g.Rows, w.Rows) {
			t.Fatalf("%s rows = %v, want %v", w.Name, g.Rows, w.Rows)
		}
	}
}

// ============================================================
// Workbook helpers
// ============================================================

func TestSheetCellAndEnsureRequired(t *testing.T) {
	wb := sampleWorkbook()
	s := wb.Sheet(SheetEventLog)
	if got := s.Cell(1, "Nombre"); got != "Luis, Jr." {
		t.Fatalf("Cell = %q", got)
	}
	if got := s.Cell(1, "Missing"); got != "" {
		t.Fatalf("missing column should read empty, got %q", got)
	}
	if got := s.Cell(9, "Nombre"); got != "" {
		t.Fatalf("missing row should read empty, got %q", got)
	}

	wb.EnsureRequired()
	for _, name := range RequiredSheets {
		if wb.Sheet(name) == nil {
			t.Fatalf("sheet %s not synthesized", name)
		}
	}
}

func TestWorkbookCloneCopiesColumnFlags(t *testing.T) {
	s := NewSheet(SheetEventLog, "Fecha")
	s.Dates = map[string]bool{"Fecha": true}
	c := s.Clone()
	c.Dates["Fecha"] = false
	if !s.Dates["Fecha"] || c.Times != nil {
		t.Fatalf("clone flags = %v %v", c.Dates, c.Times)
	}
}

func TestWorkbookCloneIsDeep(t *testing.T) {
	wb := sampleWorkbook()
	c := wb.Clone()
	c.Sheet(SheetEventLog).Rows[0][2] = "changed"
	if wb.Sheet(SheetEventLog).Rows[0][2] != "Ana" {
		t.Fatal("clone shares row storage")
	}
}

// ============================================================
// XLSX backend
// ============================================================

func TestXLSXBackendMissingFile(t *testing.T) {
	b := NewXLSXBackend(filepath.Join(t.TempDir(), "nope.xlsx"))
	_, err := b.Load(context.Background())
	if !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestXLSXBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "GameBus_DB.xlsx")
	b := NewXLSXBackend(path)
	want := sampleWorkbook()
	if err := b.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameContent(t, got, want)

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestReadWriteXLSXStream(t *testing.T) {
	var buf bytes.Buffer
	want := sampleWorkbook()
	if err := WriteXLSX(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatal(err)
	}
	assertSameContent(t, got, want)
}

func TestWriteXLSXTypedDateAndTimeCells(t *testing.T) {
	s := NewSheet(SheetEventLog, "Fecha", "Hora", "Nombre")
	s.Dates = map[string]bool{"Fecha": true}
	s.Times = map[string]bool{"Hora": true}
	s.Rows = [][]string{
		{"2025-03-14", "15:00", "Ana"},
		{"pronto", "", "Luis"},
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, &Workbook{Sheets: []*Sheet{s}}); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, cell := range []string{"A2", "B2"} {
		style, err := f.GetCellStyle(SheetEventLog, cell)
		if err != nil || style == 0 {
			t.Fatalf("%s style = %d, %v", cell, style, err)
		}
	}

	got, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"45730", "0.625", "Ana"},
		{"pronto", "", "Luis"},
	}
	if !reflect.DeepEqual(got.Sheets[0].Rows, want) {
		t.Fatalf("rows = %v, want %v", got.Sheets[0].Rows, want)
	}
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	if _, err := ReadXLSX(bytes.NewBufferString("not a workbook")); err == nil {
		t.Fatal("expected error")
	}
}

// ============================================================
// SQL backend
// ============================================================

func newTestSQL(t *testing.T) *SQLBackend {
	t.Helper()
	b, err := OpenSQL("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestSQLBackendEmpty(t *testing.T) {
	b := newTestSQL(t)
	wb, err := b.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets) != 0 {
		t.Fatalf("expected no sheets, got %d", len(wb.Sheets))
	}
}

func TestSQLBackendRoundTripAndOverwrite(t *testing.T) {
	b := newTestSQL(t)
	ctx := context.Background()
	want := sampleWorkbook()
	if err := b.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertSameContent(t, got, want)

	smaller := &Workbook{Sheets: []*Sheet{NewSheet(SheetFunnel, "Mes")}}
	if err := b.Save(ctx, smaller); err != nil {
		t.Fatal(err)
	}
	got, _ = b.Load(ctx)
	if len(got.Sheets) != 1 || got.Sheets[0].Name != SheetFunnel {
		t.Fatalf("save should overwrite everything, got %+v", got.Sheets)
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLBackend{driver: "postgres"}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Fatalf("rebind = %q", got)
	}
	lite := &SQLBackend{driver: "sqlite"}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("sqlite rebind = %q", got)
	}
}
