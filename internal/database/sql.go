package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

// SQLBackend stores the workbook as cells in two tables. The whole workbook
// is rewritten inside one transaction on every save.
type SQLBackend struct {
	db     *sql.DB
	driver string
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS workbook_sheets (
	name     TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS workbook_cells (
	sheet  TEXT NOT NULL,
	row_no INTEGER NOT NULL,
	col_no INTEGER NOT NULL,
	value  TEXT NOT NULL,
	PRIMARY KEY (sheet, row_no, col_no)
);`

// OpenSQL connects with driver "postgres" or "sqlite" and applies the schema.
func OpenSQL(driver, dsn string) (*SQLBackend, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == "sqlite" {
		// An in-memory database lives on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	b := &SQLBackend{db: db, driver: driver}
	if err := b.applySchema(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLBackend) applySchema() error {
	for _, stmt := range strings.Split(sqlSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("could not execute schema script: %w", err)
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (b *SQLBackend) rebind(query string) string {
	if b.driver != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *SQLBackend) Load(ctx context.Context) (*Workbook, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT name FROM workbook_sheets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	wb := &Workbook{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		wb.Sheets = append(wb.Sheets, &Sheet{Name: name})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range wb.Sheets {
		if err := b.loadCells(ctx, s); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// loadCells fills s from its cells; row 0 is the header.
func (b *SQLBackend) loadCells(ctx context.Context, s *Sheet) error {
	rows, err := b.db.QueryContext(ctx,
		b.rebind(`SELECT row_no, col_no, value FROM workbook_cells WHERE sheet = ? ORDER BY row_no, col_no`), s.Name)
	if err != nil {
		return fmt.Errorf("load cells of %s: %w", s.Name, err)
	}
	defer rows.Close()

	grid := map[int]map[int]string{}
	maxRow, maxCol := -1, -1
	for rows.Next() {
		var r, c int
		var v string
		if err := rows.Scan(&r, &c, &v); err != nil {
			return fmt.Errorf("scan cell of %s: %w", s.Name, err)
		}
		if grid[r] == nil {
			grid[r] = map[int]string{}
		}
		grid[r][c] = v
		if r > maxRow {
			maxRow = r
		}
		if c > maxCol {
			maxCol = c
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if maxRow < 0 {
		return nil
	}
	s.Header = make([]string, maxCol+1)
	for c, v := range grid[0] {
		s.Header[c] = v
	}
	for r := 1; r <= maxRow; r++ {
		row := make([]string, maxCol+1)
		for c, v := range grid[r] {
			row[c] = v
		}
		s.Rows = append(s.Rows, row)
	}
	return nil
}

func (b *SQLBackend) Save(ctx context.Context, wb *Workbook) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM workbook_cells`); err != nil {
		return fmt.Errorf("clear cells: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM workbook_sheets`); err != nil {
		return fmt.Errorf("clear sheets: %w", err)
	}

	insertSheet, err := tx.PrepareContext(ctx, b.rebind(`INSERT INTO workbook_sheets (name, position) VALUES (?, ?)`))
	if err != nil {
		return err
	}
	defer insertSheet.Close()
	insertCell, err := tx.PrepareContext(ctx, b.rebind(`INSERT INTO workbook_cells (sheet, row_no, col_no, value) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer insertCell.Close()

	for pos, s := range wb.Sheets {
		if _, err := insertSheet.ExecContext(ctx, s.Name, pos); err != nil {
			return fmt.Errorf("insert sheet %s: %w", s.Name, err)
		}
		for c, h := range s.Header {
			if _, err := insertCell.ExecContext(ctx, s.Name, 0, c, h); err != nil {
				return fmt.Errorf("insert header of %s: %w", s.Name, err)
			}
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == "" {
					continue
				}
				if _, err := insertCell.ExecContext(ctx, s.Name, r+1, c, v); err != nil {
					return fmt.Errorf("insert cell %d:%d of %s: %w", r+1, c, s.Name, err)
				}
			}
		}
	}
	return tx.Commit()
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
