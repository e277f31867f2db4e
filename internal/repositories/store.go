package repositories

import (
	"context"
	"fmt"
	"sync"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/models"
	"gamebus_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// Tables is the typed in-memory view of the workbook. Events is the
// authoritative Event_Log; every other sheet lives in Workbook as loaded.
type Tables struct {
	Events   []models.Event
	Workbook *database.Workbook
}

// TablesFromWorkbook synthesizes missing sheets and normalizes Event_Log.
func TablesFromWorkbook(wb *database.Workbook) *Tables {
	wb = wb.Clone()
	wb.EnsureRequired()
	return &Tables{
		Events:   DecodeEvents(wb.Sheet(database.SheetEventLog)),
		Workbook: wb,
	}
}

// Clone returns a deep copy that can be mutated freely.
func (t *Tables) Clone() *Tables {
	out := &Tables{Workbook: t.Workbook.Clone(), Events: make([]models.Event, len(t.Events))}
	for i, e := range t.Events {
		out.Events[i] = e.Clone()
	}
	return out
}

// Sheet returns the named sheet, or an empty one when absent.
func (t *Tables) Sheet(name string) *database.Sheet {
	if s := t.Workbook.Sheet(name); s != nil {
		return s
	}
	return database.NewSheet(name)
}

func (t *Tables) PutSheet(s *database.Sheet) {
	t.Workbook.Put(s)
}

func (t *Tables) Assumptions() []models.Assumption {
	return DecodeAssumptions(t.Sheet(database.SheetAssumptions))
}

// Assumption looks up a numeric assumption with a caller default.
func (t *Tables) Assumption(name string, def decimal.Decimal) decimal.Decimal {
	return LookupAssumption(t.Assumptions(), name, def)
}

func (t *Tables) Ads() []models.AdsMonth {
	return DecodeAds(t.Sheet(database.SheetAds))
}

func (t *Tables) Funnel() []models.FunnelMonth {
	return DecodeFunnel(t.Sheet(database.SheetFunnel))
}

// EventIndex returns the slice position of id, or -1.
func (t *Tables) EventIndex(id int64) int {
	for i, e := range t.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// NextEventID is max(id)+1, or 1 for an empty log.
func (t *Tables) NextEventID() int64 {
	var maxID int64
	for _, e := range t.Events {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	return maxID + 1
}

// EncodeWorkbook returns the workbook with Event_Log rebuilt from Events.
func (t *Tables) EncodeWorkbook() *database.Workbook {
	wb := t.Workbook.Clone()
	wb.Put(EncodeEvents(t.Events))
	return wb
}

func (t *Tables) normalize() {
	ids := make([]*int64, len(t.Events))
	for i := range t.Events {
		if t.Events[i].ID > 0 {
			id := t.Events[i].ID
			ids[i] = &id
		}
	}
	t.Events = NormalizeEvents(t.Events, ids)
}

// Store owns all table state. Every write goes through the backend and is
// followed by a reload so memory always reflects the persisted form.
type Store struct {
	backend database.Backend
	mu      sync.RWMutex
	tables  *Tables
}

func NewStore(backend database.Backend) *Store {
	return &Store{backend: backend}
}

// Load replaces the in-memory tables with the backend contents.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	wb, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	s.tables = TablesFromWorkbook(wb)
	utils.LogDebug("Store loaded", map[string]interface{}{"events": len(s.tables.Events), "sheets": len(s.tables.Workbook.Sheets)})
	return nil
}

// Save writes the current tables unconditionally, then reloads.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables == nil {
		return ErrStoreNotLoaded
	}
	return s.persistLocked(ctx, s.tables)
}

func (s *Store) persistLocked(ctx context.Context, t *Tables) error {
	if err := s.backend.Save(ctx, t.EncodeWorkbook()); err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	if err := s.loadLocked(ctx); err != nil {
		// The write went through; keep what was written.
		s.tables = t
		return err
	}
	return nil
}

// Snapshot returns a deep copy of the current tables for read-only use.
func (s *Store) Snapshot() (*Tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tables == nil {
		return nil, ErrStoreNotLoaded
	}
	return s.tables.Clone(), nil
}

// Mutate applies fn to a copy of the tables, normalizes events, persists and
// reloads. When fn or the save fails the store is left unchanged.
func (s *Store) Mutate(ctx context.Context, fn func(t *Tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables == nil {
		return ErrStoreNotLoaded
	}
	next := s.tables.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.normalize()
	return s.persistLocked(ctx, next)
}

// Replace swaps the whole store for an uploaded workbook.
func (s *Store) Replace(ctx context.Context, wb *database.Workbook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, TablesFromWorkbook(wb))
}

// Workbook returns the persisted form of the current tables.
func (s *Store) Workbook() (*database.Workbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tables == nil {
		return nil, ErrStoreNotLoaded
	}
	return s.tables.EncodeWorkbook(), nil
}
