package services

import (
	"context"
	"testing"
	"time"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/models"
	"gamebus_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

type memoryBackend struct {
	wb    *database.Workbook
	saves int
}

func (m *memoryBackend) Load(ctx context.Context) (*database.Workbook, error) {
	if m.wb == nil {
		return nil, database.ErrStoreNotFound
	}
	return m.wb.Clone(), nil
}

func (m *memoryBackend) Save(ctx context.Context, wb *database.Workbook) error {
	m.saves++
	m.wb = wb.Clone()
	return nil
}

func (m *memoryBackend) Close() error { return nil }

// newTestStore returns a loaded store holding events and the given assumptions.
func newTestStore(t *testing.T, events []models.Event, assumptions ...models.Assumption) (*repositories.Store, *memoryBackend) {
	t.Helper()
	wb := &database.Workbook{Sheets: []*database.Sheet{
		repositories.EncodeEvents(events),
		repositories.EncodeAssumptions(assumptions),
	}}
	b := &memoryBackend{wb: wb}
	s := repositories.NewStore(b)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.saves = 0
	return s, b
}

func date(y int, m time.Month, d int) *models.Date {
	v := models.NewDate(y, m, d)
	return &v
}

func clock(h, m int) *models.TimeOfDay {
	v := models.NewTimeOfDay(h, m)
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func completed(id int64, d *models.Date, price string) models.Event {
	return models.Event{
		ID:      id,
		Date:    d,
		Package: models.PackageClassic,
		Price:   dec(price),
		Status:  models.EventStatusCompleted,
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
