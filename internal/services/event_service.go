package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gamebus_backend/internal/models"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Events ---
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventValidation   = errors.New("event data validation error")
	ErrSelectionRequired = errors.New("select at least one event")
)

// DefaultEventDuration is used when an event has no usable end time.
const DefaultEventDuration = 2 * time.Hour

// DefaultStartTime is used when an event has no usable start time.
var DefaultStartTime = models.NewTimeOfDay(10, 0)

// --- Event DTOs ---

// EventRequest carries the editable fields of an event. It is used for
// both create and full update.
type EventRequest struct {
	Date             *models.Date      `json:"date" binding:"required"`
	StartTime        *models.TimeOfDay `json:"start_time"`
	EndTime          *models.TimeOfDay `json:"end_time"`
	ClientName       string            `json:"client_name"`
	Address          string            `json:"address"`
	Phone            string            `json:"phone"`
	Zone             string            `json:"zone"`
	Package          string            `json:"package" binding:"required"`
	Price            decimal.Decimal   `json:"price"`
	HasPizzaAddon    bool              `json:"has_pizza_addon"`
	PizzaMargin      decimal.Decimal   `json:"pizza_margin"`
	HasExteriorRetro bool              `json:"has_exterior_retro"`
	VariableCost     *decimal.Decimal  `json:"variable_cost"`
	Notes            string            `json:"notes"`
	Status           string            `json:"status"`
}

// SelectionRequest names the events a bulk action applies to.
type SelectionRequest struct {
	IDs []int64 `json:"ids"`
}

// StatusRequest marks a selection as Pendiente or Efectuado.
type StatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status" binding:"required"`
}

// --- EventService Interface ---
type EventService interface {
	CreateEvent(ctx context.Context, req EventRequest) (*models.Event, error)
	GetEventByID(id int64) (*models.Event, error)
	GetEvents(filters models.EventFilters) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id int64, req EventRequest) (*models.Event, error)
	SetEventsStatus(ctx context.Context, ids []int64, status string) (int, error)
	DeleteEvents(ctx context.Context, ids []int64) (int, error)
}

// --- eventService Implementation ---
type eventService struct {
	store       *repositories.Store
	phoneRegion string
}

// NewEventService creates a new instance of EventService.
func NewEventService(store *repositories.Store, phoneRegion string) EventService {
	return &eventService{store: store, phoneRegion: phoneRegion}
}

func (s *eventService) validate(req EventRequest) error {
	if req.Date == nil || req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrEventValidation)
	}
	if !models.IsValidPackage(req.Package) {
		return fmt.Errorf("%w: invalid package '%s'", ErrEventValidation, req.Package)
	}
	if req.Status != "" && !models.IsValidEventStatus(req.Status) {
		return fmt.Errorf("%w: invalid status '%s'", ErrEventValidation, req.Status)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrEventValidation)
	}
	if req.PizzaMargin.IsNegative() {
		return fmt.Errorf("%w: pizza margin cannot be negative", ErrEventValidation)
	}
	if req.VariableCost != nil && req.VariableCost.IsNegative() {
		return fmt.Errorf("%w: variable cost cannot be negative", ErrEventValidation)
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		if err := utils.ValidatePhoneNumber(phone, s.phoneRegion); err != nil {
			return fmt.Errorf("%w: phone: %v", ErrEventValidation, err)
		}
	}
	return nil
}

// applyRequest copies the editable fields onto e, filling time defaults.
func applyRequest(e *models.Event, req EventRequest) {
	d := *req.Date
	e.Date = &d

	start := DefaultStartTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	end := start.Add(DefaultEventDuration)
	if req.EndTime != nil {
		end = *req.EndTime
	}
	e.StartTime = &start
	e.EndTime = &end

	e.ClientName = strings.TrimSpace(req.ClientName)
	e.Address = strings.TrimSpace(req.Address)
	e.Phone = strings.TrimSpace(req.Phone)
	e.Zone = strings.TrimSpace(req.Zone)
	e.Package = models.Package(req.Package)
	e.Price = req.Price
	e.HasPizzaAddon = req.HasPizzaAddon
	e.PizzaMargin = req.PizzaMargin
	e.HasExteriorRetro = req.HasExteriorRetro
	e.VariableCost = nil
	if req.VariableCost != nil {
		v := *req.VariableCost
		e.VariableCost = &v
	}
	e.Notes = req.Notes
	e.Status = models.EventStatusPending
	if req.Status != "" {
		e.Status = models.EventStatus(req.Status)
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req EventRequest) (*models.Event, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	var created models.Event
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		e := models.Event{ID: t.NextEventID()}
		applyRequest(&e, req)
		if e.VariableCost == nil {
			def := t.Assumption(models.AssumptionDefaultVariableCost, decimal.Zero)
			e.VariableCost = &def
		}
		t.Events = append(t.Events, e)
		created = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	utils.LogInfo("Event created", map[string]interface{}{"event_id": created.ID, "package": created.Package})
	return s.GetEventByID(created.ID)
}

func (s *eventService) GetEventByID(id int64) (*models.Event, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	idx := t.EventIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: ID %d", ErrEventNotFound, id)
	}
	e := t.Events[idx]
	return &e, nil
}

func (s *eventService) GetEvents(filters models.EventFilters) ([]models.Event, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return FilterEvents(t.Events, filters), nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req EventRequest) (*models.Event, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		idx := t.EventIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: ID %d", ErrEventNotFound, id)
		}
		applyRequest(&t.Events[idx], req)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	return s.GetEventByID(id)
}

// selectionIndex resolves ids to positions. Unknown ids fail the whole selection.
func selectionIndex(t *repositories.Tables, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return nil, ErrSelectionRequired
	}
	sel := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if t.EventIndex(id) < 0 {
			return nil, fmt.Errorf("%w: ID %d", ErrEventNotFound, id)
		}
		sel[id] = true
	}
	return sel, nil
}

func (s *eventService) SetEventsStatus(ctx context.Context, ids []int64, status string) (int, error) {
	if !models.IsValidEventStatus(status) {
		return 0, fmt.Errorf("%w: invalid status '%s'", ErrEventValidation, status)
	}
	var changed int
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		sel, err := selectionIndex(t, ids)
		if err != nil {
			return err
		}
		for i := range t.Events {
			if sel[t.Events[i].ID] {
				t.Events[i].Status = models.EventStatus(status)
				changed++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSelectionRequired) {
			utils.LogWarn("Status change without selection", nil)
		}
		return 0, err
	}
	utils.LogInfo("Event status changed", map[string]interface{}{"count": changed, "status": status})
	return changed, nil
}

func (s *eventService) DeleteEvents(ctx context.Context, ids []int64) (int, error) {
	var removed int
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		sel, err := selectionIndex(t, ids)
		if err != nil {
			return err
		}
		kept := t.Events[:0]
		for _, e := range t.Events {
			if sel[e.ID] {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		t.Events = kept
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSelectionRequired) {
			utils.LogWarn("Delete without selection", nil)
		}
		return 0, err
	}
	utils.LogInfo("Events deleted", map[string]interface{}{"count": removed})
	return removed, nil
}

// FilterEvents applies month and status filters and sorts by date then start
// time with missing values last. Empty filters match everything; a month
// filter excludes undated events.
func FilterEvents(events []models.Event, filters models.EventFilters) []models.Event {
	months := toSet(filters.Months)
	statuses := toSet(filters.Statuses)

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if len(months) > 0 && !months[models.MonthName(e.Month())] {
			continue
		}
		if len(statuses) > 0 && !statuses[string(e.Status)] {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := compareDates(a.Date, b.Date); c != 0 {
			return c < 0
		}
		return compareTimes(a.StartTime, b.StartTime) < 0
	})
	return out
}

func toSet(values []string) map[string]bool {
	set := map[string]bool{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				set[part] = true
			}
		}
	}
	return set
}

func compareDates(a, b *models.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(b.Time)
}

func compareTimes(a, b *models.TimeOfDay) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return (a.Hour*60 + a.Minute) - (b.Hour*60 + b.Minute)
}
