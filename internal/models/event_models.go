package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of a booking as stored in the Event_Log sheet.
type EventStatus string

const (
	EventStatusPending   EventStatus = "Pendiente"
	EventStatusCompleted EventStatus = "Efectuado"
)

// IsValidEventStatus checks if the provided status string is a valid EventStatus.
func IsValidEventStatus(status string) bool {
	switch EventStatus(status) {
	case EventStatusPending, EventStatusCompleted:
		return true
	default:
		return false
	}
}

// IsCompleted matches the stored status case-insensitively.
func (s EventStatus) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(EventStatusCompleted))
}

func (s EventStatus) IsPending() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(EventStatusPending))
}

// Package is the rental package sold for an event.
type Package string

const (
	PackageClassic      Package = "Clásico"
	PackageRetro        Package = "Retro"
	PackageClassicRetro Package = "Clásico + Retro"
	PackageOther        Package = "Otro"
)

// IsValidPackage checks if the provided package name is one of the sold packages.
func IsValidPackage(p string) bool {
	switch Package(p) {
	case PackageClassic, PackageRetro, PackageClassicRetro, PackageOther:
		return true
	default:
		return false
	}
}

var yesTokens = map[string]bool{"si": true, "sí": true, "true": true, "1": true, "x": true, "yes": true}

// ParseYesNo turns the free-form Sí/No cells into a boolean.
func ParseYesNo(s string) bool {
	return yesTokens[strings.ToLower(strings.TrimSpace(s))]
}

// FormatYesNo is the inverse of ParseYesNo used when writing the sheet.
func FormatYesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// Event is one booking row of the Event_Log sheet.
type Event struct {
	ID               int64            `json:"id"`
	Date             *Date            `json:"date,omitempty"`
	StartTime        *TimeOfDay       `json:"start_time,omitempty"`
	EndTime          *TimeOfDay       `json:"end_time,omitempty"`
	ClientName       string           `json:"client_name"`
	Address          string           `json:"address"`
	Phone            string           `json:"phone"`
	Zone             string           `json:"zone"`
	Package          Package          `json:"package"`
	Price            decimal.Decimal  `json:"price"`
	HasPizzaAddon    bool             `json:"has_pizza_addon"`
	PizzaMargin      decimal.Decimal  `json:"pizza_margin"`
	HasExteriorRetro bool             `json:"has_exterior_retro"`
	VariableCost     *decimal.Decimal `json:"variable_cost,omitempty"`
	Notes            string           `json:"notes"`
	Status           EventStatus      `json:"status"`

	// Extra keeps cells of columns this service does not know about.
	Extra map[string]string `json:"-"`
}

// Month returns 1-12 for dated events and 0 otherwise.
func (e Event) Month() int {
	if e.Date == nil {
		return 0
	}
	return int(e.Date.Month())
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	if e.Date != nil {
		d := *e.Date
		out.Date = &d
	}
	if e.StartTime != nil {
		t := *e.StartTime
		out.StartTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		out.EndTime = &t
	}
	if e.VariableCost != nil {
		v := *e.VariableCost
		out.VariableCost = &v
	}
	if e.Extra != nil {
		out.Extra = make(map[string]string, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// EventFilters narrows the event list the same way the capture tab does.
type EventFilters struct {
	Months   []string `form:"month"`
	Statuses []string `form:"status"`
}
