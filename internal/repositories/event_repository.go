package repositories

import (
	"sort"
	"strings"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/models"
)

// Event_Log column names.
const (
	ColID           = "ID"
	ColDate         = "Fecha"
	ColStartTime    = "Hora"
	ColEndTime      = "Hora fin"
	ColClientName   = "Nombre"
	ColAddress      = "Dirección"
	ColPhone        = "Teléfono"
	ColZone         = "Colonia/Zona"
	ColPackage      = "Paquete"
	ColPrice        = "Precio (MXN)"
	ColPizzaAddon   = "Add-on Pizza (Sí/No)"
	ColPizzaMargin  = "Margen Pizza (MXN)"
	ColExteriorRetr = "Retro exterior (Sí/No)"
	ColVariableCost = "Costo variable (MXN)"
	ColNotes        = "Notas"
	ColStatus       = "Estatus"
)

// EventLogColumns is the storage column order of Event_Log.
var EventLogColumns = []string{
	ColID, ColDate, ColStartTime, ColEndTime, ColClientName, ColAddress, ColPhone,
	ColZone, ColPackage, ColPrice, ColPizzaAddon, ColPizzaMargin, ColExteriorRetr,
	ColVariableCost, ColNotes, ColStatus,
}

// EventDisplayColumns is the column order of the event list and its CSV export.
var EventDisplayColumns = []string{
	ColID, ColDate, ColStartTime, ColEndTime, ColStatus, ColClientName, ColAddress, ColPhone,
	ColZone, ColPackage, ColPrice, ColPizzaAddon, ColExteriorRetr, ColVariableCost, ColNotes,
}

var eventNumericColumns = map[string]bool{
	ColID: true, ColPrice: true, ColPizzaMargin: true, ColVariableCost: true,
}

// NormalizeEventIDs repairs missing and duplicated ids without touching
// unaffected rows. A nil entry is a missing id.
func NormalizeEventIDs(ids []*int64) []int64 {
	out := make([]int64, len(ids))

	allMissing := true
	var maxID int64
	for _, id := range ids {
		if id == nil {
			continue
		}
		if allMissing || *id > maxID {
			maxID = *id
		}
		allMissing = false
	}
	if allMissing {
		for i := range out {
			out[i] = int64(i + 1)
		}
		return out
	}

	for i, id := range ids {
		if id == nil {
			maxID++
			out[i] = maxID
			continue
		}
		out[i] = *id
	}

	seen := make(map[int64]bool, len(out))
	for i, id := range out {
		if seen[id] {
			maxID++
			out[i] = maxID
			continue
		}
		seen[id] = true
	}
	return out
}

// NormalizeEvents enforces the id and status invariants on decoded events.
func NormalizeEvents(events []models.Event, ids []*int64) []models.Event {
	fixed := NormalizeEventIDs(ids)
	out := make([]models.Event, len(events))
	for i, e := range events {
		e.ID = fixed[i]
		if strings.TrimSpace(string(e.Status)) == "" {
			e.Status = models.EventStatusPending
		}
		out[i] = e
	}
	return out
}

// DecodeEvents reads the Event_Log sheet. Absent columns decode as empty
// values; the result satisfies the event invariants.
func DecodeEvents(s *database.Sheet) []models.Event {
	if s == nil {
		return nil
	}
	known := make(map[string]bool, len(EventLogColumns))
	for _, c := range EventLogColumns {
		known[c] = true
	}

	events := make([]models.Event, len(s.Rows))
	ids := make([]*int64, len(s.Rows))
	for r := range s.Rows {
		cell := func(col string) string { return strings.TrimSpace(s.Cell(r, col)) }
		ids[r] = parseIDCell(cell(ColID))
		e := models.Event{
			Date:             parseDateCell(cell(ColDate)),
			StartTime:        parseTimeCell(cell(ColStartTime)),
			EndTime:          parseTimeCell(cell(ColEndTime)),
			ClientName:       cell(ColClientName),
			Address:          cell(ColAddress),
			Phone:            cell(ColPhone),
			Zone:             cell(ColZone),
			Package:          models.Package(cell(ColPackage)),
			Price:            parseDecimalCell(cell(ColPrice)),
			HasPizzaAddon:    models.ParseYesNo(cell(ColPizzaAddon)),
			PizzaMargin:      parseDecimalCell(cell(ColPizzaMargin)),
			HasExteriorRetro: models.ParseYesNo(cell(ColExteriorRetr)),
			VariableCost:     parseOptionalDecimalCell(cell(ColVariableCost)),
			Notes:            cell(ColNotes),
			Status:           models.EventStatus(cell(ColStatus)),
		}
		for _, h := range s.Header {
			if h == "" || known[h] {
				continue
			}
			if e.Extra == nil {
				e.Extra = map[string]string{}
			}
			e.Extra[h] = s.Cell(r, h)
		}
		events[r] = e
	}
	return NormalizeEvents(events, ids)
}

// EncodeEvents writes events in storage column order followed by any extra
// columns they carry, sorted by name.
func EncodeEvents(events []models.Event) *database.Sheet {
	extraSet := map[string]bool{}
	for _, e := range events {
		for k := range e.Extra {
			extraSet[k] = true
		}
	}
	extra := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extra = append(extra, k)
	}
	sort.Strings(extra)

	s := database.NewSheet(database.SheetEventLog, append(append([]string(nil), EventLogColumns...), extra...)...)
	s.Numeric = eventNumericColumns
	s.Dates = map[string]bool{ColDate: true}
	s.Times = map[string]bool{ColStartTime: true, ColEndTime: true}
	for _, e := range events {
		values := EventRecord(e)
		for _, k := range extra {
			values[k] = e.Extra[k]
		}
		s.AppendRow(values)
	}
	return s
}

// EventRecord maps an event to column name -> cell text.
func EventRecord(e models.Event) map[string]string {
	return map[string]string{
		ColID:           formatID(e.ID),
		ColDate:         formatDate(e.Date),
		ColStartTime:    formatTime(e.StartTime),
		ColEndTime:      formatTime(e.EndTime),
		ColClientName:   e.ClientName,
		ColAddress:      e.Address,
		ColPhone:        e.Phone,
		ColZone:         e.Zone,
		ColPackage:      string(e.Package),
		ColPrice:        formatDecimal(e.Price),
		ColPizzaAddon:   models.FormatYesNo(e.HasPizzaAddon),
		ColPizzaMargin:  formatDecimal(e.PizzaMargin),
		ColExteriorRetr: models.FormatYesNo(e.HasExteriorRetro),
		ColVariableCost: formatOptionalDecimal(e.VariableCost),
		ColNotes:        e.Notes,
		ColStatus:       string(e.Status),
	}
}
