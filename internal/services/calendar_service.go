package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamebus_backend/internal/models"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/pkg/utils"
)

// Calendar colours by status and package.
const (
	ColorPending = "#3b82f6"
	ColorBlend   = "#7c3aed"
	ColorRetro   = "#ef4444"
	ColorClassic = "#10b981"
	ColorOther   = "#6b7280"
)

const (
	icsProdID       = "-//GAME BUS MTY//Agenda//ES"
	icsLocalLayout  = "20060102T150405"
	icsUTCLayout    = "20060102T150405Z"
	entryTimeLayout = "2006-01-02T15:04:05"
	mapsSearchURL   = "https://www.google.com/maps/search/?api=1&query="
)

// icsDescriptionFields are the columns joined into DESCRIPTION, in order.
var icsDescriptionFields = []string{
	repositories.ColZone, repositories.ColPackage, repositories.ColNotes, repositories.ColPhone, repositories.ColAddress,
}

// --- CalendarService Interface ---
type CalendarService interface {
	GetCalendar(filters models.EventFilters) (*models.CalendarView, error)
	ExportICS(filters models.EventFilters) ([]byte, error)
	ExportCSV(filters models.EventFilters) ([]byte, error)
}

type calendarService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewCalendarService(store *repositories.Store) CalendarService {
	return &calendarService{store: store, now: time.Now}
}

func (s *calendarService) events(filters models.EventFilters) ([]models.Event, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return FilterEvents(t.Events, filters), nil
}

func (s *calendarService) GetCalendar(filters models.EventFilters) (*models.CalendarView, error) {
	events, err := s.events(filters)
	if err != nil {
		return nil, err
	}
	view := &models.CalendarView{
		InitialDate: s.now().Format(models.DateLayout),
		Events:      ProjectCalendar(events),
	}
	return view, nil
}

func (s *calendarService) ExportICS(filters models.EventFilters) ([]byte, error) {
	events, err := s.events(filters)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteICS(&buf, events, s.now()); err != nil {
		return nil, fmt.Errorf("failed to write ics: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *calendarService) ExportCSV(filters models.EventFilters) ([]byte, error) {
	events, err := s.events(filters)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, events); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EventSpan resolves the start and end of a dated event. ok is false for
// undated events.
func EventSpan(e models.Event) (start, end time.Time, ok bool) {
	if e.Date == nil {
		return time.Time{}, time.Time{}, false
	}
	st := DefaultStartTime
	if e.StartTime != nil {
		st = *e.StartTime
	}
	start = st.On(*e.Date)
	end = start.Add(DefaultEventDuration)
	if e.EndTime != nil {
		if candidate := e.EndTime.On(*e.Date); candidate.After(start) {
			end = candidate
		}
	}
	return start, end, true
}

// EventColor picks the agenda colour; pending status wins over package.
func EventColor(pkg models.Package, status models.EventStatus) string {
	p := strings.ToLower(strings.TrimSpace(string(pkg)))
	retro := strings.Contains(p, "retro")
	classic := strings.Contains(p, "clásico")
	switch {
	case status.IsPending():
		return ColorPending
	case retro && classic:
		return ColorBlend
	case retro:
		return ColorRetro
	case classic:
		return ColorClassic
	default:
		return ColorOther
	}
}

// ProjectCalendar maps events to agenda entries, skipping undated ones.
func ProjectCalendar(events []models.Event) []models.CalendarEntry {
	out := make([]models.CalendarEntry, 0, len(events))
	for _, e := range events {
		start, end, ok := EventSpan(e)
		if !ok {
			continue
		}
		status := string(e.Status)
		if status == "" {
			status = string(models.EventStatusPending)
		}
		props := map[string]string{
			"id":      strconv.FormatInt(e.ID, 10),
			"package": string(e.Package),
			"address": e.Address,
			"phone":   e.Phone,
			"notes":   e.Notes,
		}
		if addr := strings.TrimSpace(e.Address); addr != "" {
			props["maps_url"] = mapsSearchURL + url.QueryEscape(addr)
		}
		if phone := strings.Join(strings.Fields(e.Phone), ""); phone != "" {
			props["tel_url"] = "tel:" + phone
		}
		out = append(out, models.CalendarEntry{
			ID:            e.ID,
			Title:         fmt.Sprintf("%s (%s)", utils.FirstNonEmpty(e.ClientName, e.Zone, "Evento"), status),
			Start:         start.Format(entryTimeLayout),
			End:           end.Format(entryTimeLayout),
			Color:         EventColor(e.Package, e.Status),
			ExtendedProps: props,
		})
	}
	return out
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func icsText(s string) string {
	return icsEscaper.Replace(s)
}

// WriteICS renders an iCalendar document with one VEVENT per dated event.
// Lines end in CRLF.
func WriteICS(w io.Writer, events []models.Event, now time.Time) error {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:" + icsProdID}
	stamp := now.UTC().Format(icsUTCLayout)
	for _, e := range events {
		start, end, ok := EventSpan(e)
		if !ok {
			continue
		}
		record := repositories.EventRecord(e)
		var desc []string
		for _, key := range icsDescriptionFields {
			if v := strings.TrimSpace(record[key]); v != "" {
				desc = append(desc, key+": "+v)
			}
		}
		name := utils.FirstNonEmpty(e.ClientName, "Cliente")
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+start.Format(icsLocalLayout)+"-gamebus@agenda",
			"DTSTAMP:"+stamp,
			"DTSTART:"+start.Format(icsLocalLayout),
			"DTEND:"+end.Format(icsLocalLayout),
			"SUMMARY:"+icsText(fmt.Sprintf("Evento: %s - $%s", name, utils.FormatThousands(e.Price))),
			"LOCATION:"+icsText(e.Address),
			"DESCRIPTION:"+icsText(strings.Join(desc, " | ")),
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR")
	_, err := io.WriteString(w, strings.Join(lines, "\r\n"))
	return err
}

// WriteEventsCSV writes the display columns of events as CSV.
func WriteEventsCSV(w io.Writer, events []models.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(repositories.EventDisplayColumns); err != nil {
		return err
	}
	row := make([]string, len(repositories.EventDisplayColumns))
	for _, e := range events {
		record := repositories.EventRecord(e)
		for i, col := range repositories.EventDisplayColumns {
			row[i] = record[col]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
