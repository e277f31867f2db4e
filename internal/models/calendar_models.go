package models

import "time"

// Date is a calendar date without a time of day. It marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

const DateLayout = "2006-01-02"

// NewDate truncates t to its calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}
	t, err := time.Parse(`"`+DateLayout+`"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TimeOfDay is a wall clock time with minute precision. It marshals as HH:MM.
type TimeOfDay struct {
	Hour   int
	Minute int
}

const TimeOfDayLayout = "15:04"

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

func (t TimeOfDay) String() string {
	return time.Date(2000, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format(TimeOfDayLayout)
}

// Add returns the time of day d later, wrapping past midnight.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	x := time.Date(2000, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Add(d)
	return TimeOfDay{Hour: x.Hour(), Minute: x.Minute()}
}

// On combines the time of day with a date.
func (t TimeOfDay) On(d Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}
	x, err := time.Parse(`"`+TimeOfDayLayout+`"`, s)
	if err != nil {
		return err
	}
	t.Hour, t.Minute = x.Hour(), x.Minute()
	return nil
}

// CalendarEntry is one event as shown on the agenda view.
type CalendarEntry struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Start         string            `json:"start"` // local ISO, 2006-01-02T15:04:05
	End           string            `json:"end"`
	Color         string            `json:"color"`
	ExtendedProps map[string]string `json:"extendedProps"`
}

// CalendarView is the payload handed to the calendar renderer.
type CalendarView struct {
	InitialDate string          `json:"initial_date,omitempty"`
	Events      []CalendarEntry `json:"events"`
}
