package repositories

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gamebus_backend/internal/models"
	"gamebus_backend/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseDateCell accepts ISO and month-first text dates and Excel serial numbers.
// Anything else is treated as absent.
func parseDateCell(s string) *models.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 {
			return nil
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		d := models.NewDate(t.Year(), t.Month(), t.Day())
		return &d
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := models.NewDate(t.Year(), t.Month(), t.Day())
			return &d
		}
	}
	return nil
}

// parseTimeCell accepts HH:MM text, 12h text, datetimes and Excel day fractions.
func parseTimeCell(s string) *models.TimeOfDay {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return nil
		}
		_, frac := math.Modf(f)
		minutes := int(math.Round(frac * 24 * 60))
		if minutes >= 24*60 {
			minutes = 0
		}
		t := models.NewTimeOfDay(minutes/60, minutes%60)
		return &t
	}
	for _, layout := range timeLayouts {
		if x, err := time.Parse(layout, s); err == nil {
			t := models.NewTimeOfDay(x.Hour(), x.Minute())
			return &t
		}
	}
	return nil
}

func parseDecimalCell(s string) decimal.Decimal {
	d, _ := utils.ParseDecimal(s)
	return d
}

func parseOptionalDecimalCell(s string) *decimal.Decimal {
	d, ok := utils.ParseDecimal(s)
	if !ok {
		return nil
	}
	return &d
}

func parseIDCell(s string) *int64 {
	d, ok := utils.ParseDecimal(s)
	if !ok {
		return nil
	}
	id := d.IntPart()
	if id <= 0 {
		return nil
	}
	return &id
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatTime(t *models.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func formatDecimal(d decimal.Decimal) string {
	return d.String()
}

func formatOptionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
