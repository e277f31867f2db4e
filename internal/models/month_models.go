package models

// SpanishMonths is the canonical month order used by every monthly table.
var SpanishMonths = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// MonthName returns the short Spanish name for a month number (1-12), or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return SpanishMonths[month-1]
}

// MonthNumber returns the 1-based index of a short month name, or 0 when unknown.
func MonthNumber(name string) int {
	for i, m := range SpanishMonths {
		if m == name {
			return i + 1
		}
	}
	return 0
}

// IsValidMonth reports whether name is one of SpanishMonths.
func IsValidMonth(name string) bool {
	return MonthNumber(name) != 0
}
