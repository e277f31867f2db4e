package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// ParseDecimal accepts user formatted amounts like "1,500", "$ 1500.50" or
// "MXN 200". ok is false for blank or unparseable input.
func ParseDecimal(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	replacer := strings.NewReplacer(",", "", "$", "", "MXN", "", "mxn", "", " ", "")
	clean := replacer.Replace(s)
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseCount reads integer counters that spreadsheets may store as "12" or "12.0".
func ParseCount(s string) (int64, bool) {
	d, ok := ParseDecimal(s)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

// FormatThousands renders d with no decimals and comma thousand separators.
func FormatThousands(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return fmt.Sprintf("-%s", b.String())
	}
	return b.String()
}
