package repositories

import (
	"strconv"
	"strings"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/models"
	"gamebus_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const ColMonth = "Mes"

// Assumptions columns.
const (
	ColAssumptionName  = "Variable"
	ColAssumptionValue = "Valor"
)

// Ads columns.
const (
	ColAdsSpend          = "Gasto Ads (MXN)"
	ColAdsImpressions    = "Impresiones"
	ColAdsClicks         = "Clics"
	ColAdsMessages       = "Mensajes"
	ColAdsCostPerMessage = "Costo por mensaje (MXN)"
	ColAdsCTR            = "CTR (%)"
)

// Funnel columns.
const (
	ColFunnelMessages     = "Mensajes"
	ColFunnelAppointments = "Citas ofrecidas"
	ColFunnelReservations = "Reservas confirmadas"
	ColFunnelCloseRate    = "Tasa de cierre (%)"
)

const ColMonthlyReviews = "Reseñas nuevas (#)"

var (
	AdsColumns    = []string{ColMonth, ColAdsSpend, ColAdsImpressions, ColAdsClicks, ColAdsMessages, ColAdsCostPerMessage, ColAdsCTR}
	FunnelColumns = []string{ColMonth, ColFunnelMessages, ColFunnelAppointments, ColFunnelReservations, ColFunnelCloseRate}
)

var hundred = decimal.NewFromInt(100)

// ============================================================
// Assumptions
// ============================================================

// DecodeAssumptions reads name/value pairs; sheets without both columns are empty.
func DecodeAssumptions(s *database.Sheet) []models.Assumption {
	if s == nil || !s.HasColumn(ColAssumptionName) || !s.HasColumn(ColAssumptionValue) {
		return nil
	}
	out := make([]models.Assumption, 0, len(s.Rows))
	for r := range s.Rows {
		out = append(out, models.Assumption{
			Name:  strings.TrimSpace(s.Cell(r, ColAssumptionName)),
			Value: strings.TrimSpace(s.Cell(r, ColAssumptionValue)),
		})
	}
	return out
}

// EncodeAssumptions builds the sheet the assumptions editor saves.
func EncodeAssumptions(rows []models.Assumption) *database.Sheet {
	s := database.NewSheet(database.SheetAssumptions, ColAssumptionName, ColAssumptionValue)
	s.Numeric = map[string]bool{ColAssumptionValue: true}
	for _, a := range rows {
		s.AppendRow(map[string]string{ColAssumptionName: strings.TrimSpace(a.Name), ColAssumptionValue: strings.TrimSpace(a.Value)})
	}
	return s
}

// LookupAssumption returns the first numeric value stored under name, or def.
func LookupAssumption(rows []models.Assumption, name string, def decimal.Decimal) decimal.Decimal {
	for _, a := range rows {
		if a.Name != name {
			continue
		}
		if v, ok := utils.ParseDecimal(a.Value); ok {
			return v
		}
		return def
	}
	return def
}

// ============================================================
// Ads & Funnel
// ============================================================

// WithAdsMetrics recomputes the derived Ads ratios.
func WithAdsMetrics(a models.AdsMonth) models.AdsMonth {
	a.CostPerMessage = decimal.Zero
	a.CTRPct = decimal.Zero
	if a.Messages != 0 {
		a.CostPerMessage = a.Spend.Div(decimal.NewFromInt(a.Messages)).Round(2)
	}
	if a.Impressions != 0 {
		a.CTRPct = decimal.NewFromInt(a.Clicks).Div(decimal.NewFromInt(a.Impressions)).Mul(hundred).Round(2)
	}
	return a
}

// WithFunnelMetrics recomputes the close rate.
func WithFunnelMetrics(f models.FunnelMonth) models.FunnelMonth {
	f.CloseRatePct = decimal.Zero
	if f.AppointmentsOffered != 0 {
		f.CloseRatePct = decimal.NewFromInt(f.ConfirmedReservations).
			Div(decimal.NewFromInt(f.AppointmentsOffered)).Mul(hundred).Round(2)
	}
	return f
}

func count(s *database.Sheet, r int, col string) int64 {
	n, _ := utils.ParseCount(s.Cell(r, col))
	return n
}

// DecodeAds reads the Ads sheet with ratios recomputed from the raw counters.
func DecodeAds(s *database.Sheet) []models.AdsMonth {
	if s == nil || !s.HasColumn(ColMonth) {
		return nil
	}
	out := make([]models.AdsMonth, 0, len(s.Rows))
	for r := range s.Rows {
		out = append(out, WithAdsMetrics(models.AdsMonth{
			Month:       strings.TrimSpace(s.Cell(r, ColMonth)),
			Spend:       parseDecimalCell(s.Cell(r, ColAdsSpend)),
			Impressions: count(s, r, ColAdsImpressions),
			Clicks:      count(s, r, ColAdsClicks),
			Messages:    count(s, r, ColAdsMessages),
		}))
	}
	return out
}

// DecodeFunnel reads the Funnel sheet with the close rate recomputed.
func DecodeFunnel(s *database.Sheet) []models.FunnelMonth {
	if s == nil || !s.HasColumn(ColMonth) {
		return nil
	}
	out := make([]models.FunnelMonth, 0, len(s.Rows))
	for r := range s.Rows {
		out = append(out, WithFunnelMetrics(models.FunnelMonth{
			Month:                 strings.TrimSpace(s.Cell(r, ColMonth)),
			Messages:              count(s, r, ColFunnelMessages),
			AppointmentsOffered:   count(s, r, ColFunnelAppointments),
			ConfirmedReservations: count(s, r, ColFunnelReservations),
		}))
	}
	return out
}

// FunnelReservations maps month -> confirmed reservations, first row wins.
// Rows with a blank counter are left out.
func FunnelReservations(s *database.Sheet) map[string]int64 {
	out := map[string]int64{}
	if s == nil || !s.HasColumn(ColMonth) || !s.HasColumn(ColFunnelReservations) {
		return out
	}
	for r := range s.Rows {
		m := strings.TrimSpace(s.Cell(r, ColMonth))
		if _, dup := out[m]; dup {
			continue
		}
		if n, ok := utils.ParseCount(s.Cell(r, ColFunnelReservations)); ok {
			out[m] = n
		}
	}
	return out
}

func adsRecord(a models.AdsMonth) map[string]string {
	a = WithAdsMetrics(a)
	return map[string]string{
		ColMonth:             a.Month,
		ColAdsSpend:          formatDecimal(a.Spend),
		ColAdsImpressions:    strconv.FormatInt(a.Impressions, 10),
		ColAdsClicks:         strconv.FormatInt(a.Clicks, 10),
		ColAdsMessages:       strconv.FormatInt(a.Messages, 10),
		ColAdsCostPerMessage: formatDecimal(a.CostPerMessage),
		ColAdsCTR:            formatDecimal(a.CTRPct),
	}
}

func funnelRecord(f models.FunnelMonth) map[string]string {
	f = WithFunnelMetrics(f)
	return map[string]string{
		ColMonth:              f.Month,
		ColFunnelMessages:     strconv.FormatInt(f.Messages, 10),
		ColFunnelAppointments: strconv.FormatInt(f.AppointmentsOffered, 10),
		ColFunnelReservations: strconv.FormatInt(f.ConfirmedReservations, 10),
		ColFunnelCloseRate:    formatDecimal(f.CloseRatePct),
	}
}

// UpsertAds returns a copy of s with the month's row replaced or appended.
func UpsertAds(s *database.Sheet, a models.AdsMonth) *database.Sheet {
	return upsertMonth(s, database.SheetAds, AdsColumns, adsRecord(a))
}

// UpsertFunnel is UpsertAds for the Funnel sheet.
func UpsertFunnel(s *database.Sheet, f models.FunnelMonth) *database.Sheet {
	return upsertMonth(s, database.SheetFunnel, FunnelColumns, funnelRecord(f))
}

// upsertMonth keeps foreign columns of the sheet intact. A sheet without a
// Mes column is restarted with one row per month.
func upsertMonth(s *database.Sheet, name string, columns []string, values map[string]string) *database.Sheet {
	var out *database.Sheet
	if s == nil || !s.HasColumn(ColMonth) {
		out = database.NewSheet(name, ColMonth)
		for _, m := range models.SpanishMonths {
			out.AppendRow(map[string]string{ColMonth: m})
		}
	} else {
		out = s.Clone()
	}
	out.Name = name

	for _, c := range columns {
		if !out.HasColumn(c) {
			out.Header = append(out.Header, c)
		}
	}
	for i := range out.Rows {
		for len(out.Rows[i]) < len(out.Header) {
			out.Rows[i] = append(out.Rows[i], "")
		}
	}
	if out.Numeric == nil {
		out.Numeric = map[string]bool{}
	}
	for _, c := range columns[1:] {
		out.Numeric[c] = true
	}

	month := values[ColMonth]
	monthCol := out.ColumnIndex(ColMonth)
	for _, row := range out.Rows {
		if strings.TrimSpace(row[monthCol]) != month {
			continue
		}
		for _, c := range columns {
			row[out.ColumnIndex(c)] = values[c]
		}
		return out
	}
	out.AppendRow(values)
	return out
}

// ============================================================
// Monthly
// ============================================================

// DecodeMonthlyReviews reads Mes -> Reseñas nuevas (#) from the Monthly sheet.
func DecodeMonthlyReviews(s *database.Sheet) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	if s == nil || !s.HasColumn(ColMonth) || !s.HasColumn(ColMonthlyReviews) {
		return out
	}
	for r := range s.Rows {
		m := strings.TrimSpace(s.Cell(r, ColMonth))
		if _, dup := out[m]; dup {
			continue
		}
		if v, ok := utils.ParseDecimal(s.Cell(r, ColMonthlyReviews)); ok {
			out[m] = v
		}
	}
	return out
}
