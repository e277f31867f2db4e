package services

import (
	"gamebus_backend/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultFixedCostFromMonth is October; fixed costs start that month.
const DefaultFixedCostFromMonth = 10

// RollupPolicy holds the assumption values the rollup needs.
type RollupPolicy struct {
	DefaultVariableCost decimal.Decimal
	MonthlyFixedCost    decimal.Decimal
	// FixedCostFromMonth is the first month index (1-12) charged fixed costs.
	FixedCostFromMonth int
}

type monthAccumulator struct {
	count         int
	revenue       decimal.Decimal
	variableCost  decimal.Decimal
	pizzaAddons   int
	pizzaMargin   decimal.Decimal
	retroCount    int
	missingVarCst int
}

// ComputeMonthly folds completed events into twelve rows in month order.
// reservations and reviews are keyed by Spanish month name. Inputs are not modified.
func ComputeMonthly(events []models.Event, reservations map[string]int64, reviews map[string]decimal.Decimal, policy RollupPolicy) []models.MonthlySummary {
	var acc [12]monthAccumulator
	for _, e := range events {
		if !e.Status.IsCompleted() {
			continue
		}
		m := e.Month()
		if m == 0 {
			continue
		}
		a := &acc[m-1]
		a.count++
		a.revenue = a.revenue.Add(e.Price)
		if e.VariableCost != nil {
			a.variableCost = a.variableCost.Add(*e.VariableCost)
		} else {
			a.missingVarCst++
		}
		if e.HasPizzaAddon {
			a.pizzaAddons++
		}
		a.pizzaMargin = a.pizzaMargin.Add(e.PizzaMargin)
		if e.HasExteriorRetro {
			a.retroCount++
		}
	}

	out := make([]models.MonthlySummary, 12)
	for i := range out {
		a := acc[i]
		name := models.MonthName(i + 1)
		row := models.MonthlySummary{
			Month:            name,
			EventsCount:      a.count,
			PizzaAddonsCount: a.pizzaAddons,
			AvgPrice:         decimal.Zero,
			RealARPU:         decimal.Zero,
			BookingRatioPct:  decimal.Zero,
			RetroAdoptionPct: decimal.Zero,
			FixedCost:        decimal.Zero,
			NewReviewsCount:  decimal.Zero,
		}
		row.Revenue = a.revenue.Round(2)
		row.VariableCostTotal = a.variableCost.
			Add(policy.DefaultVariableCost.Mul(decimal.NewFromInt(int64(a.missingVarCst)))).Round(2)
		row.PizzaMarginTotal = a.pizzaMargin.Round(2)
		if i+1 >= policy.FixedCostFromMonth {
			row.FixedCost = policy.MonthlyFixedCost.Round(2)
		}

		if a.count > 0 {
			n := decimal.NewFromInt(int64(a.count))
			row.AvgPrice = a.revenue.Div(n).Round(2)
			row.RealARPU = row.AvgPrice
			row.RetroAdoptionPct = decimal.NewFromInt(int64(a.retroCount)).Div(n).Mul(percent).Round(2)
			if r, ok := reservations[name]; ok {
				row.BookingRatioPct = decimal.NewFromInt(r).Div(n).Mul(percent).Round(2)
			}
		}
		if v, ok := reviews[name]; ok {
			row.NewReviewsCount = v
		}

		row.NetProfit = row.Revenue.Sub(row.VariableCostTotal).Sub(row.FixedCost).Add(row.PizzaMarginTotal)
		out[i] = row
	}
	return out
}

// YearToDate sums the rows with month index <= month.
func YearToDate(summary []models.MonthlySummary, month int) models.KPISummary {
	k := models.KPISummary{AsOfMonth: month, Revenue: decimal.Zero, NetProfit: decimal.Zero}
	for _, row := range summary {
		idx := models.MonthNumber(row.Month)
		if idx == 0 || idx > month {
			continue
		}
		k.EventsCount += row.EventsCount
		k.Revenue = k.Revenue.Add(row.Revenue)
		k.NetProfit = k.NetProfit.Add(row.NetProfit)
	}
	return k
}

var percent = decimal.NewFromInt(100)
