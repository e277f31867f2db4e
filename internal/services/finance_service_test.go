package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamebus_backend/internal/models"
)

func TestFinanceMonthlyUsesAssumptions(t *testing.T) {
	events := []models.Event{completed(1, date(2025, time.September, 5), "3000")}
	store, _ := newTestStore(t, events,
		models.Assumption{Name: models.AssumptionDefaultVariableCost, Value: "250"},
		models.Assumption{Name: models.AssumptionMonthlyFixedCost, Value: "$1,000"},
		models.Assumption{Name: models.AssumptionFixedCostFromMonth, Value: "9"},
	)
	svc := NewFinanceService(store, DefaultFixedCostFromMonth)

	rows, err := svc.GetMonthlySummary()
	if err != nil {
		t.Fatal(err)
	}
	sep := rows[8]
	if !sep.FixedCost.Equal(dec("1000")) || !sep.VariableCostTotal.Equal(dec("250")) || !sep.NetProfit.Equal(dec("1750")) {
		t.Fatalf("Sep = %+v", sep)
	}
	if !rows[7].FixedCost.IsZero() {
		t.Fatalf("Aug fixed cost = %s", rows[7].FixedCost)
	}
}

func TestFinanceKPIsDefaultToCurrentMonth(t *testing.T) {
	events := []models.Event{
		completed(1, date(2025, time.January, 5), "100"),
		completed(2, date(2025, time.April, 5), "200"),
	}
	store, _ := newTestStore(t, events)
	svc := &financeService{store: store, fixedCostFromMonth: DefaultFixedCostFromMonth, now: fixedNow(time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC))}

	k, err := svc.GetKPIs(0)
	if err != nil {
		t.Fatal(err)
	}
	if k.AsOfMonth != 3 || k.EventsCount != 1 || !k.Revenue.Equal(dec("100")) {
		t.Fatalf("kpis = %+v", k)
	}
	if k, _ = svc.GetKPIs(12); k.EventsCount != 2 {
		t.Fatalf("full year = %+v", k)
	}
	if _, err := svc.GetKPIs(13); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestFinanceSaveAdsUpsertsMonth(t *testing.T) {
	store, _ := newTestStore(t, nil)
	svc := NewFinanceService(store, DefaultFixedCostFromMonth)
	ctx := context.Background()

	got, err := svc.SaveAds(ctx, AdsRequest{Month: "Feb", Spend: dec("1000"), Impressions: 2000, Clicks: 30, Messages: 8})
	if err != nil {
		t.Fatal(err)
	}
	if !got.CostPerMessage.Equal(dec("125")) || !got.CTRPct.Equal(dec("1.5")) {
		t.Fatalf("metrics = %+v", got)
	}
	if _, err := svc.SaveAds(ctx, AdsRequest{Month: "Feb", Spend: dec("10")}); err != nil {
		t.Fatal(err)
	}
	ads, _ := svc.GetAds()
	if len(ads) != 12 {
		t.Fatalf("ads rows = %d", len(ads))
	}
	if !ads[1].Spend.Equal(dec("10")) || !ads[1].CostPerMessage.IsZero() {
		t.Fatalf("Feb = %+v", ads[1])
	}

	if _, err := svc.SaveAds(ctx, AdsRequest{Month: "February"}); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := svc.SaveAds(ctx, AdsRequest{Month: "Mar", Spend: dec("-1")}); !errors.Is(err, ErrFinanceValidation) {
		t.Fatalf("expected ErrFinanceValidation, got %v", err)
	}
}

func TestFinanceFunnelFeedsBookingRatio(t *testing.T) {
	events := []models.Event{
		completed(1, date(2025, time.November, 5), "100"),
		completed(2, date(2025, time.November, 6), "100"),
		completed(3, date(2025, time.November, 7), "100"),
		completed(4, date(2025, time.November, 8), "100"),
	}
	store, _ := newTestStore(t, events)
	svc := NewFinanceService(store, DefaultFixedCostFromMonth)

	f, err := svc.SaveFunnel(context.Background(), FunnelRequest{Month: "Nov", Messages: 40, AppointmentsOffered: 10, ConfirmedReservations: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !f.CloseRatePct.Equal(dec("30")) {
		t.Fatalf("close rate = %s", f.CloseRatePct)
	}
	rows, _ := svc.GetMonthlySummary()
	if !rows[10].BookingRatioPct.Equal(dec("75")) {
		t.Fatalf("booking ratio = %s", rows[10].BookingRatioPct)
	}
}

func TestFinanceReplaceAssumptions(t *testing.T) {
	store, _ := newTestStore(t, nil, models.Assumption{Name: "Viejo", Value: "1"})
	svc := NewFinanceService(store, DefaultFixedCostFromMonth)
	ctx := context.Background()

	rows, err := svc.ReplaceAssumptions(ctx, []models.Assumption{
		{Name: models.AssumptionDefaultVariableCost, Value: "200"},
		{Name: "Nota", Value: "texto libre"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1].Value != "texto libre" {
		t.Fatalf("rows = %+v", rows)
	}
	if _, err := svc.ReplaceAssumptions(ctx, []models.Assumption{{Name: " "}}); !errors.Is(err, ErrFinanceValidation) {
		t.Fatalf("expected ErrFinanceValidation, got %v", err)
	}
	got, _ := svc.GetAssumptions()
	if len(got) != 2 || got[0].Name != models.AssumptionDefaultVariableCost {
		t.Fatalf("assumptions after rejected replace = %+v", got)
	}
}
