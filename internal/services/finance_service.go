package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/models"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMonth      = errors.New("month must be one of Ene..Dic")
	ErrFinanceValidation = errors.New("finance data validation error")
)

// --- Finance DTOs ---

type AdsRequest struct {
	Month       string          `json:"month" binding:"required,month"`
	Spend       decimal.Decimal `json:"spend"`
	Impressions int64           `json:"impressions" binding:"min=0"`
	Clicks      int64           `json:"clicks" binding:"min=0"`
	Messages    int64           `json:"messages" binding:"min=0"`
}

type FunnelRequest struct {
	Month                 string `json:"month" binding:"required,month"`
	Messages              int64  `json:"messages" binding:"min=0"`
	AppointmentsOffered   int64  `json:"appointments_offered" binding:"min=0"`
	ConfirmedReservations int64  `json:"confirmed_reservations" binding:"min=0"`
}

type AssumptionsRequest struct {
	Rows []models.Assumption `json:"rows" binding:"dive"`
}

// --- FinanceService Interface ---
type FinanceService interface {
	GetMonthlySummary() ([]models.MonthlySummary, error)
	// GetKPIs sums the rollup up to month; month 0 means the current month.
	GetKPIs(month int) (*models.KPISummary, error)
	GetAds() ([]models.AdsMonth, error)
	SaveAds(ctx context.Context, req AdsRequest) (*models.AdsMonth, error)
	GetFunnel() ([]models.FunnelMonth, error)
	SaveFunnel(ctx context.Context, req FunnelRequest) (*models.FunnelMonth, error)
	GetAssumptions() ([]models.Assumption, error)
	ReplaceAssumptions(ctx context.Context, rows []models.Assumption) ([]models.Assumption, error)
}

// --- financeService Implementation ---
type financeService struct {
	store              *repositories.Store
	fixedCostFromMonth int
	now                func() time.Time
}

// NewFinanceService creates a FinanceService. fixedCostFromMonth is the
// default threshold used when the Assumptions sheet does not override it.
func NewFinanceService(store *repositories.Store, fixedCostFromMonth int) FinanceService {
	return &financeService{store: store, fixedCostFromMonth: fixedCostFromMonth, now: time.Now}
}

// policyFor reads the rollup assumptions from t.
func (s *financeService) policyFor(t *repositories.Tables) RollupPolicy {
	from := s.fixedCostFromMonth
	if from <= 0 {
		from = DefaultFixedCostFromMonth
	}
	if v := t.Assumption(models.AssumptionFixedCostFromMonth, decimal.Zero); v.IsPositive() {
		from = int(v.IntPart())
	}
	return RollupPolicy{
		DefaultVariableCost: t.Assumption(models.AssumptionDefaultVariableCost, decimal.Zero),
		MonthlyFixedCost:    t.Assumption(models.AssumptionMonthlyFixedCost, decimal.Zero),
		FixedCostFromMonth:  from,
	}
}

func (s *financeService) monthly(t *repositories.Tables) []models.MonthlySummary {
	return ComputeMonthly(
		t.Events,
		repositories.FunnelReservations(t.Sheet(database.SheetFunnel)),
		repositories.DecodeMonthlyReviews(t.Sheet(database.SheetMonthly)),
		s.policyFor(t),
	)
}

func (s *financeService) GetMonthlySummary() ([]models.MonthlySummary, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.monthly(t), nil
}

func (s *financeService) GetKPIs(month int) (*models.KPISummary, error) {
	if month == 0 {
		month = int(s.now().Month())
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month index %d", ErrInvalidMonth, month)
	}
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	k := YearToDate(s.monthly(t), month)
	return &k, nil
}

func (s *financeService) GetAds() ([]models.AdsMonth, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return t.Ads(), nil
}

func (s *financeService) SaveAds(ctx context.Context, req AdsRequest) (*models.AdsMonth, error) {
	if !models.IsValidMonth(req.Month) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidMonth, req.Month)
	}
	if req.Spend.IsNegative() || req.Impressions < 0 || req.Clicks < 0 || req.Messages < 0 {
		return nil, fmt.Errorf("%w: ads values cannot be negative", ErrFinanceValidation)
	}
	row := repositories.WithAdsMetrics(models.AdsMonth{
		Month:       req.Month,
		Spend:       req.Spend,
		Impressions: req.Impressions,
		Clicks:      req.Clicks,
		Messages:    req.Messages,
	})
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		t.PutSheet(repositories.UpsertAds(t.Workbook.Sheet(database.SheetAds), row))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save ads for %s: %w", req.Month, err)
	}
	utils.LogInfo("Ads saved", map[string]interface{}{"month": req.Month})
	return &row, nil
}

func (s *financeService) GetFunnel() ([]models.FunnelMonth, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return t.Funnel(), nil
}

func (s *financeService) SaveFunnel(ctx context.Context, req FunnelRequest) (*models.FunnelMonth, error) {
	if !models.IsValidMonth(req.Month) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidMonth, req.Month)
	}
	if req.Messages < 0 || req.AppointmentsOffered < 0 || req.ConfirmedReservations < 0 {
		return nil, fmt.Errorf("%w: funnel values cannot be negative", ErrFinanceValidation)
	}
	row := repositories.WithFunnelMetrics(models.FunnelMonth{
		Month:                 req.Month,
		Messages:              req.Messages,
		AppointmentsOffered:   req.AppointmentsOffered,
		ConfirmedReservations: req.ConfirmedReservations,
	})
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		t.PutSheet(repositories.UpsertFunnel(t.Workbook.Sheet(database.SheetFunnel), row))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save funnel for %s: %w", req.Month, err)
	}
	utils.LogInfo("Funnel saved", map[string]interface{}{"month": req.Month})
	return &row, nil
}

func (s *financeService) GetAssumptions() ([]models.Assumption, error) {
	t, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return t.Assumptions(), nil
}

func (s *financeService) ReplaceAssumptions(ctx context.Context, rows []models.Assumption) ([]models.Assumption, error) {
	for i, a := range rows {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("%w: row %d has no name", ErrFinanceValidation, i+1)
		}
	}
	err := s.store.Mutate(ctx, func(t *repositories.Tables) error {
		t.PutSheet(repositories.EncodeAssumptions(rows))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save assumptions: %w", err)
	}
	utils.LogInfo("Assumptions replaced", map[string]interface{}{"rows": len(rows)})
	return s.GetAssumptions()
}
