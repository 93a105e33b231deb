package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"brokerledger/internal/clearing"
	"brokerledger/internal/models"
	"brokerledger/internal/repository"
)

var (
	// ErrInvalidRange rejects a request before any ledger fetch happens.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrLedgerUnavailable marks a failed or timed-out ledger fetch.
	// Retry policy belongs to the caller; the service never returns a
	// partially computed report.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)

// LedgerSource supplies raw operations for a half-open time window
// [from, to). Order is not guaranteed; the service sorts once.
type LedgerSource interface {
	FetchOperations(ctx context.Context, from, to time.Time) ([]models.Operation, error)
}

// RepoSource reads the ingested ledger from the repository.
type RepoSource struct {
	Repo      repository.Repository
	AccountID string
}

func (s *RepoSource) FetchOperations(ctx context.Context, from, to time.Time) ([]models.Operation, error) {
	return s.Repo.ListOperations(ctx, repository.ListOperationsParams{
		AccountID: s.AccountID,
		From:      from,
		To:        to,
	})
}

// Report is the full reconciliation result for a date range. Maps are
// keyed by YYYY-MM-DD in the schedule timezone.
type Report struct {
	DailyData          map[string]clearing.DailySummary `json:"daily_data"`
	Summary            clearing.PeriodSummary           `json:"summary"`
	BalanceProgression map[string]decimal.Decimal       `json:"balance_progression"`
}

// PeriodBlock is one week or month bucket with its running balances.
type PeriodBlock struct {
	clearing.PeriodSummary
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// PeriodReport is a week- or month-bucketed breakdown over the same
// daily summaries an Analyze call would produce.
type PeriodReport struct {
	Periods []PeriodBlock          `json:"periods"`
	Summary clearing.PeriodSummary `json:"summary"`
}

// ReconcileService is the reconciliation entry point: it validates the
// range, fetches the ledger once, and derives daily, period, and
// balance views from a single daily slice so every granularity agrees.
type ReconcileService struct {
	Source       LedgerSource
	Schedule     clearing.Schedule
	Logger       *zap.Logger
	MaxRangeDays int
	FetchTimeout time.Duration
}

// Analyze reconciles [from, to] (inclusive calendar dates) against a
// known starting balance.
func (s *ReconcileService) Analyze(ctx context.Context, from, to time.Time, startingBalance decimal.Decimal) (*Report, error) {
	daily, err := s.buildDaily(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &Report{
		DailyData:          make(map[string]clearing.DailySummary, len(daily)),
		Summary:            clearing.Summarize(daily),
		BalanceProgression: make(map[string]decimal.Decimal, len(daily)),
	}
	for _, d := range daily {
		report.DailyData[dateKey(d.Date)] = d
	}
	for _, p := range clearing.ReconstructBalances(startingBalance, daily) {
		report.BalanceProgression[dateKey(p.Date)] = p.Balance
	}
	return report, nil
}

// AnalyzeWeekly reconciles the range bucketed by ISO week.
func (s *ReconcileService) AnalyzeWeekly(ctx context.Context, from, to time.Time, startingBalance decimal.Decimal) (*PeriodReport, error) {
	daily, err := s.buildDaily(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return buildPeriodReport(daily, clearing.BucketByWeek(daily), startingBalance), nil
}

// AnalyzeMonthly reconciles the range bucketed by calendar month.
func (s *ReconcileService) AnalyzeMonthly(ctx context.Context, from, to time.Time, startingBalance decimal.Decimal) (*PeriodReport, error) {
	daily, err := s.buildDaily(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return buildPeriodReport(daily, clearing.BucketByMonth(daily), startingBalance), nil
}

// buildDaily validates the range, fetches operations once, and produces
// one DailySummary per calendar date in [from, to], zero-activity dates
// included. This is the single place ordering is enforced.
func (s *ReconcileService) buildDaily(ctx context.Context, from, to time.Time) ([]clearing.DailySummary, error) {
	from = midnight(from, s.Schedule.Location)
	to = midnight(to, s.Schedule.Location)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidRange, dateKey(to), dateKey(from))
	}
	days := int(to.Sub(from).Hours()/24) + 1
	maxDays := s.MaxRangeDays
	if maxDays <= 0 {
		maxDays = 366
	}
	if days > maxDays {
		return nil, fmt.Errorf("%w: %d days exceeds limit of %d", ErrInvalidRange, days, maxDays)
	}

	fetchCtx := ctx
	if s.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.FetchTimeout)
		defer cancel()
	}
	ops, err := s.Source.FetchOperations(fetchCtx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].ExecutedAt.Before(ops[j].ExecutedAt)
	})

	byDate := make(map[string][]models.Operation, days)
	for _, op := range ops {
		key := dateKey(op.ExecutedAt.In(s.Schedule.Location))
		byDate[key] = append(byDate[key], op)
	}

	daily := make([]clearing.DailySummary, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		daily = append(daily, clearing.AggregateDay(s.Schedule, d, byDate[dateKey(d)]))
	}
	if s.Logger != nil {
		s.Logger.Debug("daily summaries built",
			zap.String("from", dateKey(from)),
			zap.String("to", dateKey(to)),
			zap.Int("operations", len(ops)),
		)
	}
	return daily, nil
}

func buildPeriodReport(daily []clearing.DailySummary, buckets [][]clearing.DailySummary, startingBalance decimal.Decimal) *PeriodReport {
	report := &PeriodReport{
		Periods: make([]PeriodBlock, 0, len(buckets)),
		Summary: clearing.Summarize(daily),
	}
	opening := startingBalance
	for _, bucket := range buckets {
		period := clearing.Summarize(bucket)
		closing := opening.Add(period.NetProfit)
		report.Periods = append(report.Periods, PeriodBlock{
			PeriodSummary:  period,
			OpeningBalance: opening,
			ClosingBalance: closing,
		})
		opening = closing
	}
	return report
}

func midnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
