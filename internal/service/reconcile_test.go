package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"brokerledger/internal/clearing"
	"brokerledger/internal/models"
)

type stubSource struct {
	ops     []models.Operation
	err     error
	from    time.Time
	to      time.Time
	fetches int
}

func (s *stubSource) FetchOperations(_ context.Context, from, to time.Time) ([]models.Operation, error) {
	s.fetches++
	s.from = from
	s.to = to
	if s.err != nil {
		return nil, s.err
	}
	return s.ops, nil
}

func newTestService(t *testing.T, src LedgerSource) *ReconcileService {
	t.Helper()
	sched, err := clearing.NewSchedule("Europe/Moscow", "10:00:00", "14:00:00")
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return &ReconcileService{
		Source:       src,
		Schedule:     sched,
		MaxRangeDays: 366,
	}
}

func decS(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("decimal %q: %v", v, err)
	}
	return d
}

func opS(t *testing.T, kind string, when time.Time, amount string) models.Operation {
	t.Helper()
	return models.Operation{Kind: kind, ExecutedAt: when, Amount: decS(t, amount)}
}

// aprilOperations reproduces a real month with no trades: the account
// only collects variation margin at both clearings and pays fees.
// Sums: day clearing +1704.59, evening clearing -7217.62, fees 7835.31.
func aprilOperations(t *testing.T, loc *time.Location) []models.Operation {
	t.Helper()
	d := func(day, hour, min int) time.Time {
		return time.Date(2025, 4, day, hour, min, 0, 0, loc)
	}
	return []models.Operation{
		opS(t, models.KindVariationMargin, d(3, 12, 1), "2100.00"),
		opS(t, models.KindVariationMargin, d(10, 13, 45), "-395.41"),
		opS(t, models.KindVariationMargin, d(4, 18, 45), "-3000.00"),
		opS(t, models.KindVariationMargin, d(15, 19, 5), "-4217.62"),
		opS(t, models.KindBrokerFee, d(4, 18, 46), "-5000.00"),
		opS(t, models.KindBrokerFee, d(21, 18, 50), "-2835.31"),
	}
}

func TestAnalyze_MonthWithoutTrades(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)
	src.ops = aprilOperations(t, svc.Schedule.Location)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, svc.Schedule.Location)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, svc.Schedule.Location)
	start := decS(t, "44127.39")

	report, err := svc.Analyze(context.Background(), from, to, start)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	sum := report.Summary
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"day clearing", sum.DayClearing, "1704.59"},
		{"evening clearing", sum.EveningClearing, "-7217.62"},
		{"commission", sum.Commission, "7835.31"},
		{"trade result", sum.TradeResult, "0"},
		{"total earnings", sum.GrossEarnings, "-5513.03"},
		{"net profit", sum.NetProfit, "-13348.34"},
	}
	for _, c := range checks {
		if c.got.Cmp(decS(t, c.want)) != 0 {
			t.Errorf("%s=%s want %s", c.name, c.got, c.want)
		}
	}
	if sum.TradesCount != 0 {
		t.Errorf("trades_count=%d want 0", sum.TradesCount)
	}

	// Closing the month from the starting balance lands on the
	// statement's ending value.
	ending := start.Add(sum.NetProfit)
	if want := decS(t, "30779.05"); ending.Cmp(want) != 0 {
		t.Errorf("ending balance=%s want %s", ending, want)
	}

	// Every calendar date appears, activity or not.
	if len(report.DailyData) != 30 {
		t.Fatalf("daily dates=%d want 30", len(report.DailyData))
	}
	quiet, ok := report.DailyData["2025-04-07"]
	if !ok {
		t.Fatalf("missing zero-activity date 2025-04-07")
	}
	if !quiet.TotalProfit.IsZero() {
		t.Errorf("quiet day profit=%s want 0", quiet.TotalProfit)
	}

	// The balance series opens on the starting balance and its last
	// point still excludes the last day's profit.
	if b := report.BalanceProgression["2025-04-01"]; b.Cmp(start) != 0 {
		t.Errorf("opening balance=%s want %s", b, start)
	}
	last := report.BalanceProgression["2025-04-30"]
	lastDay := report.DailyData["2025-04-30"]
	if got := last.Add(lastDay.TotalProfit); got.Cmp(ending) != 0 {
		t.Errorf("last balance + last profit=%s want %s", got, ending)
	}
}

func TestAnalyze_FetchWindowIsHalfOpen(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, svc.Schedule.Location)
	to := time.Date(2025, 4, 3, 0, 0, 0, 0, svc.Schedule.Location)
	if _, err := svc.Analyze(context.Background(), from, to, decimal.Zero); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !src.from.Equal(from) {
		t.Errorf("fetch from=%s want %s", src.from, from)
	}
	if want := to.AddDate(0, 0, 1); !src.to.Equal(want) {
		t.Errorf("fetch to=%s want %s", src.to, want)
	}
}

func TestAnalyze_RejectsReversedRange(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)

	from := time.Date(2025, 4, 10, 0, 0, 0, 0, svc.Schedule.Location)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, svc.Schedule.Location)
	_, err := svc.Analyze(context.Background(), from, to, decimal.Zero)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err=%v want ErrInvalidRange", err)
	}
	if src.fetches != 0 {
		t.Errorf("fetches=%d want 0", src.fetches)
	}
}

func TestAnalyze_RejectsOversizedRange(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)
	svc.MaxRangeDays = 31

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, svc.Schedule.Location)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, svc.Schedule.Location)
	_, err := svc.Analyze(context.Background(), from, to, decimal.Zero)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err=%v want ErrInvalidRange", err)
	}
	if src.fetches != 0 {
		t.Errorf("fetches=%d want 0", src.fetches)
	}
}

func TestAnalyze_SourceFailure(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	svc := newTestService(t, src)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, svc.Schedule.Location)
	report, err := svc.Analyze(context.Background(), from, from, decimal.Zero)
	if !errors.Is(err, ErrLedgerUnavailable) {
		t.Fatalf("err=%v want ErrLedgerUnavailable", err)
	}
	if report != nil {
		t.Fatalf("report=%+v want nil on failure", report)
	}
}

func TestAnalyze_ToleratesUnsortedSource(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)
	loc := svc.Schedule.Location
	// Deliberately newest-first.
	src.ops = []models.Operation{
		opS(t, models.KindVariationMargin, time.Date(2025, 4, 2, 18, 45, 0, 0, loc), "-50"),
		opS(t, models.KindVariationMargin, time.Date(2025, 4, 1, 12, 0, 0, 0, loc), "100"),
	}

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, loc)
	to := time.Date(2025, 4, 2, 0, 0, 0, 0, loc)
	report, err := svc.Analyze(context.Background(), from, to, decS(t, "1000"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := report.DailyData["2025-04-01"].DayClearing; got.Cmp(decS(t, "100")) != 0 {
		t.Errorf("day 1 clearing=%s want 100", got)
	}
	if got := report.BalanceProgression["2025-04-02"]; got.Cmp(decS(t, "1100")) != 0 {
		t.Errorf("day 2 opening=%s want 1100", got)
	}
}

func TestAnalyzeMonthly_AgreesWithDaily(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)
	src.ops = aprilOperations(t, svc.Schedule.Location)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, svc.Schedule.Location)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, svc.Schedule.Location)
	start := decS(t, "44127.39")

	daily, err := svc.Analyze(context.Background(), from, to, start)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	monthly, err := svc.AnalyzeMonthly(context.Background(), from, to, start)
	if err != nil {
		t.Fatalf("AnalyzeMonthly: %v", err)
	}

	if len(monthly.Periods) != 1 {
		t.Fatalf("periods=%d want 1", len(monthly.Periods))
	}
	p := monthly.Periods[0]
	if p.NetProfit.Cmp(daily.Summary.NetProfit) != 0 {
		t.Errorf("period net=%s want %s", p.NetProfit, daily.Summary.NetProfit)
	}
	if p.OpeningBalance.Cmp(start) != 0 {
		t.Errorf("opening=%s want %s", p.OpeningBalance, start)
	}
	if want := start.Add(daily.Summary.NetProfit); p.ClosingBalance.Cmp(want) != 0 {
		t.Errorf("closing=%s want %s", p.ClosingBalance, want)
	}
	if monthly.Summary.NetProfit.Cmp(daily.Summary.NetProfit) != 0 {
		t.Errorf("summary net=%s want %s", monthly.Summary.NetProfit, daily.Summary.NetProfit)
	}
}

func TestAnalyzeWeekly_ThreadsBalances(t *testing.T) {
	src := &stubSource{}
	svc := newTestService(t, src)
	loc := svc.Schedule.Location
	// One profitable day in each of two ISO weeks.
	src.ops = []models.Operation{
		opS(t, models.KindVariationMargin, time.Date(2025, 3, 31, 12, 0, 0, 0, loc), "250"),
		opS(t, models.KindVariationMargin, time.Date(2025, 4, 7, 12, 0, 0, 0, loc), "-100"),
	}

	from := time.Date(2025, 3, 31, 0, 0, 0, 0, loc)
	to := time.Date(2025, 4, 13, 0, 0, 0, 0, loc)
	start := decS(t, "1000")

	weekly, err := svc.AnalyzeWeekly(context.Background(), from, to, start)
	if err != nil {
		t.Fatalf("AnalyzeWeekly: %v", err)
	}
	if len(weekly.Periods) != 2 {
		t.Fatalf("periods=%d want 2", len(weekly.Periods))
	}
	first, second := weekly.Periods[0], weekly.Periods[1]
	if first.ClosingBalance.Cmp(second.OpeningBalance) != 0 {
		t.Errorf("week 1 closing %s != week 2 opening %s", first.ClosingBalance, second.OpeningBalance)
	}
	if want := decS(t, "1250"); first.ClosingBalance.Cmp(want) != 0 {
		t.Errorf("week 1 closing=%s want %s", first.ClosingBalance, want)
	}
	if want := decS(t, "1150"); second.ClosingBalance.Cmp(want) != 0 {
		t.Errorf("week 2 closing=%s want %s", second.ClosingBalance, want)
	}
}
