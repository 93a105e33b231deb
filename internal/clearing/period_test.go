package clearing

import (
	"testing"
	"time"
)

// tableDays reproduces the first statement week used to validate the
// engine against the broker's own numbers (31.03-04.04).
func tableDays(t *testing.T) []DailySummary {
	t.Helper()
	s := testSchedule(t)
	mk := func(day int, month time.Month, dayClr, eveClr, comm string, trades int) DailySummary {
		d := DailySummary{
			Date:            time.Date(2025, month, day, 0, 0, 0, 0, s.Location),
			DayClearing:     dec(t, dayClr),
			EveningClearing: dec(t, eveClr),
			TradeResult:     dec(t, "0"),
			Commission:      dec(t, comm),
			TradesCount:     trades,
		}
		d.TotalProfit = d.DayClearing.Add(d.EveningClearing).Add(d.TradeResult).Sub(d.Commission)
		return d
	}
	return []DailySummary{
		mk(31, time.March, "-937.22", "-234.10", "345.83", 11),
		mk(1, time.April, "-957.54", "-688.96", "732.77", 22),
		mk(2, time.April, "-645.50", "-885.37", "552.16", 18),
		mk(3, time.April, "659.53", "-1216.49", "390.77", 12),
		mk(4, time.April, "6067.16", "902.59", "114.66", 2),
	}
}

func TestSummarize_StatementWeek(t *testing.T) {
	daily := tableDays(t)
	sum := Summarize(daily)

	if got := sum.StartDate.Format("2006-01-02"); got != "2025-03-31" {
		t.Fatalf("start_date=%s want 2025-03-31", got)
	}
	if got := sum.EndDate.Format("2006-01-02"); got != "2025-04-04" {
		t.Fatalf("end_date=%s want 2025-04-04", got)
	}
	if sum.TradesCount != 65 {
		t.Fatalf("trades_count=%d want 65", sum.TradesCount)
	}
	if sum.Commission.Cmp(dec(t, "2136.19")) != 0 {
		t.Fatalf("commission=%s want 2136.19", sum.Commission)
	}
	// The broker table reports -72.09 for this week.
	if sum.NetProfit.Cmp(dec(t, "-72.09")) != 0 {
		t.Fatalf("net_profit=%s want -72.09", sum.NetProfit)
	}
	if sum.GrossEarnings.Cmp(sum.NetProfit.Add(sum.Commission)) != 0 {
		t.Fatalf("total_earnings=%s want net+commission=%s",
			sum.GrossEarnings, sum.NetProfit.Add(sum.Commission))
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)
	if !sum.NetProfit.IsZero() || !sum.Commission.IsZero() || sum.TradesCount != 0 {
		t.Fatalf("empty summary not zero: %+v", sum)
	}
}

func TestSummarize_OrderIndependentSums(t *testing.T) {
	daily := tableDays(t)
	reversed := make([]DailySummary, len(daily))
	for i, d := range daily {
		reversed[len(daily)-1-i] = d
	}
	a, b := Summarize(daily), Summarize(reversed)
	if a.NetProfit.Cmp(b.NetProfit) != 0 || a.Commission.Cmp(b.Commission) != 0 {
		t.Fatalf("sums depend on order: %s/%s vs %s/%s",
			a.NetProfit, a.Commission, b.NetProfit, b.Commission)
	}
}

func TestBucketByWeek(t *testing.T) {
	daily := tableDays(t)
	buckets := BucketByWeek(daily)
	// 31.03-04.04 is a single ISO week (Mon-Fri).
	if len(buckets) != 1 {
		t.Fatalf("buckets=%d want 1", len(buckets))
	}
	if len(buckets[0]) != 5 {
		t.Fatalf("bucket size=%d want 5", len(buckets[0]))
	}
}

func TestBucketByMonth_SplitsAtBoundary(t *testing.T) {
	daily := tableDays(t)
	buckets := BucketByMonth(daily)
	if len(buckets) != 2 {
		t.Fatalf("buckets=%d want 2 (March, April)", len(buckets))
	}
	if len(buckets[0]) != 1 || len(buckets[1]) != 4 {
		t.Fatalf("bucket sizes=%d,%d want 1,4", len(buckets[0]), len(buckets[1]))
	}
}

func TestBucketing_PreservesTotals(t *testing.T) {
	daily := tableDays(t)
	whole := Summarize(daily)

	for _, buckets := range [][][]DailySummary{BucketByWeek(daily), BucketByMonth(daily)} {
		net := dec(t, "0")
		for _, bucket := range buckets {
			net = net.Add(Summarize(bucket).NetProfit)
		}
		if net.Cmp(whole.NetProfit) != 0 {
			t.Fatalf("bucketed net=%s want %s", net, whole.NetProfit)
		}
	}
}
