package clearing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary is the elementwise sum of a run of daily summaries.
// GrossEarnings is the pre-commission result (the statement tables'
// earnings column): NetProfit + Commission.
type PeriodSummary struct {
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	DayClearing     decimal.Decimal `json:"day_clearing"`
	EveningClearing decimal.Decimal `json:"evening_clearing"`
	TradeResult     decimal.Decimal `json:"trade_result"`
	Commission      decimal.Decimal `json:"commission"`
	TradesCount     int             `json:"trades_count"`
	GrossEarnings   decimal.Decimal `json:"total_earnings"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}

// Summarize sums daily summaries into one period record. The sums are
// order-independent; StartDate and EndDate are taken from the first and
// last element, so callers pass the slice in chronological order.
func Summarize(daily []DailySummary) PeriodSummary {
	sum := PeriodSummary{
		DayClearing:     decimal.Zero,
		EveningClearing: decimal.Zero,
		TradeResult:     decimal.Zero,
		Commission:      decimal.Zero,
		GrossEarnings:   decimal.Zero,
		NetProfit:       decimal.Zero,
	}
	if len(daily) == 0 {
		return sum
	}
	sum.StartDate = daily[0].Date
	sum.EndDate = daily[len(daily)-1].Date
	for _, d := range daily {
		sum.DayClearing = sum.DayClearing.Add(d.DayClearing)
		sum.EveningClearing = sum.EveningClearing.Add(d.EveningClearing)
		sum.TradeResult = sum.TradeResult.Add(d.TradeResult)
		sum.Commission = sum.Commission.Add(d.Commission)
		sum.TradesCount += d.TradesCount
		sum.NetProfit = sum.NetProfit.Add(d.TotalProfit)
	}
	sum.GrossEarnings = sum.NetProfit.Add(sum.Commission)
	return sum
}

// BucketByWeek splits chronologically ordered daily summaries into
// consecutive ISO-week runs.
func BucketByWeek(daily []DailySummary) [][]DailySummary {
	return bucketBy(daily, func(d time.Time) (int, int) {
		return d.ISOWeek()
	})
}

// BucketByMonth splits chronologically ordered daily summaries into
// consecutive calendar-month runs.
func BucketByMonth(daily []DailySummary) [][]DailySummary {
	return bucketBy(daily, func(d time.Time) (int, int) {
		return d.Year(), int(d.Month())
	})
}

func bucketBy(daily []DailySummary, key func(time.Time) (int, int)) [][]DailySummary {
	var buckets [][]DailySummary
	var curA, curB int
	for i, d := range daily {
		a, b := key(d.Date)
		if i == 0 || a != curA || b != curB {
			buckets = append(buckets, nil)
			curA, curB = a, b
		}
		buckets[len(buckets)-1] = append(buckets[len(buckets)-1], d)
	}
	return buckets
}
