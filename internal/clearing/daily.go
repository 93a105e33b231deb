package clearing

import (
	"time"

	"github.com/shopspring/decimal"

	"brokerledger/internal/models"
)

// DailySummary is the reconciled result for one calendar date.
// Commission is a positive magnitude (a cost), so
// TotalProfit = DayClearing + EveningClearing + TradeResult - Commission.
type DailySummary struct {
	Date            time.Time       `json:"date"`
	DayClearing     decimal.Decimal `json:"day_clearing"`
	EveningClearing decimal.Decimal `json:"evening_clearing"`
	TradeResult     decimal.Decimal `json:"trade_result"`
	Commission      decimal.Decimal `json:"commission"`
	TradesCount     int             `json:"trades_count"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
}

// AggregateDay folds the given date's operations into one summary.
// Callers pass only operations executed on date (schedule timezone);
// operations for other dates would silently pollute the sums.
// An empty slice yields an all-zero summary, not an error: dates with
// no activity still appear in reports.
func AggregateDay(s Schedule, date time.Time, ops []models.Operation) DailySummary {
	sum := DailySummary{
		Date:            date,
		DayClearing:     decimal.Zero,
		EveningClearing: decimal.Zero,
		TradeResult:     decimal.Zero,
		Commission:      decimal.Zero,
		TotalProfit:     decimal.Zero,
	}
	for _, op := range ops {
		switch s.Classify(op) {
		case BucketDayClearing:
			sum.DayClearing = sum.DayClearing.Add(op.Amount)
		case BucketEveningClearing:
			sum.EveningClearing = sum.EveningClearing.Add(op.Amount)
		case BucketTrade:
			sum.TradeResult = sum.TradeResult.Add(op.Amount)
			sum.TradesCount++
		case BucketCommission:
			// Broker fee rows usually carry a negative payment;
			// the tables report commission as a positive cost.
			sum.Commission = sum.Commission.Add(op.Amount.Abs())
		case BucketIgnored:
			// Unknown kinds stay out of every column.
		}
	}
	sum.TotalProfit = sum.DayClearing.
		Add(sum.EveningClearing).
		Add(sum.TradeResult).
		Sub(sum.Commission)
	return sum
}
