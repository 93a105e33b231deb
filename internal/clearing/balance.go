package clearing

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalancePoint is the account balance attributed to the open of one date.
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// ReconstructBalances walks daily summaries in chronological order and
// produces the opening-balance series the statement tables display:
// the first date opens at startingBalance, and each later date opens at
// the previous open plus the previous date's profit. Zero-profit dates
// advance the series without changing the value.
//
// Input must already be sorted by date; the function does not re-sort.
func ReconstructBalances(startingBalance decimal.Decimal, daily []DailySummary) []BalancePoint {
	points := make([]BalancePoint, 0, len(daily))
	running := startingBalance
	for i, d := range daily {
		if i > 0 {
			running = running.Add(daily[i-1].TotalProfit)
		}
		points = append(points, BalancePoint{Date: d.Date, Balance: running})
	}
	return points
}
