package broker

import (
	"github.com/shopspring/decimal"

	"brokerledger/internal/models"
)

// Broker operation type identifiers as they appear on the wire.
const (
	OpTypeBuy               = "OPERATION_TYPE_BUY"
	OpTypeSell              = "OPERATION_TYPE_SELL"
	OpTypeBrokerFee         = "OPERATION_TYPE_BROKER_FEE"
	OpTypeAccruingVarmargin = "OPERATION_TYPE_ACCRUING_VARMARGIN"
	OpTypeWritingOffVarmrgn = "OPERATION_TYPE_WRITING_OFF_VARMARGIN"
)

type getOperationsRequest struct {
	AccountID string `json:"accountId"`
	From      string `json:"from"`
	To        string `json:"to"`
	State     string `json:"state"`
}

type getOperationsResponse struct {
	Operations []wireOperation `json:"operations"`
}

type wireOperation struct {
	ID       string        `json:"id"`
	Type     string        `json:"operationType"`
	Date     string        `json:"date"`
	Payment  moneyValue    `json:"payment"`
	Currency string        `json:"currency"`
	State    string        `json:"state"`
}

// moneyValue is the broker's split decimal: integer units plus
// nanoseconds-style fractional part.
type moneyValue struct {
	Currency string `json:"currency"`
	Units    int64  `json:"units,string"`
	Nano     int32  `json:"nano"`
}

// Decimal converts units/nano to an exact decimal. Nano carries the
// sign for values between -1 and 0 where units is zero.
func (m moneyValue) Decimal() decimal.Decimal {
	units := decimal.NewFromInt(m.Units)
	frac := decimal.New(int64(m.Nano), -9)
	return units.Add(frac)
}

// normalizeKind maps a broker operation type onto the ledger's closed
// kind set. Unrecognized types map to KindOther rather than erroring;
// the reconciliation engine ignores them.
func normalizeKind(opType string) string {
	switch opType {
	case OpTypeBuy, OpTypeSell:
		return models.KindTrade
	case OpTypeBrokerFee:
		return models.KindBrokerFee
	case OpTypeAccruingVarmargin, OpTypeWritingOffVarmrgn:
		return models.KindVariationMargin
	default:
		return models.KindOther
	}
}
