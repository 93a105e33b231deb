package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Operation kinds as normalized from the broker operation feed.
// Unknown broker types are stored as KindOther and never fail ingestion.
const (
	KindTrade           = "trade"
	KindVariationMargin = "variation_margin"
	KindBrokerFee       = "broker_fee"
	KindOther           = "other"
)

// Operation is one raw ledger entry. Rows are immutable after ingest;
// re-ingesting the same external ID is a no-op upsert.
type Operation struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ExternalID string `gorm:"type:varchar(64);not null;uniqueIndex"`
	AccountID  string `gorm:"type:varchar(64);not null;index"`

	Kind       string          `gorm:"type:varchar(32);not null;index"`
	ExecutedAt time.Time       `gorm:"type:timestamptz;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	Currency   string          `gorm:"type:varchar(8);not null;default:'RUB'"`

	Raw       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"type:timestamptz;autoCreateTime"`
}

func (Operation) TableName() string {
	return "operations"
}
