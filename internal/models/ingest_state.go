package models

import (
	"time"

	"gorm.io/datatypes"
)

// IngestState tracks the incremental ingest cursor for one broker account.
type IngestState struct {
	AccountID     string         `gorm:"primaryKey;type:varchar(64)"`
	WatermarkTS   *time.Time     `gorm:"type:timestamptz"`
	LastSuccessAt *time.Time     `gorm:"type:timestamptz"`
	LastAttemptAt *time.Time     `gorm:"type:timestamptz"`
	LastError     *string        `gorm:"type:text"`
	StatsJSON     datatypes.JSON `gorm:"type:jsonb"`
}

func (IngestState) TableName() string {
	return "ingest_state"
}
