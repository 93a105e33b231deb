package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"brokerledger/internal/client/broker"
	"brokerledger/internal/config"
	"brokerledger/internal/models"
	"brokerledger/internal/repository"
)

// LedgerIngestService pulls executed operations from the broker feed
// into the local ledger, resuming from a per-account watermark. Upserts
// are idempotent, so the overlap window re-fetching recent rows is safe.
type LedgerIngestService struct {
	Repo      repository.Repository
	Broker    *broker.Client
	Logger    *zap.Logger
	Config    config.IngestConfig
	AccountID string
}

type IngestResult struct {
	Fetched  int   `json:"fetched"`
	Inserted int64 `json:"inserted"`
}

func (s *LedgerIngestService) RunOnce(ctx context.Context) (*IngestResult, error) {
	if s == nil || s.Repo == nil || s.Broker == nil {
		return &IngestResult{}, nil
	}
	now := time.Now().UTC()

	lookback := s.Config.LookbackDays
	if lookback <= 0 {
		lookback = 30
	}
	overlap := s.Config.Overlap
	if overlap <= 0 {
		overlap = time.Hour
	}

	from := now.AddDate(0, 0, -lookback)
	state, err := s.Repo.GetIngestState(ctx, s.AccountID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.IngestState{AccountID: s.AccountID}
	}
	if state.WatermarkTS != nil {
		resume := state.WatermarkTS.Add(-overlap)
		if resume.After(from) {
			from = resume
		}
	}
	state.LastAttemptAt = &now

	ops, err := s.Broker.GetOperations(ctx, s.AccountID, from, now)
	if err != nil {
		msg := err.Error()
		state.LastError = &msg
		_ = s.Repo.SaveIngestState(ctx, state)
		return nil, err
	}

	inserted, err := s.Repo.UpsertOperations(ctx, ops)
	if err != nil {
		msg := err.Error()
		state.LastError = &msg
		_ = s.Repo.SaveIngestState(ctx, state)
		return nil, err
	}

	watermark := from
	for _, op := range ops {
		if op.ExecutedAt.After(watermark) {
			watermark = op.ExecutedAt
		}
	}
	result := &IngestResult{Fetched: len(ops), Inserted: inserted}

	state.WatermarkTS = &watermark
	state.LastSuccessAt = &now
	state.LastError = nil
	if stats, err := json.Marshal(result); err == nil {
		state.StatsJSON = datatypes.JSON(stats)
	}
	if err := s.Repo.SaveIngestState(ctx, state); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("ledger ingest ok",
			zap.String("account", s.AccountID),
			zap.Int("fetched", result.Fetched),
			zap.Int64("inserted", result.Inserted),
			zap.Time("watermark", watermark),
		)
	}
	return result, nil
}
