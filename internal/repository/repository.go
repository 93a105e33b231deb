package repository

import (
	"context"
	"time"

	"brokerledger/internal/models"
)

type ListOperationsParams struct {
	AccountID string
	From      time.Time
	To        time.Time
	Kinds     []string
	Limit     int
	Offset    int
}

// Repository is the persistence surface for the ingested operation ledger.
type Repository interface {
	// Operations are append-only; upsert is idempotent on external ID.
	UpsertOperations(ctx context.Context, items []models.Operation) (int64, error)
	ListOperations(ctx context.Context, params ListOperationsParams) ([]models.Operation, error)
	CountOperations(ctx context.Context, params ListOperationsParams) (int64, error)
	LatestOperationTime(ctx context.Context, accountID string) (*time.Time, error)

	GetIngestState(ctx context.Context, accountID string) (*models.IngestState, error)
	SaveIngestState(ctx context.Context, state *models.IngestState) error
}
