package gormrepository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brokerledger/internal/models"
	"brokerledger/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertOperations(ctx context.Context, items []models.Operation) (int64, error) {
	if s == nil || s.db == nil || len(items) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).CreateInBatches(items, 500)
	return res.RowsAffected, res.Error
}

func (s *Store) ListOperations(ctx context.Context, params repository.ListOperationsParams) ([]models.Operation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOperationFilters(s.db.WithContext(ctx).Model(&models.Operation{}), params)
	query = query.Order("executed_at ASC").Order("id ASC")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}
	var items []models.Operation
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountOperations(ctx context.Context, params repository.ListOperationsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int64
	query := applyOperationFilters(s.db.WithContext(ctx).Model(&models.Operation{}), params)
	if err := query.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) LatestOperationTime(ctx context.Context, accountID string) (*time.Time, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var op models.Operation
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("executed_at DESC").
		First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := op.ExecutedAt
	return &t, nil
}

func (s *Store) GetIngestState(ctx context.Context, accountID string) (*models.IngestState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.IngestState
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) SaveIngestState(ctx context.Context, state *models.IngestState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		UpdateAll: true,
	}).Create(state).Error
}

func applyOperationFilters(query *gorm.DB, params repository.ListOperationsParams) *gorm.DB {
	if params.AccountID != "" {
		query = query.Where("account_id = ?", params.AccountID)
	}
	if !params.From.IsZero() {
		query = query.Where("executed_at >= ?", params.From)
	}
	if !params.To.IsZero() {
		query = query.Where("executed_at < ?", params.To)
	}
	if len(params.Kinds) > 0 {
		query = query.Where("kind IN ?", params.Kinds)
	}
	return query
}
