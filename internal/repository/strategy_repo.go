package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/model"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StrategyRepository interface {
	Create(ctx context.Context, strategy dto.Strategy, opts ...utils.DBOption) error
	CreateMany(ctx context.Context, strategies []dto.Strategy, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id string, opts ...utils.DBOption) (*dto.Strategy, error)
	List(ctx context.Context, opts ...utils.DBOption) ([]dto.Strategy, error)
	ListByKind(ctx context.Context, kind dto.StrategyKind, opts ...utils.DBOption) ([]dto.Strategy, error)
	UpdateMetrics(ctx context.Context, id string, metrics dto.StrategyMetrics, opts ...utils.DBOption) error
}

type strategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) StrategyRepository {
	return &strategyRepository{db: db}
}

func (r *strategyRepository) Create(ctx context.Context, strategy dto.Strategy, opts ...utils.DBOption) error {
	row, err := model.StrategyFromDTO(strategy)
	if err != nil {
		return err
	}
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(row).Error
}

func (r *strategyRepository) CreateMany(ctx context.Context, strategies []dto.Strategy, opts ...utils.DBOption) error {
	if len(strategies) == 0 {
		return nil
	}
	rows := make([]*model.Strategy, 0, len(strategies))
	for _, s := range strategies {
		row, err := model.StrategyFromDTO(s)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.CreateInBatches(rows, 100).Error
}

func (r *strategyRepository) GetByID(ctx context.Context, id string, opts ...utils.DBOption) (*dto.Strategy, error) {
	var row model.Strategy
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translateError(err)
	}

	out, err := row.ToDTO()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *strategyRepository) List(ctx context.Context, opts ...utils.DBOption) ([]dto.Strategy, error) {
	var rows []model.Strategy
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Order("created_at DESC")
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStrategies(rows)
}

func (r *strategyRepository) ListByKind(ctx context.Context, kind dto.StrategyKind, opts ...utils.DBOption) ([]dto.Strategy, error) {
	return r.List(ctx, append(opts, utils.WithWhere("type = ?", string(kind)))...)
}

func (r *strategyRepository) UpdateMetrics(ctx context.Context, id string, metrics dto.StrategyMetrics, opts ...utils.DBOption) error {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	res := tx.Model(&model.Strategy{}).Where("id = ?", id).Update("metrics", datatypes.JSON(raw))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toStrategies(rows []model.Strategy) ([]dto.Strategy, error) {
	out := make([]dto.Strategy, 0, len(rows))
	for i := range rows {
		s, err := rows[i].ToDTO()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
