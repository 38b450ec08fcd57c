package repository

import (
	"context"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/model"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"gorm.io/gorm"
)

// EvolutionRepository is append only: events are never updated or deleted.
type EvolutionRepository interface {
	Create(ctx context.Context, event dto.EvolutionEvent, opts ...utils.DBOption) error
	List(ctx context.Context, opts ...utils.DBOption) ([]dto.EvolutionEvent, error)
	ListByStrategy(ctx context.Context, strategyID string, opts ...utils.DBOption) ([]dto.EvolutionEvent, error)
}

type evolutionRepository struct {
	db *gorm.DB
}

func NewEvolutionRepository(db *gorm.DB) EvolutionRepository {
	return &evolutionRepository{db: db}
}

func (r *evolutionRepository) Create(ctx context.Context, event dto.EvolutionEvent, opts ...utils.DBOption) error {
	row, err := model.EvolutionEventFromDTO(event)
	if err != nil {
		return err
	}
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(row).Error
}

func (r *evolutionRepository) List(ctx context.Context, opts ...utils.DBOption) ([]dto.EvolutionEvent, error) {
	var rows []model.EvolutionEvent
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Order("created_at DESC")
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.EvolutionEvent, 0, len(rows))
	for i := range rows {
		ev, err := rows[i].ToDTO()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *evolutionRepository) ListByStrategy(ctx context.Context, strategyID string, opts ...utils.DBOption) ([]dto.EvolutionEvent, error) {
	return r.List(ctx, append(opts, utils.WithWhere("old_strategy_id = ? OR new_strategy_id = ?", strategyID, strategyID))...)
}
