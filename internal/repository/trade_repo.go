package repository

import (
	"context"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/model"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"gorm.io/gorm"
)

type TradeRepository interface {
	Create(ctx context.Context, trade dto.UserTrade, opts ...utils.DBOption) error
	ListByUser(ctx context.Context, userID string, opts ...utils.DBOption) ([]dto.UserTrade, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade dto.UserTrade, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(model.TradeFromDTO(trade)).Error
}

func (r *tradeRepository) ListByUser(ctx context.Context, userID string, opts ...utils.DBOption) ([]dto.UserTrade, error) {
	var rows []model.Trade
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("user_id = ?", userID).Order("timestamp DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.UserTrade, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDTO())
	}
	return out, nil
}
