package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/pkg/cache"
	"github.com/ekant1999/StrategyEvolve/pkg/common"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type TradeService interface {
	Create(ctx context.Context, req dto.CreateTradeRequest) (*dto.UserTrade, error)
	ListByUser(ctx context.Context, query dto.ListTradesQuery) ([]dto.UserTrade, error)
}

type tradeService struct {
	log         *logger.Logger
	cache       cache.Cache
	tradeRepo   repository.TradeRepository
	userRepo    repository.UserRepository
	fastinoRepo repository.FastinoRepository
}

func NewTradeService(
	log *logger.Logger,
	inmemoryCache cache.Cache,
	tradeRepo repository.TradeRepository,
	userRepo repository.UserRepository,
	fastinoRepo repository.FastinoRepository,
) TradeService {
	return &tradeService{
		log:         log,
		cache:       inmemoryCache,
		tradeRepo:   tradeRepo,
		userRepo:    userRepo,
		fastinoRepo: fastinoRepo,
	}
}

// Create logs a user trade and forwards it to the memory service when one is configured.
func (s *tradeService) Create(ctx context.Context, req dto.CreateTradeRequest) (*dto.UserTrade, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, req.UserID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	trade := dto.UserTrade{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		StrategyID: req.StrategyID,
		Ticker:     strings.ToUpper(req.Ticker),
		Action:     req.Action,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Timestamp:  utils.TimeNow(),
	}
	if req.Timestamp != nil {
		trade.Timestamp = req.Timestamp.UTC()
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		s.log.ErrorContext(ctx, "Failed to save trade", logger.ErrorField(err), logger.StringField("user_id", req.UserID))
		return nil, fmt.Errorf("failed to save trade: %w", err)
	}
	s.cache.Delete(fmt.Sprintf(common.KEY_BEHAVIOR_PROFILE, req.UserID))

	if s.fastinoRepo.Enabled() {
		if err := s.fastinoRepo.IngestTrade(ctx, trade); err != nil {
			s.log.WarnContext(ctx, "Failed to ingest trade into memory service", logger.ErrorField(err), logger.StringField("trade_id", trade.ID))
		}
	}
	return &trade, nil
}

func (s *tradeService) ListByUser(ctx context.Context, query dto.ListTradesQuery) ([]dto.UserTrade, error) {
	var opts []utils.DBOption
	if query.Limit > 0 {
		opts = append(opts, utils.WithLimit(query.Limit))
	}
	return s.tradeRepo.ListByUser(ctx, query.UserID, opts...)
}
