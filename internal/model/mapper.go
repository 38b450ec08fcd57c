package model

import (
	"encoding/json"
	"fmt"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"gorm.io/datatypes"
)

func StrategyFromDTO(s dto.Strategy) (*Strategy, error) {
	params, err := json.Marshal(s.Parameters)
	if err != nil {
		return nil, fmt.Errorf("marshal parameters: %w", err)
	}
	out := &Strategy{
		ID:         s.ID,
		UserID:     s.UserID,
		Name:       s.Name,
		Type:       string(s.Kind),
		Parameters: datatypes.JSON(params),
		ParentID:   s.ParentID,
		CreatedAt:  s.CreatedAt,
	}
	if s.Metrics != nil {
		metrics, err := json.Marshal(s.Metrics)
		if err != nil {
			return nil, fmt.Errorf("marshal metrics: %w", err)
		}
		out.Metrics = datatypes.JSON(metrics)
	}
	return out, nil
}

func (s *Strategy) ToDTO() (dto.Strategy, error) {
	out := dto.Strategy{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		Kind:      dto.StrategyKind(s.Type),
		ParentID:  s.ParentID,
		CreatedAt: s.CreatedAt,
	}
	if err := json.Unmarshal(s.Parameters, &out.Parameters); err != nil {
		return dto.Strategy{}, fmt.Errorf("unmarshal parameters of %s: %w", s.ID, err)
	}
	if len(s.Metrics) > 0 && string(s.Metrics) != "null" {
		var m dto.StrategyMetrics
		if err := json.Unmarshal(s.Metrics, &m); err != nil {
			return dto.Strategy{}, fmt.Errorf("unmarshal metrics of %s: %w", s.ID, err)
		}
		out.Metrics = &m
	}
	return out, nil
}

func EvolutionEventFromDTO(e dto.EvolutionEvent) (*EvolutionEvent, error) {
	improvement, err := json.Marshal(e.Improvement)
	if err != nil {
		return nil, fmt.Errorf("marshal improvement: %w", err)
	}
	return &EvolutionEvent{
		ID:            e.ID,
		Type:          string(e.Kind),
		OldStrategyID: e.OldStrategyID,
		NewStrategyID: e.NewStrategyID,
		Improvement:   datatypes.JSON(improvement),
		Insights:      e.Insights,
		CreatedAt:     e.CreatedAt,
	}, nil
}

func (e *EvolutionEvent) ToDTO() (dto.EvolutionEvent, error) {
	out := dto.EvolutionEvent{
		ID:            e.ID,
		Kind:          dto.EvolutionKind(e.Type),
		OldStrategyID: e.OldStrategyID,
		NewStrategyID: e.NewStrategyID,
		Insights:      e.Insights,
		CreatedAt:     e.CreatedAt,
	}
	if err := json.Unmarshal(e.Improvement, &out.Improvement); err != nil {
		return dto.EvolutionEvent{}, fmt.Errorf("unmarshal improvement of %s: %w", e.ID, err)
	}
	return out, nil
}

func TradeFromDTO(t dto.UserTrade) *Trade {
	return &Trade{
		ID:         t.ID,
		UserID:     t.UserID,
		StrategyID: t.StrategyID,
		Ticker:     t.Ticker,
		Action:     string(t.Action),
		Quantity:   t.Quantity,
		Price:      t.Price,
		Timestamp:  t.Timestamp,
	}
}

func (t *Trade) ToDTO() dto.UserTrade {
	return dto.UserTrade{
		ID:         t.ID,
		UserID:     t.UserID,
		StrategyID: t.StrategyID,
		Ticker:     t.Ticker,
		Action:     dto.TradeAction(t.Action),
		Quantity:   t.Quantity,
		Price:      t.Price,
		Timestamp:  t.Timestamp,
	}
}

func (u *User) ToDTO() dto.User {
	return dto.User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}
