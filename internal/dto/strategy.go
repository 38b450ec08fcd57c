package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
)

type StrategyKind string

const (
	StrategyKindBase      StrategyKind = "base"
	StrategyKindOptimized StrategyKind = "optimized"
	StrategyKindHybrid    StrategyKind = "hybrid"
)

// StrategyParameters is one parameterization of the MA crossover + RSI filter rule.
type StrategyParameters struct {
	MAShort      int      `json:"ma_short" validate:"required,gt=0"`
	MALong       int      `json:"ma_long" validate:"required,gtfield=MAShort"`
	RSIThreshold float64  `json:"rsi_threshold" validate:"required,gt=0,lt=100"`
	PositionSize float64  `json:"position_size" validate:"required,gt=0,lte=1"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	TakeProfit   *float64 `json:"take_profit,omitempty"`
}

var paramsValidator = newParamsValidator()

func newParamsValidator() *goValidator.Validate {
	v := goValidator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the invariants a backtest relies on, reporting the first broken field.
func (p StrategyParameters) Validate() error {
	err := paramsValidator.Struct(p)
	if err == nil {
		return nil
	}
	var verrs goValidator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return NewValidationError(fe.Field(), p.reason(fe))
}

func (p StrategyParameters) reason(fe goValidator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("is required, got %v", fe.Value())
	case "gt":
		return fmt.Sprintf("must be > %s, got %v", fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("must be < %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "gtfield":
		return fmt.Sprintf("must be > ma_short (%d), got %v", p.MAShort, fe.Value())
	}
	return fmt.Sprintf("failed %s check, got %v", fe.Tag(), fe.Value())
}

type StrategyMetrics struct {
	SharpeRatio      float64 `json:"sharpe_ratio"`
	TotalReturn      float64 `json:"total_return"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	WinRate          float64 `json:"win_rate"`
	AvgTradeDuration float64 `json:"avg_trade_duration"`
	NumTrades        int     `json:"num_trades"`
}

type Strategy struct {
	ID         string             `json:"id"`
	UserID     *string            `json:"user_id,omitempty"`
	Name       string             `json:"name"`
	Kind       StrategyKind       `json:"type"`
	Parameters StrategyParameters `json:"parameters"`
	Metrics    *StrategyMetrics   `json:"metrics,omitempty"`
	ParentID   *string            `json:"parent_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// MetricsOrZero returns the attached metrics, or the zero value when the strategy was never backtested.
func (s Strategy) MetricsOrZero() StrategyMetrics {
	if s.Metrics == nil {
		return StrategyMetrics{}
	}
	return *s.Metrics
}

// WithMetrics returns a copy with metrics attached; parameters are never touched.
func (s Strategy) WithMetrics(m StrategyMetrics) Strategy {
	s.Metrics = &m
	return s
}
