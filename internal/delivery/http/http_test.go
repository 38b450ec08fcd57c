package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/internal/service"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategyService struct {
	service.StrategyService
	getErr      error
	gotBacktest dto.BacktestRequest
	backtestErr error
}

func (f *fakeStrategyService) Get(_ context.Context, id string) (*dto.Strategy, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &dto.Strategy{ID: id, Kind: dto.StrategyKindBase}, nil
}

func (f *fakeStrategyService) List(_ context.Context, kind dto.StrategyKind) ([]dto.Strategy, error) {
	return []dto.Strategy{{ID: "s-1", Kind: kind}}, nil
}

func (f *fakeStrategyService) BacktestParameters(_ context.Context, req dto.BacktestRequest) (*backtest.Result, error) {
	f.gotBacktest = req
	if f.backtestErr != nil {
		return nil, f.backtestErr
	}
	return &backtest.Result{FinalCapital: 10500, Metrics: dto.StrategyMetrics{TotalReturn: 5}}, nil
}

type fakeEvolutionService struct {
	service.EvolutionService
	gotHistory dto.HistoryQuery
}

func (f *fakeEvolutionService) History(_ context.Context, query dto.HistoryQuery) ([]dto.EvolutionEvent, error) {
	f.gotHistory = query
	return []dto.EvolutionEvent{}, nil
}

type fakeSchedulerService struct {
	service.SchedulerService
	runs int
	err  error
}

func (f *fakeSchedulerService) Execute(context.Context) error {
	f.runs++
	return f.err
}

type handlerFixture struct {
	echo      *echo.Echo
	handler   *HttpAPIHandler
	strategy  *fakeStrategyService
	evolution *fakeEvolutionService
	scheduler *fakeSchedulerService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	cfg := &config.Config{API: config.API{RateLimitPerSec: 1000, RateLimitBurst: 1000}}
	f := &handlerFixture{
		echo:      echo.New(),
		strategy:  &fakeStrategyService{},
		evolution: &fakeEvolutionService{},
		scheduler: &fakeSchedulerService{},
	}
	svc := &service.Service{
		StrategyService:  f.strategy,
		EvolutionService: f.evolution,
		SchedulerService: f.scheduler,
	}
	f.handler = NewHttpAPIHandler(context.Background(), cfg, logger.NewNop(), f.echo, goValidator.New(), svc)
	f.handler.SetupRoutes()
	return f
}

func (f *handlerFixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, dto.BaseResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	var resp dto.BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestBacktestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "valid parameters",
			body:     `{"parameters":{"ma_short":20,"ma_long":50,"rsi_threshold":30,"position_size":0.1},"ticker":"AAPL","days":120}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "long window not above short",
			body:     `{"parameters":{"ma_short":50,"ma_long":20,"rsi_threshold":30,"position_size":0.1}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "position size above one",
			body:     `{"parameters":{"ma_short":20,"ma_long":50,"rsi_threshold":30,"position_size":1.5}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `{"parameters":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			rec, resp := f.do(t, http.MethodPost, "/api/v1/backtest", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestBacktestEndpoint_PassesWindow(t *testing.T) {
	f := newHandlerFixture(t)
	body := `{"parameters":{"ma_short":20,"ma_long":50,"rsi_threshold":30,"position_size":0.1},"ticker":"AAPL","days":120}`

	rec, resp := f.do(t, http.MethodPost, "/api/v1/backtest", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", f.strategy.gotBacktest.Ticker)
	assert.Equal(t, 120, f.strategy.gotBacktest.Days)
	assert.Equal(t, 50, f.strategy.gotBacktest.Parameters.MALong)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 10500.0, data["final_capital"], 1e-9)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "validation", err: dto.NewValidationError("ma_long", "must exceed ma_short"), wantCode: http.StatusBadRequest},
		{name: "malformed bars", err: fmt.Errorf("run: %w", &backtest.BarError{Index: 3, Reason: "high below low"}), wantCode: http.StatusBadRequest},
		{name: "missing strategy", err: fmt.Errorf("get: %w", service.ErrStrategyNotFound), wantCode: http.StatusNotFound},
		{name: "missing user", err: service.ErrUserNotFound, wantCode: http.StatusNotFound},
		{name: "missing row", err: repository.ErrNotFound, wantCode: http.StatusNotFound},
		{
			name:     "no viable variant wins over its cause",
			err:      &evolution.NoViableStrategyError{Attempted: 20, LastErr: dto.NewValidationError("position_size", "out of range")},
			wantCode: http.StatusUnprocessableEntity,
		},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.strategy.backtestErr = tt.err
			body := `{"parameters":{"ma_short":20,"ma_long":50,"rsi_threshold":30,"position_size":0.1}}`

			rec, resp := f.do(t, http.MethodPost, "/api/v1/backtest", body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestStrategyRoutes(t *testing.T) {
	f := newHandlerFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/strategies?type=hybrid", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/strategies?type=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Message, "type must be one of")

	f.strategy.getErr = fmt.Errorf("get strategy: %w", service.ErrStrategyNotFound)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/strategies/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryBindsQuery(t *testing.T) {
	f := newHandlerFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/evolution/history?strategy_id=base-1&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.HistoryQuery{StrategyID: "base-1", Limit: 5}, f.evolution.gotHistory)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/evolution/history?limit=0", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/evolution/history?limit=9999", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunJobs(t *testing.T) {
	f := newHandlerFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/jobs/evolve/run", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.scheduler.runs)

	f.scheduler.err = errors.New("optimize base strategies: boom")
	rec, resp := f.do(t, http.MethodPost, "/api/v1/jobs/evolve/run", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, resp.Message, "boom")
}

func TestRequestIDHeader(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	req.Header.Set(echo.HeaderXRequestID, "trace-42")
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-42", rec.Header().Get(echo.HeaderXRequestID))

	rec, _ = f.do(t, http.MethodGet, "/api/v1/strategies", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHealth(t *testing.T) {
	f := newHandlerFixture(t)
	rec, resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp.Message)
}
